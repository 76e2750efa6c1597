package breakwindow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestImageLoaderReturnsNamedResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "/photos/lake.jpg", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	loader := imageLoader{client: server.Client()}
	resource, err := loader.load(context.Background(), server.URL+"/redirect")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resource.Name() != "lake.jpg" {
		t.Errorf("name = %q, want lake.jpg", resource.Name())
	}
	if string(resource.Content()) != "jpeg-bytes" {
		t.Errorf("content = %q", resource.Content())
	}
}

func TestImageLoaderRejectsNonImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	_, err := imageLoader{client: server.Client()}.load(context.Background(), server.URL)
	if !errors.Is(err, errNotImage) {
		t.Errorf("err = %v, want errNotImage", err)
	}
}

func TestImageLoaderReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	if _, err := (imageLoader{client: server.Client()}).load(context.Background(), server.URL); err == nil {
		t.Error("load succeeded on 404")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		value time.Duration
		want  string
	}{
		{-time.Second, "00:00"},
		{59 * time.Second, "00:59"},
		{5*time.Minute + 7*time.Second, "05:07"},
		{75 * time.Minute, "75:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.value); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestResourceName(t *testing.T) {
	if got := resourceName("/"); got != "image" {
		t.Errorf("resourceName(/) = %q, want image", got)
	}
	if got := resourceName("/a/b.png"); got != "b.png" {
		t.Errorf("resourceName(/a/b.png) = %q, want b.png", got)
	}
}
