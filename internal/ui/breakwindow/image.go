package breakwindow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"fyne.io/fyne/v2"
)

const (
	imageTimeout  = 15 * time.Second
	maxImageBytes = 10 << 20
)

var errNotImage = errors.New("response is not an image")

// imageLoader downloads remote images into static fyne resources.
type imageLoader struct {
	client *http.Client
}

func (loader imageLoader) load(ctx context.Context, target string) (fyne.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	response, err := loader.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("download image: status %d", response.StatusCode)
	}
	if contentType := response.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %q", errNotImage, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return fyne.NewStaticResource(resourceName(response.Request.URL.Path), data), nil
}

func resourceName(urlPath string) string {
	name := path.Base(urlPath)
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}
