package control

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"mindfulbreak/internal/core/content"
	"mindfulbreak/internal/core/scheduler"
)

const (
	streamBuffer = 16
	writeTimeout = 5 * time.Second
)

// Stream message sources.
const (
	SourceSnapshot  = "snapshot"
	SourceScheduler = "scheduler"
	SourceContent   = "content"
)

// StreamMessage is one frame on the events websocket. The first frame is
// always a snapshot of both components.
type StreamMessage struct {
	Source   string              `json:"source"`
	Snapshot *scheduler.Snapshot `json:"snapshot,omitempty"`
	Event    *scheduler.Event    `json:"event,omitempty"`
	Content  *content.State      `json:"content,omitempty"`
}

// StreamEvents upgrades to a websocket and forwards scheduler events and
// content states until either side goes away.
func (server *Server) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		server.logger.WithError(err).Warn("failed to accept websocket")
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "stream ended"); closeErr != nil {
			server.logger.WithError(closeErr).Debug("failed to close websocket")
		}
	}()

	events := server.scheduler.Subscribe(streamBuffer)
	defer server.scheduler.Unsubscribe(events)
	states := server.content.Subscribe(streamBuffer)
	defer server.content.Unsubscribe(states)

	// Clients only listen; CloseRead handles their close frame.
	ctx := ws.CloseRead(r.Context())

	snapshot := server.scheduler.Snapshot()
	current := server.content.State()
	if err := writeMessage(ctx, ws, StreamMessage{Source: SourceSnapshot, Snapshot: &snapshot, Content: &current}); err != nil {
		return
	}

	server.logger.Debug("event stream opened")
	for {
		var message StreamMessage
		select {
		case <-ctx.Done():
			server.logger.Debug("event stream closed")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			message = StreamMessage{Source: SourceScheduler, Event: &event}
		case state, ok := <-states:
			if !ok {
				return
			}
			message = StreamMessage{Source: SourceContent, Content: &state}
		}
		if err := writeMessage(ctx, ws, message); err != nil {
			server.logger.WithError(err).Debug("event stream write failed")
			return
		}
	}
}

func writeMessage(ctx context.Context, ws *websocket.Conn, message StreamMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(writeCtx, websocket.MessageText, data)
}
