package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// eventStream writes server-sent events to one response.
type eventStream struct {
	w      http.ResponseWriter
	flush  http.Flusher
	closed bool
}

// newEventStream sends the event-stream headers. It reports false when the
// response cannot be flushed incrementally.
func newEventStream(c echo.Context) (*eventStream, bool) {
	res := c.Response()
	f, ok := res.Writer.(http.Flusher)
	if !ok {
		return nil, false
	}

	h := res.Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	f.Flush()
	return &eventStream{w: res, flush: f}, true
}

// send writes one event. Strings are sent as is; anything else as JSON.
func (s *eventStream) send(event string, v any) error {
	if s.closed {
		return nil
	}
	data, ok := v.(string)
	if !ok {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		data = string(b)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	s.flush.Flush()
	return nil
}

func (s *eventStream) close() {
	if s.closed {
		return
	}
	_ = s.send("close", "null")
	s.closed = true
}
