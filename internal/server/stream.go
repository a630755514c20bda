package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// streamInterval paces the preview at about 15 fps.
const streamInterval = 66 * time.Millisecond

// StreamHandler serves the camera preview as MJPEG.
type StreamHandler struct {
	app      Controller
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler reading previews from c.
func NewStreamHandler(c Controller) *StreamHandler {
	return &StreamHandler{app: c, interval: streamInterval}
}

// ServeHTTP streams MJPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last []byte
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		jpeg := h.app.Preview()
		if len(jpeg) == 0 || bytes.Equal(jpeg, last) {
			continue
		}
		last = jpeg

		if err := writePart(w, jpeg); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func writePart(w io.Writer, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
