package widget

// Host-frame status messages. When the widget renders inside a cross-origin
// frame these are posted to the embedding page; a one-way protocol, never an
// RPC channel.
const (
	FrameWidgetReady = "WIDGET_READY"
	FrameWidgetOpen  = "WIDGET_OPEN"
	FrameWidgetClose = "WIDGET_CLOSE"
)

// FrameMessage is the payload posted to the host page.
type FrameMessage struct {
	Type string `json:"type"`
}

// FrameSink receives host-page announcements.
type FrameSink interface {
	Post(msg FrameMessage)
}

func (w *Widget) announce(msgType string) {
	if w.frame == nil {
		return
	}
	w.frame.Post(FrameMessage{Type: msgType})
}
