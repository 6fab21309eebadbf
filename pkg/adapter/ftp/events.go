package ftp

import "time"

// EventType identifies a session lifecycle or transfer event.
type EventType string

const (
	EventSessionOpened EventType = "session_opened"
	EventSessionClosed EventType = "session_closed"
	EventLoginOK       EventType = "login_ok"
	EventLoginFailed   EventType = "login_failed"
	EventDownload      EventType = "download"
	EventUpload        EventType = "upload"
)

// Event describes something observable that happened inside a session.
type Event struct {
	// Type of the event.
	Type EventType

	// SessionID is the stable identifier of the originating session.
	SessionID string

	// RemoteAddr is the client's control-channel address.
	RemoteAddr string

	// Username is set on login and transfer events.
	Username string

	// Path is the virtual path involved in a transfer event.
	Path string

	// Bytes moved, for transfer events.
	Bytes int64

	// Time the event occurred.
	Time time.Time
}

// EventSink receives session events. Implementations must be safe for
// concurrent use and must not block: sinks are invoked inline from session
// goroutines.
//
// A nil sink disables event delivery.
type EventSink interface {
	OnEvent(Event)
}

// EventFunc adapts a function to the EventSink interface.
type EventFunc func(Event)

// OnEvent calls f(e).
func (f EventFunc) OnEvent(e Event) { f(e) }
