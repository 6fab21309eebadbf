package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so that per-session
// events can be aggregated and queried by session, client, or command.
const (
	// Session & connection
	KeySessionID  = "session_id"  // Per-connection session identifier
	KeyClientIP   = "client_ip"   // Client IP address
	KeyClientPort = "client_port" // Client source port

	// Control channel
	KeyCommand   = "command"    // FTP verb: USER, RETR, PASV, ...
	KeyParam     = "param"      // Command parameter (passwords are redacted)
	KeyReplyCode = "reply_code" // Numeric reply code sent to the client
	KeyUsername  = "username"   // Login name from USER

	// Filesystem
	KeyPath    = "path"     // Virtual path as seen by the client
	KeyOldPath = "old_path" // Source path for RNFR/RNTO
	KeyNewPath = "new_path" // Destination path for RNFR/RNTO

	// Data channel
	KeyMode         = "mode"          // Transfer mode: active, passive
	KeyBytesSent    = "bytes_sent"    // Bytes written to the data socket
	KeyBytesWritten = "bytes_written" // Bytes written to the local file
	KeyEntries      = "entries"       // Directory entries in a listing

	// Operation metadata
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
)

// SessionID returns a slog.Attr for the session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// ClientIP returns a slog.Attr for the client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Command returns a slog.Attr for the FTP verb
func Command(verb string) slog.Attr {
	return slog.String(KeyCommand, verb)
}

// ReplyCode returns a slog.Attr for the numeric reply code
func ReplyCode(code int) slog.Attr {
	return slog.Int(KeyReplyCode, code)
}

// Username returns a slog.Attr for the login name
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// Path returns a slog.Attr for a virtual path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// BytesSent returns a slog.Attr for bytes written to the data socket
func BytesSent(n int64) slog.Attr {
	return slog.Int64(KeyBytesSent, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
