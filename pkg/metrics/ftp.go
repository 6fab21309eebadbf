// Package metrics defines the observability interfaces consumed by the FTP
// adapter. The interfaces are optional: passing nil disables collection with
// zero overhead. The Prometheus implementation lives in
// pkg/metrics/prometheus.
package metrics

import (
	"time"
)

// Transfer directions reported to FTPMetrics.
const (
	DirectionDownload = "download" // RETR
	DirectionUpload   = "upload"   // STOR
	DirectionListing  = "listing"  // LIST
)

// Transfer results reported to FTPMetrics.
const (
	ResultComplete = "complete" // transfer finished, 226 sent
	ResultSetup    = "setup"    // data channel never established, 425 sent
	ResultAborted  = "aborted"  // failed mid-transfer, 426 sent
)

// FTPMetrics provides observability for FTP adapter operations.
//
// Implementations must be safe for concurrent use; every session reports
// independently. This interface is optional - pass nil to disable metrics
// collection with zero overhead.
type FTPMetrics interface {
	// RecordCommand counts a received command by verb.
	RecordCommand(verb string)

	// RecordReply counts a control-channel reply by numeric code.
	RecordReply(code int)

	// RecordTransfer records a finished (or failed) data-channel transfer.
	//
	// Parameters:
	//   - direction: DirectionDownload, DirectionUpload, or DirectionListing
	//   - result: ResultComplete, ResultSetup, or ResultAborted
	//   - bytes: Bytes moved over the data socket
	//   - duration: Time from data-channel open to close
	RecordTransfer(direction string, result string, bytes int64, duration time.Duration)

	// SetActiveSessions updates the current session count.
	SetActiveSessions(count int32)

	// RecordSessionOpened increments the total accepted sessions counter.
	RecordSessionOpened()

	// RecordSessionClosed increments the total closed sessions counter.
	RecordSessionClosed()
}
