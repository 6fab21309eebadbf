package ftp

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/marmos91/ftpd/internal/logger"
	"github.com/marmos91/ftpd/pkg/metrics"
)

func (s *session) handlePort(param string) {
	parts := strings.Split(param, ",")
	if len(parts) != 6 {
		s.reply(501, "Invalid PORT command")
		return
	}

	var nums [6]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			s.reply(501, "Invalid PORT command")
			return
		}
		nums[i] = n
	}

	host := fmt.Sprintf("%d.%d.%d.%d", nums[0], nums[1], nums[2], nums[3])
	port := nums[4]<<8 | nums[5]

	s.closeDataChannel()
	s.data = newActiveChannel(host, port)
	s.reply(200, "PORT command successful")
}

func (s *session) handlePasv() {
	s.closeDataChannel()

	ch, port, err := newPassiveChannel(s.cfg.BindAddress, s.cfg.PassivePortRange)
	if err != nil {
		s.log.Warn("Passive listener failed", logger.Err(err))
		s.reply(425, "Cannot open data connection")
		return
	}
	s.data = ch

	host := strings.ReplaceAll(s.passiveHost(), ".", ",")
	s.reply(227, fmt.Sprintf("Entering Passive Mode (%s,%d,%d)", host, port>>8, port&0xFF))
}

// passiveHost picks the IPv4 address advertised in the 227 reply: the
// configured override when set, otherwise the control socket's local
// address, with 127.0.0.1 standing in for IPv6.
func (s *session) passiveHost() string {
	if s.cfg.PassiveAdvertisedHost != "" {
		return s.cfg.PassiveAdvertisedHost
	}
	if addr, ok := s.conn.LocalAddr().(*net.TCPAddr); ok {
		if v4 := addr.IP.To4(); v4 != nil {
			return v4.String()
		}
	}
	return "127.0.0.1"
}

// openDataConn establishes the armed data channel for one transfer. In
// active mode it dials first and announces 150 once connected; in passive
// mode it announces 150 first so the client knows to connect, then
// accepts. Failure replies 425 and discards the channel.
func (s *session) openDataConn(announce string) (net.Conn, bool) {
	if s.data == nil {
		s.reply(425, "Can't open data connection")
		return nil, false
	}

	passive := s.data.listener != nil
	if passive {
		s.reply(150, announce)
	}

	conn, err := s.data.open(s.cfg.Timeouts.DataSetup)
	if err != nil {
		s.log.Warn("Data connection failed", logger.Err(err))
		s.reply(425, "Can't open data connection")
		s.closeDataChannel()
		return nil, false
	}

	if !passive {
		s.reply(150, "Data connection established")
	}
	return conn, true
}

func (s *session) handleList(param string) {
	virtual, fsPath, ok := s.resolve(param)
	if !ok {
		s.reply(550, "Directory not found")
		s.closeDataChannel()
		return
	}
	info, err := os.Stat(fsPath)
	if err != nil || !info.IsDir() {
		s.reply(550, "Directory not found")
		s.closeDataChannel()
		return
	}

	conn, ok := s.openDataConn("Opening data connection for directory listing")
	if !ok {
		s.recordTransfer(metrics.DirectionListing, metrics.ResultSetup, 0, time.Now())
		return
	}
	defer s.closeDataChannel()

	start := time.Now()
	entries, err := writeListing(conn, fsPath)
	if err != nil {
		s.recordTransfer(metrics.DirectionListing, metrics.ResultAborted, 0, start)
		s.reply(426, "Connection closed; transfer aborted")
		return
	}

	s.recordTransfer(metrics.DirectionListing, metrics.ResultComplete, 0, start)
	s.log.Debug("Listing sent", logger.Path(virtual), slog.Int(logger.KeyEntries, entries))
	s.reply(226, "Transfer complete")
}

func (s *session) handleRetr(param string) {
	if param == "" {
		s.reply(501, "Missing file name")
		return
	}

	virtual, fsPath, ok := s.resolve(param)
	if !ok {
		s.reply(550, "Failed to open file")
		return
	}
	file, err := os.Open(fsPath)
	if err != nil {
		s.reply(550, "Failed to open file")
		return
	}
	defer file.Close()
	if info, err := file.Stat(); err != nil || info.IsDir() {
		s.reply(550, "Failed to open file")
		return
	}

	conn, ok := s.openDataConn("Opening data connection for file download")
	if !ok {
		s.recordTransfer(metrics.DirectionDownload, metrics.ResultSetup, 0, time.Now())
		return
	}
	defer s.closeDataChannel()

	start := time.Now()
	sent, err := pump(conn, file)
	if err != nil {
		s.recordTransfer(metrics.DirectionDownload, metrics.ResultAborted, sent, start)
		s.reply(426, "Connection closed; transfer aborted")
		return
	}

	s.recordTransfer(metrics.DirectionDownload, metrics.ResultComplete, sent, start)
	s.log.Info("File sent", logger.Path(virtual), logger.BytesSent(sent))
	s.emit(Event{Type: EventDownload, Path: virtual, Bytes: sent})
	s.reply(226, "Transfer complete")
}

func (s *session) handleStor(param string) {
	if param == "" {
		s.reply(501, "Missing file name")
		return
	}

	virtual, fsPath, ok := s.resolve(param)
	if !ok {
		s.reply(550, "Failed to open file")
		return
	}
	file, err := os.Create(fsPath)
	if err != nil {
		s.reply(550, "Failed to open file")
		return
	}

	conn, ok := s.openDataConn("Opening data connection for file upload")
	if !ok {
		s.recordTransfer(metrics.DirectionUpload, metrics.ResultSetup, 0, time.Now())
		file.Close()
		return
	}
	defer s.closeDataChannel()

	start := time.Now()
	written, err := pump(file, conn)
	closeErr := file.Close()
	if err != nil || closeErr != nil {
		s.recordTransfer(metrics.DirectionUpload, metrics.ResultAborted, written, start)
		if s.cfg.DeletePartialUploads {
			os.Remove(fsPath)
		}
		s.reply(426, "Connection closed; transfer aborted")
		return
	}

	s.recordTransfer(metrics.DirectionUpload, metrics.ResultComplete, written, start)
	s.log.Info("File received", logger.Path(virtual), slog.Int64(logger.KeyBytesWritten, written))
	s.emit(Event{Type: EventUpload, Path: virtual, Bytes: written})
	s.reply(226, "Transfer complete")
}

func (s *session) recordTransfer(direction, result string, bytes int64, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordTransfer(direction, result, bytes, time.Since(start))
}
