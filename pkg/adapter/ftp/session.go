package ftp

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/ftpd/internal/logger"
	"github.com/marmos91/ftpd/pkg/auth"
	"github.com/marmos91/ftpd/pkg/metrics"
)

// session is the per-connection control-channel state machine. It owns the
// control socket, the current data channel, and any open file handle;
// run() releases all of them on every exit path.
type session struct {
	id     string
	conn   net.Conn
	reader *bufio.Reader

	cfg     *Config
	auth    auth.Authenticator
	metrics metrics.FTPMetrics
	events  EventSink
	log     *slog.Logger

	// Login handshake state. pendingUser is set by USER and consumed by
	// the next PASS; between the two only USER, PASS, QUIT and NOOP are
	// accepted.
	pendingUser string
	awaitPass   bool
	username    string
	loggedIn    bool

	// cwd is the virtual working directory, always normalized absolute.
	cwd string

	// binary selects the transfer type. Neither type transforms bytes;
	// the flag only drives TYPE replies.
	binary bool

	// renameFrom holds the virtual path armed by RNFR. Any command other
	// than RNTO clears it.
	renameFrom string

	data *dataChannel
}

func newSession(conn net.Conn, cfg *Config, authn auth.Authenticator, m metrics.FTPMetrics, events EventSink) *session {
	id := uuid.New().String()
	return &session{
		id:      id,
		conn:    conn,
		reader:  bufio.NewReader(conn),
		cfg:     cfg,
		auth:    authn,
		metrics: m,
		events:  events,
		log: logger.With(
			logger.SessionID(id),
			logger.ClientIP(conn.RemoteAddr().String()),
		),
		cwd: "/",
	}
}

// run drives the command loop until QUIT, peer disconnect, or idle
// timeout. The caller closed nothing beforehand; run owns the teardown.
func (s *session) run() {
	defer s.teardown()

	s.log.Info("Session opened")
	s.emit(Event{Type: EventSessionOpened})
	s.reply(220, "FTP Server Ready")

	for {
		line, err := s.readCommandLine()
		if err != nil {
			if isTimeout(err) {
				s.log.Info("Session idle timeout")
				s.reply(421, "Timeout: closing control connection")
			} else {
				s.log.Debug("Control channel closed", logger.Err(err))
			}
			return
		}

		if line == "" {
			continue
		}

		verb, param := parseCommand(line)
		logParam := param
		if verb == "PASS" {
			logParam = "***"
		}
		s.log.Debug("Command received",
			logger.Command(verb),
			slog.String(logger.KeyParam, logParam),
		)
		if s.metrics != nil {
			s.metrics.RecordCommand(verb)
		}

		if s.dispatch(verb, param) {
			return
		}
	}
}

// readCommandLine reads one CRLF-terminated line, bounded by the idle
// timeout. The deadline restarts per command, not per byte.
func (s *session) readCommandLine() (string, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.Timeouts.Idle)); err != nil {
		return "", err
	}
	line, err := s.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// parseCommand splits a control line into an uppercased verb and the
// verbatim parameter with trailing whitespace trimmed.
func parseCommand(line string) (string, string) {
	verb, param, _ := strings.Cut(line, " ")
	return strings.ToUpper(verb), strings.TrimRight(param, " \t")
}

// dispatch routes one command through the sequencing rules and its
// handler. Returns true when the session must end (QUIT).
func (s *session) dispatch(verb, param string) (quit bool) {
	// RNFR arms a one-shot rename source. Anything but RNTO disarms it.
	if s.renameFrom != "" && verb != "RNTO" {
		s.renameFrom = ""
	}

	if s.awaitPass {
		switch verb {
		case "USER", "PASS", "QUIT", "NOOP":
		default:
			s.reply(530, "Not logged in")
			return false
		}
	}

	switch verb {
	case "USER":
		s.handleUser(param)
	case "PASS":
		s.handlePass(param)
	case "SYST":
		s.reply(215, "UNIX Type: L8")
	case "TYPE":
		s.handleType(param)
	case "QUIT":
		s.reply(221, "Goodbye")
		return true
	case "NOOP":
		s.reply(200, "NOOP command successful")
	case "PORT":
		if s.checkLogin() {
			s.handlePort(param)
		}
	case "PASV":
		if s.checkLogin() {
			s.handlePasv()
		}
	case "LIST":
		if s.checkLogin() {
			s.handleList(param)
		}
	case "CWD":
		if s.checkLogin() {
			s.handleCwd(param)
		}
	case "PWD":
		if s.checkLogin() {
			// Plain quotes, not Go escaping: names with quotes or
			// non-ASCII runes must pass through byte for byte.
			s.reply(257, `"`+s.cwd+`" is current directory`)
		}
	case "MKD":
		if s.checkLogin() {
			s.handleMkd(param)
		}
	case "RMD":
		if s.checkLogin() {
			s.handleRmd(param)
		}
	case "DELE":
		if s.checkLogin() {
			s.handleDele(param)
		}
	case "RNFR":
		if s.checkLogin() {
			s.handleRnfr(param)
		}
	case "RNTO":
		if s.checkLogin() {
			s.handleRnto(param)
		}
	case "STOR":
		if s.checkLogin() {
			s.handleStor(param)
		}
	case "RETR":
		if s.checkLogin() {
			s.handleRetr(param)
		}
	default:
		s.reply(502, "Command not implemented")
	}
	return false
}

// checkLogin gates the verbs that require authentication.
func (s *session) checkLogin() bool {
	if s.loggedIn {
		return true
	}
	s.reply(530, "Not logged in")
	return false
}

// reply writes one single-line numeric reply to the control channel.
func (s *session) reply(code int, text string) {
	if _, err := fmt.Fprintf(s.conn, "%d %s\r\n", code, text); err != nil {
		s.log.Debug("Failed to write reply", logger.ReplyCode(code), logger.Err(err))
		return
	}
	s.log.Debug("Reply sent", logger.ReplyCode(code), slog.String("text", text))
	if s.metrics != nil {
		s.metrics.RecordReply(code)
	}
}

// resolve maps a client path to its virtual and filesystem forms. A
// failed mapping (root escape through symlinks) surfaces as ok=false and
// the caller replies 550.
func (s *session) resolve(input string) (virtual, fsPath string, ok bool) {
	virtual = resolveVirtual(s.cwd, input)
	fsPath, err := toFilesystem(s.cfg.RootPath, virtual)
	if err != nil {
		s.log.Warn("Path rejected", logger.Path(virtual), logger.Err(err))
		return virtual, "", false
	}
	return virtual, fsPath, true
}

// emit delivers an event to the configured sink, filling in the session
// identity fields.
func (s *session) emit(e Event) {
	if s.events == nil {
		return
	}
	e.SessionID = s.id
	e.RemoteAddr = s.conn.RemoteAddr().String()
	if e.Username == "" {
		e.Username = s.username
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	s.events.OnEvent(e)
}

// teardown closes everything the session owns: data channel first, then
// the control socket.
func (s *session) teardown() {
	s.closeDataChannel()
	s.conn.Close()
	s.log.Info("Session closed")
	s.emit(Event{Type: EventSessionClosed})
}

func (s *session) closeDataChannel() {
	if s.data != nil {
		s.data.close()
		s.data = nil
	}
}

func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
