package ftp

import (
	"log/slog"
	"os"
	"strings"

	"github.com/marmos91/ftpd/internal/logger"
)

func (s *session) handleUser(param string) {
	// A fresh USER restarts the handshake and drops any prior login.
	s.pendingUser = param
	s.awaitPass = true
	s.loggedIn = false
	s.username = ""
	s.reply(331, "User name okay, need password")
}

func (s *session) handlePass(param string) {
	if !s.awaitPass {
		s.reply(503, "Bad sequence of commands")
		return
	}
	s.awaitPass = false

	if s.auth.Authenticate(s.pendingUser, param) {
		s.loggedIn = true
		s.username = s.pendingUser
		s.log.Info("Login successful", logger.Username(s.username))
		s.emit(Event{Type: EventLoginOK})
		s.reply(230, "User logged in, proceed")
		return
	}

	s.loggedIn = false
	s.log.Warn("Login failed", logger.Username(s.pendingUser))
	s.emit(Event{Type: EventLoginFailed, Username: s.pendingUser})
	s.reply(530, "Login incorrect")
}

func (s *session) handleType(param string) {
	switch strings.ToUpper(param) {
	case "A", "A N":
		s.binary = false
		s.reply(200, "Type set to ASCII")
	case "I", "L 8":
		s.binary = true
		s.reply(200, "Type set to Binary")
	default:
		s.reply(504, "Type not implemented")
	}
}

func (s *session) handleCwd(param string) {
	virtual, fsPath, ok := s.resolve(param)
	if !ok {
		s.reply(550, "Directory not found")
		return
	}

	info, err := os.Stat(fsPath)
	if err != nil || !info.IsDir() {
		s.reply(550, "Directory not found")
		return
	}

	s.cwd = virtual
	s.reply(250, "Directory changed to "+virtual)
}

func (s *session) handleMkd(param string) {
	if param == "" {
		s.reply(501, "Missing directory name")
		return
	}

	virtual, fsPath, ok := s.resolve(param)
	if !ok {
		s.reply(550, "Failed to create directory")
		return
	}

	if err := os.Mkdir(fsPath, 0o755); err != nil {
		s.log.Warn("Mkdir failed", logger.Path(virtual), logger.Err(err))
		s.reply(550, "Failed to create directory")
		return
	}
	s.reply(257, `"`+virtual+`" created`)
}

func (s *session) handleRmd(param string) {
	if param == "" {
		s.reply(501, "Missing directory name")
		return
	}

	virtual, fsPath, ok := s.resolve(param)
	if !ok {
		s.reply(550, "Failed to remove directory")
		return
	}

	info, err := os.Stat(fsPath)
	if err != nil || !info.IsDir() {
		s.reply(550, "Failed to remove directory")
		return
	}
	if err := os.Remove(fsPath); err != nil {
		s.log.Warn("Rmdir failed", logger.Path(virtual), logger.Err(err))
		s.reply(550, "Failed to remove directory")
		return
	}
	s.reply(250, "Directory removed")
}

func (s *session) handleDele(param string) {
	if param == "" {
		s.reply(501, "Missing file name")
		return
	}

	virtual, fsPath, ok := s.resolve(param)
	if !ok {
		s.reply(550, "Failed to delete file")
		return
	}

	info, err := os.Stat(fsPath)
	if err != nil || info.IsDir() {
		s.reply(550, "Failed to delete file")
		return
	}
	if err := os.Remove(fsPath); err != nil {
		s.log.Warn("Delete failed", logger.Path(virtual), logger.Err(err))
		s.reply(550, "Failed to delete file")
		return
	}
	s.reply(250, "File deleted")
}

func (s *session) handleRnfr(param string) {
	if param == "" {
		s.reply(501, "Missing file name")
		return
	}

	virtual, fsPath, ok := s.resolve(param)
	if !ok {
		s.reply(550, "File not found")
		return
	}

	if _, err := os.Stat(fsPath); err != nil {
		s.reply(550, "File not found")
		return
	}
	s.renameFrom = virtual
	s.reply(350, "Ready for RNTO")
}

func (s *session) handleRnto(param string) {
	if s.renameFrom == "" {
		s.reply(503, "RNFR required first")
		return
	}
	from := s.renameFrom
	s.renameFrom = ""

	if param == "" {
		s.reply(501, "Missing file name")
		return
	}

	virtual, fsPath, ok := s.resolve(param)
	if !ok {
		s.reply(550, "Failed to rename file")
		return
	}
	oldFS, err := toFilesystem(s.cfg.RootPath, from)
	if err != nil {
		s.reply(550, "Failed to rename file")
		return
	}

	if err := os.Rename(oldFS, fsPath); err != nil {
		s.log.Warn("Rename failed",
			slog.String(logger.KeyOldPath, from),
			slog.String(logger.KeyNewPath, virtual),
			logger.Err(err),
		)
		s.reply(550, "Failed to rename file")
		return
	}
	s.reply(250, "File renamed")
}
