package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/quicktask-go/internal/config"
	"github.com/nibzard/quicktask-go/internal/logging"
	"github.com/nibzard/quicktask-go/internal/store"
)

// session is a store wired to a console writer and, when enabled, the
// journal. It brackets its lifetime with start and end events.
type session struct {
	mode    string
	store   *store.Store
	journal *logging.RunLogger
	writer  logging.Writer
	logger  *log.Logger
}

// openSession mirrors store changes to console, which may be a NullWriter
// when the terminal is taken, and to the journal when it is enabled.
func openSession(cfg *config.Config, logger *log.Logger, mode string, console logging.Writer) (*session, error) {
	sess := &session{mode: mode, store: store.New(), logger: logger}

	writers := []logging.Writer{console}
	if cfg.Journal {
		journal, err := logging.NewRunLogger(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			sess.store.Close()
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		sess.journal = journal
		writers = append(writers, journal)
		logger.Debug("journal opened", "path", journal.LogPath)
	}
	sess.writer = logging.Locked(logging.NewMultiWriter(writers...))
	sess.store.Subscribe(logging.StoreObserver(sess.writer, logger))

	sess.event(logging.EventStart, mode+" session started")
	return sess, nil
}

// openTUISession opens a session that never writes to the terminal, since
// bubbletea owns it. Store changes still reach the journal.
func openTUISession(cfg *config.Config) (*session, error) {
	quiet := logging.NewConsoleLoggerTo(io.Discard, logging.ConsoleOptions{Level: log.FatalLevel})
	return openSession(cfg, quiet, "tui", logging.NullWriter{})
}

func (s *session) event(typ, content string) {
	snap := s.store.Snapshot()
	err := s.writer.Write(logging.Event{
		Type:      typ,
		Timestamp: time.Now().UTC(),
		Count:     snap.Len(),
		Version:   snap.Version(),
		Content:   content,
	})
	if err != nil {
		s.logger.Warn("journal write failed", "err", err)
	}
}

// Close writes the end event, closes the store and flushes the journal.
func (s *session) Close() error {
	s.event(logging.EventEnd, s.mode+" session ended")
	s.store.Close()
	return s.journal.Close()
}
