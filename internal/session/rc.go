package session

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	udiff "github.com/aymanbagabas/go-udiff"

	"github.com/dshills/vimcore/internal/owner"
	"github.com/dshills/vimcore/internal/vimscript/parser"
)

// loadRC sources the startup script at startup. A missing file is not an
// error.
func (s *Session) loadRC(path string) error {
	path = expandHome(path)
	s.rcPath = path
	data, err := s.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("no startup script", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read startup script: %w", err)
	}
	s.rcSnap = normalizeScript(string(data))
	s.log.Info("sourcing startup script", "path", path)
	// Script errors were shown; the session still starts.
	_ = s.Source(path, string(data))
	return nil
}

// RCPath returns the startup script path, or "".
func (s *Session) RCPath() string { return s.rcPath }

// Reload re-reads the startup script. When its normalized text is
// unchanged nothing happens and the diff is empty. Otherwise the mappings
// the script defined are removed, the script runs again, and the unified
// diff between the two versions is returned. A script with a syntax error
// is not applied and the old mappings stay.
func (s *Session) Reload() (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	if s.rcPath == "" {
		return "", ErrNoRC
	}
	data, err := s.fs.ReadFile(s.rcPath)
	if err != nil {
		return "", fmt.Errorf("reload %s: %w", s.rcPath, err)
	}
	src := string(data)
	snap := normalizeScript(src)
	if snap == s.rcSnap {
		s.log.Debug("startup script unchanged", "path", s.rcPath)
		return "", nil
	}

	script, err := parser.Parse(s.rcPath, src)
	if err != nil {
		s.reportError(err)
		return "", err
	}
	diff := udiff.Unified(s.rcPath+" (loaded)", s.rcPath, s.rcSnap, snap)
	removed := s.disp.Mappings().RemoveByOwner(owner.Script(s.rcPath))
	s.rcSnap = snap
	s.log.Info("reloading startup script", "path", s.rcPath, "removed_mappings", removed)
	s.log.Debug("startup script diff", "diff", diff)
	return diff, s.run(script)
}

// normalizeScript drops blank and comment-only lines and the white space
// around each line, so edits to those (indentation included) never count as
// a change.
func normalizeScript(src string) string {
	var b strings.Builder
	for line := range strings.Lines(src) {
		line = strings.Trim(line, " \t\r\n")
		if line == "" || strings.HasPrefix(line, `"`) {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
