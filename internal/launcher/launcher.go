// Package launcher hands files to the operating system: opening them with
// the associated application or revealing them in the file manager.
package launcher

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bomview/bomview/internal/shellquote"
)

// Opener opens or reveals files.
type Opener interface {
	Open(path string) error
	Reveal(path string) error
}

// System launches the platform file handler. Processes are started in the
// background and never waited on.
type System struct {
	// Command replaces the platform opener when set. The path is appended
	// as the last argument; a command containing spaces runs through sh.
	Command string

	goos  string
	start func(cmd *exec.Cmd) error
}

// NewSystem returns a System opener for the running platform.
func NewSystem(command string) *System {
	return &System{
		Command: strings.TrimSpace(command),
		goos:    runtime.GOOS,
		start:   func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// Open launches path with its associated application.
func (s *System) Open(path string) error {
	return s.run(s.OpenArgs(path))
}

// Reveal shows path selected in the file manager. Where the platform cannot
// select a file, its folder is opened instead.
func (s *System) Reveal(path string) error {
	return s.run(s.RevealArgs(path))
}

// OpenArgs returns the argv used by Open.
func (s *System) OpenArgs(path string) []string {
	if s.Command != "" {
		return s.override(path)
	}
	switch s.goos {
	case "windows":
		return []string{"cmd", "/c", "start", "", path}
	case "darwin":
		return []string{"open", path}
	default:
		return []string{"xdg-open", path}
	}
}

// RevealArgs returns the argv used by Reveal.
func (s *System) RevealArgs(path string) []string {
	switch s.goos {
	case "windows":
		return []string{"explorer", "/select," + path}
	case "darwin":
		return []string{"open", "-R", path}
	}
	if s.Command != "" {
		return s.override(filepath.Dir(path))
	}
	return []string{"xdg-open", filepath.Dir(path)}
}

func (s *System) override(path string) []string {
	if strings.Contains(s.Command, " ") && s.goos != "windows" {
		return []string{"sh", "-c", s.Command + " " + shellquote.Quote(path)}
	}
	return append(strings.Fields(s.Command), path)
}

func (s *System) run(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := s.start(cmd); err != nil {
		return fmt.Errorf("failed to run %s: %w", shellquote.Join(argv), err)
	}
	return nil
}
