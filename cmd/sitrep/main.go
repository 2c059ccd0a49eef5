// Command sitrep is an interactive terminal diagnostic for server triage.
// It takes no flags and reads no config file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshzrh/sitrep/internal/shell"
)

func main() {
	log, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sitrep: failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := shell.New(log)
	prog := tea.NewProgram(app, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		prog.Send(tea.Quit())
	}()

	if err := runProtected(prog); err != nil {
		fmt.Fprintf(os.Stderr, "sitrep: %v\n", err)
		os.Exit(1)
	}
}

// runProtected runs the bubbletea program, restoring the terminal before
// a panic message prints (tea.WithAltScreen handles the alt-screen and
// raw-mode teardown on normal exit; this recover covers the fatal
// ErrTerminalError path where the runtime itself can't clean up).
func runProtected(prog *tea.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			prog.ReleaseTerminal()
			panic(r)
		}
	}()
	_, err = prog.Run()
	return err
}

func newLogger() (*slog.Logger, func() error, error) {
	dir := os.TempDir()
	f, err := os.OpenFile(filepath.Join(dir, "sitrep.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelWarn})
	return slog.New(handler), f.Close, nil
}
