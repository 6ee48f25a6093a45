package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/runger/launcher/internal/desktop"
	"github.com/runger/launcher/internal/picker"
)

// maxQueryLen is the maximum length of an initial query in bytes.
const maxQueryLen = 4096

// errCancelled is returned when the user leaves the picker without
// choosing anything.
var errCancelled = errors.New("cancelled")

var pickQuery string

var pickCmd = &cobra.Command{
	Use:     "pick",
	Short:   "Open the interactive launcher",
	GroupID: groupCore,
	Long: `Open the interactive launcher on the terminal.

Type to search applications and executables; arithmetic, conversions,
paths, URLs and "$ command" input show a result line above the list.
Enter on a result line copies it to the clipboard; Enter on anything
else prints "<action>\t<value>" to stdout and exits, e.g.

  launch	firefox %u
  open-url	https://example.com
  run	htop

Keys: ↑/↓ move, Enter choose, Ctrl+D remove a history item, Esc quit.
The exit status is 1 when nothing was chosen.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	pickCmd.Flags().StringVarP(&pickQuery, "query", "q", "", "initial query")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	query, err := sanitizeQuery(pickQuery)
	if err != nil {
		return fmt.Errorf("--query: %w", err)
	}
	if os.Getenv("TERM") == "dumb" {
		return errors.New("TERM=dumb is not supported")
	}

	// stdout carries the result, so the TUI runs on the terminal itself.
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("no TTY available: %w", err)
	}
	defer tty.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	a, err := openApp(ctx, appOptions{logToFile: true})
	if err != nil {
		cancel()
		return err
	}
	defer a.close(context.WithoutCancel(ctx))
	// stop the watcher and rate loader before closing the app
	defer cancel()

	lock, err := acquireLock(filepath.Join(a.paths.CacheDir, "pick.lock"))
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	// Package level styles in picker use the default renderer, which
	// would detect no color on a piped stdout.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	model := picker.NewModel(picker.NewEngineBackend(a.engine)).WithQuery(query)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
		tea.WithContext(ctx),
	)

	if a.cfg.Index.Watch {
		go func() {
			err := a.index.Watch(ctx, desktop.DefaultWatchDebounce, func(snap *desktop.Snapshot) {
				a.engine.OnRebuild(snap)
				p.Send(picker.Refresh())
			})
			if err != nil {
				a.logger.Warn("not watching descriptor directories", "error", err)
			}
		}()
	}
	go func() {
		a.loadRatesWithin(ctx)
		p.Send(picker.Refresh())
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	m, ok := final.(picker.Model)
	if !ok {
		return errors.New("unexpected model type")
	}

	sel := m.Result()
	if sel.IsZero() {
		cmd.SilenceErrors = true
		return errCancelled
	}
	fmt.Fprintf(os.Stdout, "%s\t%s\n", sel.Action, sel.Value)
	return nil
}

// sanitizeQuery strips control characters and validates the query string.
func sanitizeQuery(q string) (string, error) {
	if q == "" {
		return "", nil
	}
	if strings.ContainsAny(q, "\n\r") {
		return "", errors.New("query must not contain newlines")
	}

	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	result := b.String()

	if len(result) > maxQueryLen {
		result = strings.ToValidUTF8(result[:maxQueryLen], "")
	}
	return result, nil
}

// acquireLock takes an exclusive advisory lock so only one picker runs
// at a time. The returned descriptor holds the lock until released.
func acquireLock(path string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return -1, fmt.Errorf("cannot create lock directory: %w", err)
	}
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return -1, fmt.Errorf("cannot open lock file: %w", err)
	}
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		unix.Close(fd)
		return -1, errors.New("another launcher picker is running")
	}
	return fd, nil
}

// releaseLock releases the advisory lock.
func releaseLock(fd int) {
	if fd >= 0 {
		unix.Flock(fd, unix.LOCK_UN)
		unix.Close(fd)
	}
}
