package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/anilink/internal/logging"
	"github.com/aretw0/anilink/internal/presentation/graph"
	"github.com/aretw0/anilink/internal/presentation/tui"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/ports"
	"github.com/muesli/termenv"
)

const shellHelp = `Commands:
  connect <id> <action>   register a subject (starts dormant)
  disconnect <id>         remove a subject
  get <id>                show the current state
  set <id> <state>        request dormant, idle, the action label or "action"
  list                    show every subject
  graph <id>              print the lifecycle as a Mermaid chart
  table <id>              print the transition table
  help                    show this help
  exit                    leave the shell`

// Registry is what the shell needs from the core.
type Registry interface {
	ports.Registry
	ports.Lister
}

// Shell is a line-oriented REPL over a Registry.
type Shell struct {
	registry Registry
	in       io.Reader
	out      io.Writer
	prompt   bool
	styler   tui.StateStyler
	render   func(string) (string, error)
	logger   *slog.Logger

	// visited records the states observed per subject during this session.
	visited map[string][]string
}

// ShellOption configures the Shell.
type ShellOption func(*Shell)

// WithPrompt prints "> " before every line. Enable it only on a terminal.
func WithPrompt(enabled bool) ShellOption {
	return func(s *Shell) {
		s.prompt = enabled
	}
}

// WithStyler colors state values in list output.
func WithStyler(styler tui.StateStyler) ShellOption {
	return func(s *Shell) {
		s.styler = styler
	}
}

// WithMarkdownRenderer renders the transition table (e.g. tui.NewRenderer()).
func WithMarkdownRenderer(render func(string) (string, error)) ShellOption {
	return func(s *Shell) {
		s.render = render
	}
}

// WithShellLogger configures a logger for the Shell.
func WithShellLogger(logger *slog.Logger) ShellOption {
	return func(s *Shell) {
		s.logger = logger
	}
}

// NewShell creates a shell reading commands from in and writing results to out.
func NewShell(reg Registry, in io.Reader, out io.Writer, opts ...ShellOption) *Shell {
	s := &Shell{
		registry: reg,
		in:       in,
		out:      out,
		styler:   tui.NewStateStyler(termenv.Ascii),
		logger:   logging.NewNop(),
		visited:  make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes commands until EOF, "exit" or context cancellation.
// Command errors are printed and do not stop the shell.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		if s.prompt {
			fmt.Fprint(s.out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := s.Exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			s.logger.Debug("Shell command failed", "line", scanner.Text(), "err", err)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs a single command line. It reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false, nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return false, nil
	case "connect":
		if len(args) != 2 {
			return false, errors.New("usage: connect <id> <action>")
		}
		return false, s.connect(ctx, args[0], args[1])
	case "disconnect":
		if len(args) != 1 {
			return false, errors.New("usage: disconnect <id>")
		}
		return false, s.disconnect(ctx, args[0])
	case "get":
		if len(args) != 1 {
			return false, errors.New("usage: get <id>")
		}
		return false, s.get(ctx, args[0])
	case "set":
		if len(args) != 2 {
			return false, errors.New("usage: set <id> <state>")
		}
		return false, s.set(ctx, args[0], args[1])
	case "list":
		return false, s.list(ctx)
	case "graph":
		if len(args) != 1 {
			return false, errors.New("usage: graph <id>")
		}
		return false, s.graph(ctx, args[0])
	case "table":
		if len(args) != 1 {
			return false, errors.New("usage: table <id>")
		}
		return false, s.table(ctx, args[0])
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func (s *Shell) connect(ctx context.Context, id, action string) error {
	if err := s.registry.Connect(ctx, id, action); err != nil {
		return err
	}
	s.visited[id] = []string{domain.StateDormant}
	fmt.Fprintf(s.out, "%s: %s\n", id, domain.StateDormant)
	return nil
}

func (s *Shell) disconnect(ctx context.Context, id string) error {
	if err := s.registry.Disconnect(ctx, id); err != nil {
		return err
	}
	delete(s.visited, id)
	fmt.Fprintf(s.out, "%s: disconnected\n", id)
	return nil
}

func (s *Shell) get(ctx context.Context, id string) error {
	state, err := s.registry.GetState(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s: %s\n", id, state)
	return nil
}

func (s *Shell) set(ctx context.Context, id, requested string) error {
	state, err := s.registry.SetState(ctx, id, requested)
	if err != nil {
		return err
	}
	s.visited[id] = append(s.visited[id], state)
	fmt.Fprintf(s.out, "%s: %s\n", id, state)
	return nil
}

func (s *Shell) list(ctx context.Context) error {
	subjects, err := s.registry.List(ctx)
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		printSystemMessage(s.out, "No subjects connected.")
		return nil
	}
	for _, subject := range subjects {
		fmt.Fprintf(s.out, "%s\t%s\t%s\n", subject.ID, subject.ActionLabel, s.styler.Style(subject.State, subject.ActionLabel))
	}
	return nil
}

func (s *Shell) graph(ctx context.Context, id string) error {
	subject, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, graph.GenerateMermaid(subject.ActionLabel, &graph.GraphOverlay{
		VisitedStates: s.visited[id],
		CurrentState:  subject.State,
	}))
	return nil
}

func (s *Shell) table(ctx context.Context, id string) error {
	subject, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	md := tui.TransitionTable(subject.ActionLabel)
	if s.render != nil {
		rendered, err := s.render(md)
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
		md = rendered
	}
	fmt.Fprint(s.out, md)
	return nil
}

// lookup finds a subject's full record through the listing port.
func (s *Shell) lookup(ctx context.Context, id string) (domain.Subject, error) {
	subjects, err := s.registry.List(ctx)
	if err != nil {
		return domain.Subject{}, err
	}
	for _, subject := range subjects {
		if subject.ID == id {
			return subject, nil
		}
	}
	return domain.Subject{}, fmt.Errorf("%w: %q", domain.ErrNotFound, id)
}
