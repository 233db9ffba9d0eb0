package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/command"
	"github.com/noah-isme/teachmate/internal/parser"
	"github.com/noah-isme/teachmate/internal/service"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

const (
	prompt         = "teachmate> "
	statsWord      = "stats"
	welcomeMessage = "Welcome to TeachMate! Type \"help\" to see the available commands."
)

// lineReader is the part of *readline.Instance the loop needs.
type lineReader interface {
	Readline() (string, error)
	SaveHistory(content string) error
}

// sessionRunner executes one command line.
type sessionRunner interface {
	Run(ctx context.Context, line string) (command.Result, error)
}

type statsSource interface {
	Snapshot() service.MetricsSnapshot
}

func (a *app) repl(ctx context.Context, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     a.cfg.History.File,
		HistoryLimit:    a.cfg.History.Limit,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       command.WordExit,
	})
	if err != nil {
		return fmt.Errorf("start prompt: %w", err)
	}
	defer rl.Close()

	var stats statsSource
	if a.metrics != nil {
		stats = a.metrics
	}
	return runLoop(ctx, rl, a.session, stats, out, a.logger)
}

func completer() *readline.PrefixCompleter {
	words := append(parser.Words(), statsWord)
	sort.Strings(words)
	items := make([]readline.PrefixCompleterInterface, 0, len(words))
	for _, w := range words {
		items = append(items, readline.PcItem(w))
	}
	return readline.NewPrefixCompleter(items...)
}

// runLoop reads lines until exit, end of input, or context cancellation.
// Ctrl-C on an empty line ends the session; on a partial line it discards it.
func runLoop(ctx context.Context, rl lineReader, session sessionRunner, stats statsSource, out io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	fmt.Fprintln(out, welcomeMessage)

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if err := rl.SaveHistory(trimmed); err != nil {
			logger.Debug("failed to save prompt history", zap.Error(err))
		}

		if trimmed == statsWord {
			fmt.Fprintln(out, formatStats(stats))
			continue
		}

		res, err := session.Run(ctx, trimmed)
		if done := render(out, res, err); done {
			return nil
		}
	}
}

// render prints the outcome of one command and reports whether the session
// should end.
func render(out io.Writer, res command.Result, err error) bool {
	if res.Feedback != "" {
		fmt.Fprintln(out, res.Feedback)
	}
	if res.ShowHelp {
		fmt.Fprintln(out, command.HelpText())
	}
	if err != nil {
		if appErrors.FromError(err).Kind == appErrors.KindStorage {
			fmt.Fprintf(out, "Warning: %s. Changes are kept for this session only.\n", err.Error())
		} else {
			fmt.Fprintln(out, err.Error())
		}
	}
	return res.Exit
}

func formatStats(stats statsSource) string {
	if stats == nil {
		return "Metrics are disabled."
	}
	snap := stats.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "Commands run: %d (%d failed)\n", snap.CommandsTotal, snap.CommandsFailed)
	fmt.Fprintf(&b, "Average command time: %.2f ms\n", snap.AverageCommandMs)
	for _, c := range snap.ByCommand {
		fmt.Fprintf(&b, "  %s: %d\n", c.Command, c.Count)
	}
	fmt.Fprintf(&b, "Saves: %d (%d failed, avg %.2f ms)\n", snap.Saves, snap.SaveFailures, snap.AverageSaveMs)
	fmt.Fprintf(&b, "Snapshots published: %d (%d failed)\n", snap.SnapshotPublishes, snap.SnapshotFailures)
	fmt.Fprintf(&b, "Students in roster: %d", snap.RosterSize)
	return b.String()
}
