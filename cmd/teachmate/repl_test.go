package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/command"
	"github.com/noah-isme/teachmate/internal/parser"
	"github.com/noah-isme/teachmate/internal/repository"
	"github.com/noah-isme/teachmate/internal/service"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

type scriptedReader struct {
	lines   []string
	errs    []error
	history []string
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line, err := r.lines[0], r.errs[0]
	r.lines, r.errs = r.lines[1:], r.errs[1:]
	return line, err
}

func (r *scriptedReader) SaveHistory(content string) error {
	r.history = append(r.history, content)
	return nil
}

func script(lines ...string) *scriptedReader {
	return &scriptedReader{lines: lines, errs: make([]error, len(lines))}
}

type sessionStub struct {
	results map[string]command.Result
	errs    map[string]error
	ran     []string
}

func (s *sessionStub) Run(ctx context.Context, line string) (command.Result, error) {
	s.ran = append(s.ran, line)
	return s.results[line], s.errs[line]
}

type statsStub struct{ snap service.MetricsSnapshot }

func (s statsStub) Snapshot() service.MetricsSnapshot { return s.snap }

func TestRunLoopStopsOnExit(t *testing.T) {
	rl := script("  list  ", "", "exit", "list")
	session := &sessionStub{results: map[string]command.Result{
		"list": {Feedback: "Listed all students"},
		"exit": {Feedback: "Goodbye!", Exit: true},
	}}
	var out bytes.Buffer

	require.NoError(t, runLoop(context.Background(), rl, session, nil, &out, nil))
	assert.Equal(t, []string{"list", "exit"}, session.ran)
	assert.Equal(t, []string{"list", "exit"}, rl.history)
	assert.Contains(t, out.String(), welcomeMessage)
	assert.Contains(t, out.String(), "Listed all students\n")
	assert.Contains(t, out.String(), "Goodbye!\n")
}

func TestRunLoopPrintsErrorsAndContinues(t *testing.T) {
	add := "add n/Amy s/A0000001A e/a@b.com m/CS2103T"
	rl := script("delete 9", add, "help")
	session := &sessionStub{
		results: map[string]command.Result{
			add:    {Feedback: "Added student"},
			"help": {Feedback: "Showing help", ShowHelp: true},
		},
		errs: map[string]error{
			"delete 9": appErrors.Clone(appErrors.ErrInvalidIndex, "The student index provided is invalid"),
			add:        appErrors.ErrStorage,
		},
	}
	var out bytes.Buffer

	require.NoError(t, runLoop(context.Background(), rl, session, nil, &out, nil))
	assert.Len(t, session.ran, 3)
	assert.Contains(t, out.String(), "The student index provided is invalid\n")
	assert.Contains(t, out.String(), "Added student\nWarning: "+appErrors.ErrStorage.Message)
	assert.Contains(t, out.String(), command.HelpText())
}

func TestRunLoopInterrupt(t *testing.T) {
	rl := &scriptedReader{
		lines: []string{"add n/Am", "", "list"},
		errs:  []error{readline.ErrInterrupt, readline.ErrInterrupt, nil},
	}
	session := &sessionStub{}

	require.NoError(t, runLoop(context.Background(), rl, session, nil, io.Discard, nil))
	assert.Empty(t, session.ran, "interrupt on an empty line ends the loop")
}

func TestRunLoopStats(t *testing.T) {
	rl := script("stats")
	session := &sessionStub{}
	stats := statsStub{snap: service.MetricsSnapshot{
		CommandsTotal:  4,
		CommandsFailed: 1,
		ByCommand:      []service.CommandCount{{Command: "add", Count: 3}},
		RosterSize:     2,
	}}
	var out bytes.Buffer

	require.NoError(t, runLoop(context.Background(), rl, session, stats, &out, nil))
	assert.Empty(t, session.ran)
	assert.Contains(t, out.String(), "Commands run: 4 (1 failed)")
	assert.Contains(t, out.String(), "  add: 3")
	assert.Contains(t, out.String(), "Students in roster: 2")
}

func TestFormatStatsDisabled(t *testing.T) {
	assert.Equal(t, "Metrics are disabled.", formatStats(nil))
}

func TestRenderHelpPrintsUsageOnce(t *testing.T) {
	store, err := repository.NewRosterStore()
	require.NoError(t, err)
	cmd, err := parser.New().ParseCommand("help")
	require.NoError(t, err)
	res, err := command.NewExecutor(zap.NewNop()).Execute(store, cmd)
	require.NoError(t, err)

	var out bytes.Buffer
	assert.False(t, render(&out, res, nil))
	assert.Equal(t, 1, strings.Count(out.String(), command.UsageAdd))
	assert.True(t, strings.HasPrefix(out.String(), command.MessageHelp+"\n"))
}
