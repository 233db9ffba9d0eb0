package parser

import (
	"strings"
	"time"
	"unicode"

	"github.com/noah-isme/teachmate/internal/command"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

// Parser turns command lines into commands. It holds no roster state.
type Parser struct {
	now func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock overrides the clock used to reject past consultations.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// New constructs a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type parseFunc func(p *Parser, args string) (command.Command, error)

var parsers = map[string]parseFunc{
	command.WordAdd:         (*Parser).parseAdd,
	command.WordDelete:      (*Parser).parseDelete,
	command.WordEdit:        (*Parser).parseEdit,
	command.WordTag:         (*Parser).parseTag,
	command.WordUntag:       (*Parser).parseUntag,
	command.WordGrade:       (*Parser).parseGrade,
	command.WordDeleteGrade: (*Parser).parseDeleteGrade,
	command.WordAttendance:  (*Parser).parseAttendance,
	command.WordRemark:      (*Parser).parseRemark,
	command.WordView:        (*Parser).parseView,
	command.WordList:        (*Parser).parseList,
	command.WordFilter:      (*Parser).parseFilter,
	command.WordClear:       (*Parser).parseClear,
	command.WordHelp:        func(*Parser, string) (command.Command, error) { return command.Help{}, nil },
	command.WordExit:        func(*Parser, string) (command.Command, error) { return command.Exit{}, nil },
}

// Words lists the command words the parser accepts.
func Words() []string {
	return []string{
		command.WordAdd, command.WordDelete, command.WordEdit, command.WordTag, command.WordUntag,
		command.WordGrade, command.WordDeleteGrade, command.WordAttendance, command.WordRemark,
		command.WordView, command.WordList, command.WordFilter, command.WordClear,
		command.WordHelp, command.WordExit,
	}
}

// ParseCommand splits line into a command word and its arguments and parses
// it. Command words are case-sensitive.
func (p *Parser) ParseCommand(line string) (command.Command, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, invalidFormat(command.UsageHelp)
	}

	word, args := trimmed, ""
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i >= 0 {
		word, args = trimmed[:i], trimmed[i:]
	}

	parse, ok := parsers[word]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownCommand, command.MessageUnknownCommand)
	}
	return parse(p, args)
}

func invalidFormat(usage string) error {
	return appErrors.Clonef(appErrors.ErrInvalidFormat, command.MessageInvalidFormat, usage)
}

// parseTarget reads the addressing mode from an INDEX preamble or s/ID.
// With allowAll the literal "all" is accepted in either place.
func parseTarget(m ArgumentMultimap, usage string, allowAll bool) (command.Target, error) {
	preamble := m.Preamble()
	hasID := m.Has(PrefixStudentID)

	if preamble != "" && hasID {
		return command.Target{}, appErrors.Clone(appErrors.ErrConflictParams, command.MessageConflictingParam)
	}

	if hasID {
		if err := m.VerifyNoDuplicatePrefixesFor(PrefixStudentID); err != nil {
			return command.Target{}, err
		}
		raw, _ := m.Value(PrefixStudentID)
		if allowAll && strings.EqualFold(raw, "all") {
			return command.Target{All: true}, nil
		}
		id, err := ParseStudentID(raw)
		if err != nil {
			return command.Target{}, err
		}
		return command.Target{StudentID: id}, nil
	}

	if preamble == "" {
		return command.Target{}, invalidFormat(usage)
	}
	if allowAll && strings.EqualFold(preamble, "all") {
		return command.Target{All: true}, nil
	}
	index, err := ParseIndex(preamble)
	if err != nil {
		return command.Target{}, invalidFormat(usage)
	}
	return command.Target{Index: index}, nil
}

// parseIndexPreamble reads a mandatory INDEX preamble.
func parseIndexPreamble(m ArgumentMultimap, usage string) (int, error) {
	index, err := ParseIndex(m.Preamble())
	if err != nil {
		return 0, invalidFormat(usage)
	}
	return index, nil
}
