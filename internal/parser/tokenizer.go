// Package parser turns a raw command line into a validated command.
package parser

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

// Prefix introduces a named argument, e.g. "s/".
type Prefix string

const (
	PrefixName         Prefix = "n/"
	PrefixPhone        Prefix = "p/"
	PrefixEmail        Prefix = "e/"
	PrefixAddress      Prefix = "a/"
	PrefixStudentID    Prefix = "s/"
	PrefixModuleCode   Prefix = "m/"
	PrefixTag          Prefix = "t/"
	PrefixConsultation Prefix = "c/"
	PrefixGrade        Prefix = "g/"
	PrefixWeek         Prefix = "w/"
	PrefixRemark       Prefix = "r/"
)

// ArgumentMultimap holds the values found for each prefix, in input order,
// and the preamble before the first prefix.
type ArgumentMultimap struct {
	values   map[Prefix][]string
	preamble string
}

// Value returns the last value given for p.
func (m ArgumentMultimap) Value(p Prefix) (string, bool) {
	values := m.values[p]
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// AllValues returns every value given for p.
func (m ArgumentMultimap) AllValues(p Prefix) []string {
	return append([]string(nil), m.values[p]...)
}

// Has reports whether p occurred at least once.
func (m ArgumentMultimap) Has(p Prefix) bool {
	return len(m.values[p]) > 0
}

// HasAll reports whether every prefix occurred.
func (m ArgumentMultimap) HasAll(prefixes ...Prefix) bool {
	for _, p := range prefixes {
		if !m.Has(p) {
			return false
		}
	}
	return true
}

// Preamble returns the trimmed text before the first recognised prefix.
func (m ArgumentMultimap) Preamble() string {
	return m.preamble
}

// VerifyNoDuplicatePrefixesFor fails when any of prefixes occurred more than once.
func (m ArgumentMultimap) VerifyNoDuplicatePrefixesFor(prefixes ...Prefix) error {
	dups := make([]string, 0)
	for _, p := range prefixes {
		if len(m.values[p]) > 1 {
			dups = append(dups, string(p))
		}
	}
	if len(dups) == 0 {
		return nil
	}
	return appErrors.Clone(appErrors.ErrDuplicatePrefix, appErrors.ErrDuplicatePrefix.Message+strings.Join(dups, " "))
}

type prefixPosition struct {
	prefix Prefix
	start  int
}

// Tokenize splits args into a preamble and prefixed values. A prefix only
// counts at the start of args or right after whitespace; anything else,
// including unknown prefixes, stays part of the surrounding value.
func Tokenize(args string, prefixes ...Prefix) ArgumentMultimap {
	positions := findPrefixPositions(args, prefixes)

	m := ArgumentMultimap{values: make(map[Prefix][]string)}
	if len(positions) == 0 {
		m.preamble = strings.TrimSpace(args)
		return m
	}
	m.preamble = strings.TrimSpace(args[:positions[0].start])
	for i, pos := range positions {
		end := len(args)
		if i+1 < len(positions) {
			end = positions[i+1].start
		}
		value := strings.TrimSpace(args[pos.start+len(pos.prefix) : end])
		m.values[pos.prefix] = append(m.values[pos.prefix], value)
	}
	return m
}

func findPrefixPositions(args string, prefixes []Prefix) []prefixPosition {
	positions := make([]prefixPosition, 0)
	for _, p := range prefixes {
		from := 0
		for {
			i := strings.Index(args[from:], string(p))
			if i < 0 {
				break
			}
			start := from + i
			if atBoundary(args, start) {
				positions = append(positions, prefixPosition{prefix: p, start: start})
			}
			from = start + 1
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].start < positions[j].start })
	return positions
}

func atBoundary(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsSpace(r)
}
