package pattern

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"taskpilot/internal/command"
	"taskpilot/internal/dateparse"
)

// corrections maps frequent speech-to-text mistakes to the intended word.
// Applied on whole words only.
var corrections = map[string]string{
	"tusk":    "task",
	"corce":   "course",
	"cource":  "course",
	"govel":   "goal",
	"gool":    "goal",
	"reeding": "reading",
	"reding":  "reading",
	"markt":   "mark",
	"delet":   "delete",
	"remov":   "remove",
}

var wordRe = regexp.MustCompile(`\S+`)

// Normalize lowercases the transcript, collapses whitespace, and applies the
// speech-to-text correction table word by word.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	words := wordRe.FindAllString(text, -1)
	for i, w := range words {
		if fixed, ok := corrections[w]; ok {
			words[i] = fixed
		}
	}
	return strings.Join(words, " ")
}

// Matcher tries the catalog against a transcript, most specific pattern first.
type Matcher struct {
	patterns []Pattern
	now      func() time.Time
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithClock overrides the reference time used for date slot resolution.
func WithClock(now func() time.Time) Option {
	return func(m *Matcher) { m.now = now }
}

// NewMatcher builds a Matcher over the built-in catalog.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		patterns: bySpecificity(catalog),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match normalizes the transcript and returns the first (most specific)
// matching pattern as a parsed command. The second return is false when no
// pattern applies.
func (m *Matcher) Match(text string) (command.ParsedCommand, bool) {
	normalized := Normalize(text)
	if normalized == "" {
		return command.ParsedCommand{}, false
	}
	for _, p := range m.patterns {
		match := p.Regex.FindStringSubmatch(normalized)
		if match == nil {
			continue
		}
		params := m.extract(p, match)
		if params.Priority == "" && (p.Action == command.ActionCreateTask || p.Action == command.ActionCreateReading) {
			params.Priority = DetectPriority(normalized)
		}
		return command.ParsedCommand{
			Action:       p.Action,
			Entity:       p.Entity,
			Params:       params,
			Confidence:   FallbackConfidence,
			OriginalText: text,
		}, true
	}
	return command.ParsedCommand{}, false
}

func (m *Matcher) extract(p Pattern, match []string) command.Params {
	var params command.Params
	for i, name := range p.Regex.SubexpNames() {
		if name == "" || i >= len(match) || match[i] == "" {
			continue
		}
		m.assign(&params, name, strings.TrimSpace(match[i]))
	}
	return params
}

func (m *Matcher) assign(params *command.Params, slot, value string) {
	switch slot {
	case "title":
		params.Title = value
	case "name":
		params.Name = value
	case "deadline":
		params.Deadline = m.resolveDate(value)
	case "targetDate":
		params.TargetDate = m.resolveDate(value)
	case "priority":
		params.Priority = value
	case "description":
		params.Description = value
	case "url":
		if u, err := url.Parse(value); err == nil && u.Scheme != "" && u.Host != "" {
			params.URL = value
		}
	case "filter":
		if value == "late" {
			value = "overdue"
		}
		params.Filter = value
	case "timeframe":
		params.Timeframe = value
	case "courseName":
		params.CourseName = value
	case "videoNumber":
		if n, err := strconv.Atoi(value); err == nil && n >= 1 {
			params.VideoNumber = &n
		}
	case "progress":
		if n, err := strconv.Atoi(value); err == nil {
			params.Progress = &n
		}
	}
}

// resolveDate turns a spoken date phrase into an API date string. Phrases the
// resolver does not understand are kept verbatim so the validator still sees
// that a deadline was spoken.
func (m *Matcher) resolveDate(value string) string {
	if t, ok := dateparse.Resolve(value, m.now()); ok {
		return dateparse.FormatAPIDate(t)
	}
	return value
}

var (
	highWords = []string{"urgent", "important", "critical", "asap"}
	lowWords  = []string{"low priority", "minor", "later", "whenever"}
)

// DetectPriority infers a task priority from urgency keywords anywhere in the
// transcript. Defaults to medium.
func DetectPriority(text string) string {
	for _, w := range highWords {
		if strings.Contains(text, w) {
			return "high"
		}
	}
	for _, w := range lowWords {
		if strings.Contains(text, w) {
			return "low"
		}
	}
	return "medium"
}

// Catalog exposes the specificity-ordered pattern list, mainly for help
// output and tests.
func Catalog() []Pattern {
	return bySpecificity(catalog)
}
