// Package parser turns raw speech transcripts into structured commands.
// The semantic path asks the language model first; the pattern matcher is
// the offline fallback when the model is unavailable, unsure, or wrong.
package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"taskpilot/internal/command"
	"taskpilot/internal/dateparse"
	"taskpilot/internal/llm"
	"taskpilot/internal/logging"
	"taskpilot/internal/pattern"
)

// SemanticConfidenceGate is the minimum model-reported confidence accepted
// from the semantic path. Below it the pattern matcher gets a try.
const SemanticConfidenceGate = 70

// ErrNoCommand is returned when neither path recognizes the transcript.
var ErrNoCommand = errors.New("no command recognized")

// Parser runs the two-stage parse.
type Parser struct {
	client  llm.Client
	matcher *pattern.Matcher
	now     func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock overrides the reference time used for date resolution and
// prompt construction.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// New builds a Parser. A nil client disables the semantic path; the parser
// then runs pattern-only, which is how the CLI degrades without an API key.
func New(client llm.Client, opts ...Option) *Parser {
	p := &Parser{
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.matcher = pattern.NewMatcher(pattern.WithClock(func() time.Time { return p.now() }))
	return p
}

// Parse converts a transcript into a command. It returns ErrNoCommand when
// the transcript does not express any supported operation.
func (p *Parser) Parse(ctx context.Context, transcript string) (command.ParsedCommand, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return command.ParsedCommand{}, ErrNoCommand
	}

	var belowGate command.ParsedCommand
	if p.client != nil {
		cmd, err := p.parseSemantic(ctx, transcript)
		if err == nil && cmd.Confidence >= SemanticConfidenceGate {
			logging.Parser("semantic parse accepted: action=%s confidence=%d", cmd.Action, cmd.Confidence)
			return cmd, nil
		}
		if err != nil {
			logging.Parser("semantic parse failed, falling back to patterns: %v", err)
		} else {
			logging.Parser("semantic confidence %d below gate %d, falling back to patterns", cmd.Confidence, SemanticConfidenceGate)
			belowGate = cmd
		}
	}

	if cmd, ok := p.matcher.Match(transcript); ok {
		logging.Parser("pattern parse: action=%s", cmd.Action)
		return cmd, nil
	}
	// No pattern covered the phrasing. A below-gate semantic command that is
	// still actionable beats giving up entirely.
	if belowGate.Actionable() {
		logging.Parser("no pattern match, keeping below-gate semantic parse: action=%s confidence=%d", belowGate.Action, belowGate.Confidence)
		return belowGate, nil
	}
	return command.ParsedCommand{}, ErrNoCommand
}

// wireCommand is the JSON shape the model is instructed to produce.
type wireCommand struct {
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	Parameters command.Params `json:"parameters"`
	Confidence int            `json:"confidence"`
}

func (p *Parser) parseSemantic(ctx context.Context, transcript string) (command.ParsedCommand, error) {
	timer := logging.StartTimer(logging.CategoryParser, "semantic parse")
	defer timer.StopWithThreshold(5 * time.Second)

	response, err := p.client.CompleteWithSystem(ctx, p.systemPrompt(), transcript)
	if err != nil {
		return command.ParsedCommand{}, fmt.Errorf("completion: %w", err)
	}

	raw := extractJSON(stripMarkdownCodeFences(response))
	if raw == "" {
		return command.ParsedCommand{}, fmt.Errorf("no JSON object in response")
	}

	var wire wireCommand
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return command.ParsedCommand{}, fmt.Errorf("malformed command JSON: %w", err)
	}

	action := command.Action(wire.Action)
	if !command.Known(action) {
		return command.ParsedCommand{}, fmt.Errorf("unknown action %q", wire.Action)
	}

	confidence := wire.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	params := wire.Parameters
	p.resolveDates(&params)

	return command.ParsedCommand{
		Action:       action,
		Entity:       command.EntityFor(action),
		Params:       params,
		Confidence:   confidence,
		OriginalText: transcript,
	}, nil
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// resolveDates converts any date field the model left as a spoken phrase
// into an API date. Already-ISO values pass through.
func (p *Parser) resolveDates(params *command.Params) {
	now := p.now()
	for _, field := range []*string{&params.Deadline, &params.TargetDate} {
		v := strings.TrimSpace(*field)
		if v == "" || isoDateRe.MatchString(v) {
			continue
		}
		if t, ok := dateparse.Resolve(v, now); ok {
			*field = dateparse.FormatAPIDate(t)
		}
	}
}

func (p *Parser) systemPrompt() string {
	today := p.now()
	return fmt.Sprintf(systemPromptTemplate,
		today.Format("Monday, January 2, 2006"),
		dateparse.FormatAPIDate(today),
		actionVocabulary())
}

const systemPromptTemplate = `You are a voice command interpreter for a personal productivity app that manages tasks, courses, reading items, and goals.

Today is %s (%s).

Convert the user's spoken words into exactly one JSON object:
{"action": "<action>", "entity": "<entity>", "parameters": {...}, "confidence": <0-100>}

Supported actions:
%s

Parameter fields: title, name, deadline, priority (high|medium|low), description, url, filter (overdue), timeframe (today|tomorrow|this week), targetDate, videoNumber (integer), courseName, progress (integer 0-100).

Rules:
- Resolve every spoken date to YYYY-MM-DD using today's date.
- The transcript may be in English or Arabic; parameters stay in the speaker's language.
- Only include parameters that were actually said.
- confidence reflects how certain you are the user meant this command.
- If the words do not express any supported command, use confidence 0.
- Respond with ONLY the JSON object, no prose.`

func actionVocabulary() string {
	var b strings.Builder
	for _, a := range command.Actions() {
		fmt.Fprintf(&b, "- %s (entity: %s)\n", a, command.EntityFor(a))
	}
	return strings.TrimRight(b.String(), "\n")
}

// extractJSON returns the first balanced JSON object in the response, or ""
// when none is found.
func extractJSON(response string) string {
	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(response); i++ {
		switch response[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return ""
}

// stripMarkdownCodeFences removes a surrounding ```json fence if the model
// added one despite the JSON mime type.
func stripMarkdownCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "```") {
		firstNewline := strings.Index(trimmed, "\n")
		if firstNewline != -1 {
			lastFence := strings.LastIndex(trimmed, "```")
			if lastFence > firstNewline {
				return strings.TrimSpace(trimmed[firstNewline+1 : lastFence])
			}
		}
	}
	return s
}
