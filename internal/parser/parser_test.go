package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskpilot/internal/command"
)

// Monday, Feb 10 2025.
var testNow = time.Date(2025, time.February, 10, 9, 30, 0, 0, time.UTC)

type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

func newTestParser(c *fakeClient) *Parser {
	if c == nil {
		return New(nil, WithClock(func() time.Time { return testNow }))
	}
	return New(c, WithClock(func() time.Time { return testNow }))
}

func TestParseSemantic(t *testing.T) {
	c := &fakeClient{response: `{"action":"create_task","entity":"task","parameters":{"title":"Review Report","deadline":"2025-02-11","priority":"high"},"confidence":95}`}
	cmd, err := newTestParser(c).Parse(context.Background(), "create task Review Report due tomorrow high priority")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Action != command.ActionCreateTask {
		t.Errorf("action = %q", cmd.Action)
	}
	if cmd.Params.Title != "Review Report" {
		t.Errorf("title = %q", cmd.Params.Title)
	}
	if cmd.Confidence != 95 {
		t.Errorf("confidence = %d", cmd.Confidence)
	}
	if cmd.OriginalText == "" {
		t.Error("original text not preserved")
	}
}

func TestParseSemanticStripsFences(t *testing.T) {
	c := &fakeClient{response: "```json\n{\"action\":\"show_tasks\",\"entity\":\"task\",\"parameters\":{},\"confidence\":90}\n```"}
	cmd, err := newTestParser(c).Parse(context.Background(), "show my tasks")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Action != command.ActionShowTasks {
		t.Errorf("action = %q", cmd.Action)
	}
}

func TestParseSemanticResolvesSpokenDates(t *testing.T) {
	c := &fakeClient{response: `{"action":"create_task","entity":"task","parameters":{"title":"Taxes","deadline":"next friday"},"confidence":88}`}
	cmd, err := newTestParser(c).Parse(context.Background(), "create task Taxes due next friday")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Params.Deadline != "2025-02-14" {
		t.Errorf("deadline = %q, want 2025-02-14", cmd.Params.Deadline)
	}
}

func TestParseFallbackOnLowConfidence(t *testing.T) {
	c := &fakeClient{response: `{"action":"create_task","entity":"task","parameters":{"title":"wrong guess"},"confidence":40}`}
	cmd, err := newTestParser(c).Parse(context.Background(), "create task Review Report")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Params.Title != "review report" {
		t.Errorf("title = %q, want pattern result", cmd.Params.Title)
	}
	if cmd.Confidence != 75 {
		t.Errorf("confidence = %d, want fallback confidence", cmd.Confidence)
	}
}

func TestParseBelowGateSemanticKeptWhenPatternsMiss(t *testing.T) {
	c := &fakeClient{response: `{"action":"create_task","entity":"task","parameters":{"title":"call the dentist"},"confidence":60}`}
	cmd, err := newTestParser(c).Parse(context.Background(), "I really need to call the dentist sometime soon")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Action != command.ActionCreateTask {
		t.Errorf("action = %q", cmd.Action)
	}
	if cmd.Confidence != 60 {
		t.Errorf("confidence = %d, want the model's", cmd.Confidence)
	}
	if !cmd.Actionable() {
		t.Error("command should be actionable")
	}
}

func TestParseBelowGateSemanticDroppedWhenNotActionable(t *testing.T) {
	// Missing the required title, so the below-gate command is useless.
	c := &fakeClient{response: `{"action":"create_task","entity":"task","parameters":{},"confidence":60}`}
	if _, err := newTestParser(c).Parse(context.Background(), "hmm I should make one of those"); !errors.Is(err, ErrNoCommand) {
		t.Errorf("err = %v, want ErrNoCommand", err)
	}
}

func TestParseFallbackOnClientError(t *testing.T) {
	c := &fakeClient{err: errors.New("boom")}
	cmd, err := newTestParser(c).Parse(context.Background(), "show all tasks")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Action != command.ActionShowTasks {
		t.Errorf("action = %q", cmd.Action)
	}
	if c.calls != 1 {
		t.Errorf("client calls = %d", c.calls)
	}
}

func TestParseFallbackOnMalformedJSON(t *testing.T) {
	for _, response := range []string{
		"I think you want to create a task.",
		`{"action":"create_task","confidence":`,
		`{"action":"fly_to_moon","entity":"task","parameters":{},"confidence":99}`,
	} {
		c := &fakeClient{response: response}
		cmd, err := newTestParser(c).Parse(context.Background(), "show all tasks")
		if err != nil {
			t.Fatalf("Parse with response %q: %v", response, err)
		}
		if cmd.Action != command.ActionShowTasks {
			t.Errorf("response %q: action = %q, want pattern fallback", response, cmd.Action)
		}
	}
}

func TestParsePatternOnlyWithoutClient(t *testing.T) {
	cmd, err := newTestParser(nil).Parse(context.Background(), "mark Review Report as done")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Action != command.ActionMarkTaskDone {
		t.Errorf("action = %q", cmd.Action)
	}
}

func TestParseNoCommand(t *testing.T) {
	c := &fakeClient{response: `{"action":"create_task","entity":"task","parameters":{},"confidence":0}`}
	for _, text := range []string{"", "   ", "the weather is nice"} {
		if _, err := newTestParser(c).Parse(context.Background(), text); !errors.Is(err, ErrNoCommand) {
			t.Errorf("Parse(%q) err = %v, want ErrNoCommand", text, err)
		}
	}
}

func TestParseConfidenceClamped(t *testing.T) {
	c := &fakeClient{response: `{"action":"show_tasks","entity":"task","parameters":{},"confidence":250}`}
	cmd, err := newTestParser(c).Parse(context.Background(), "show tasks please")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cmd.Confidence != 100 {
		t.Errorf("confidence = %d, want clamped to 100", cmd.Confidence)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{`prefix {"a":{"b":2}} suffix`, `{"a":{"b":2}}`},
		{`no json here`, ""},
		{`{"unclosed":`, ""},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
