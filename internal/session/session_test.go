package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"taskpilot/internal/command"
	"taskpilot/internal/executor"
	"taskpilot/internal/model"
	"taskpilot/internal/parser"
	"taskpilot/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Monday, Feb 10 2025.
var testNow = time.Date(2025, time.February, 10, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return testNow }

// newTestSession wires a pattern-only parser and a real SQLite store, which
// is the exact shape of an offline run.
func newTestSession(t *testing.T, opts ...Option) (*Controller, *store.LocalStore) {
	t.Helper()
	s, err := store.NewLocalStore(filepath.Join(t.TempDir(), "taskpilot.db"), store.WithClock(clock))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	p := parser.New(nil, parser.WithClock(clock))
	e := executor.New(s, executor.WithClock(clock))
	opts = append(opts, WithClock(clock))
	return New(p, e, opts...), s
}

func runTurn(t *testing.T, c *Controller, transcript string) Outcome {
	t.Helper()
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Transcribing(); err != nil {
		t.Fatalf("Transcribing: %v", err)
	}
	outcome, err := c.HandleTranscript(context.Background(), transcript)
	if err != nil {
		t.Fatalf("HandleTranscript(%q): %v", transcript, err)
	}
	return outcome
}

func TestCreateTaskEndToEnd(t *testing.T) {
	c, s := newTestSession(t, WithAutoConfirm())

	outcome := runTurn(t, c, "create task Review Report due tomorrow high priority")
	if !outcome.Result.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if c.State() != StateSucceeded {
		t.Errorf("state = %s", c.State())
	}

	tasks, err := s.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks = %+v", tasks)
	}
	if tasks[0].Deadline != "2025-02-11" {
		t.Errorf("deadline = %q, want 2025-02-11", tasks[0].Deadline)
	}
	if tasks[0].Priority != model.PriorityHigh {
		t.Errorf("priority = %q, want high", tasks[0].Priority)
	}
}

func TestShowTasksTodayEndToEnd(t *testing.T) {
	c, s := newTestSession(t, WithAutoConfirm())
	ctx := context.Background()
	s.CreateTask(ctx, model.Task{Title: "due today", Status: "todo", Priority: "medium", Deadline: "2025-02-10"})
	s.CreateTask(ctx, model.Task{Title: "due later", Status: "todo", Priority: "medium", Deadline: "2025-03-01"})

	outcome := runTurn(t, c, "show tasks today")
	if !outcome.Result.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.Result.DisplayType != executor.DisplayList {
		t.Errorf("displayType = %q", outcome.Result.DisplayType)
	}
	tasks := outcome.Result.Data.([]model.Task)
	if len(tasks) != 1 || tasks[0].Title != "due today" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestMarkUnknownTaskEndToEnd(t *testing.T) {
	c, _ := newTestSession(t, WithAutoConfirm())

	outcome := runTurn(t, c, "mark Review Report as done")
	if outcome.Result.Success {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.Failure != LookupFailure {
		t.Errorf("failure = %q", outcome.Failure)
	}
	if !strings.Contains(outcome.Message, "review report") {
		t.Errorf("message %q should name the searched title", outcome.Message)
	}
	if c.State() != StateFailed {
		t.Errorf("state = %s", c.State())
	}
}

func TestGibberishIsParseFailure(t *testing.T) {
	c, _ := newTestSession(t, WithAutoConfirm())

	outcome := runTurn(t, c, "gibberish nonsense words")
	if outcome.Failure != ParseFailure {
		t.Errorf("failure = %q", outcome.Failure)
	}
	if outcome.Result.Success || outcome.Result.DisplayType != "" {
		t.Errorf("no execution result expected, got %+v", outcome.Result)
	}
}

func TestUpdateGoalEndToEnd(t *testing.T) {
	c, s := newTestSession(t, WithAutoConfirm())
	ctx := context.Background()
	s.CreateGoal(ctx, model.Goal{Title: "Learn React Fundamentals", Status: model.GoalStatusActive, Progress: 30})

	outcome := runTurn(t, c, "update goal Learn React to 75 percent")
	if !outcome.Result.Success {
		t.Fatalf("outcome = %+v", outcome)
	}

	goals, _ := s.ListGoals(ctx)
	if goals[0].Progress != 75 {
		t.Errorf("progress = %d, want 75", goals[0].Progress)
	}
}

func TestConfirmationFlow(t *testing.T) {
	c, s := newTestSession(t)

	outcome := runTurn(t, c, "create task Call Client")
	if outcome.Failure != "" {
		t.Fatalf("outcome = %+v", outcome)
	}
	if c.State() != StateAwaitingConfirmation {
		t.Fatalf("state = %s", c.State())
	}
	pending, ok := c.Pending()
	if !ok || pending.Action != command.ActionCreateTask {
		t.Fatalf("pending = %+v %v", pending, ok)
	}

	// Nothing persisted before confirmation.
	tasks, _ := s.ListTasks(context.Background())
	if len(tasks) != 0 {
		t.Fatal("task created before confirm")
	}

	final, err := c.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !final.Result.Success {
		t.Fatalf("final = %+v", final)
	}
	tasks, _ = s.ListTasks(context.Background())
	if len(tasks) != 1 {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestCancelDiscardsPendingCommand(t *testing.T) {
	c, s := newTestSession(t)

	runTurn(t, c, "create task Call Client")
	if err := c.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %s", c.State())
	}
	if _, ok := c.Pending(); ok {
		t.Error("pending survived cancel")
	}
	tasks, _ := s.ListTasks(context.Background())
	if len(tasks) != 0 {
		t.Error("cancel had side effects")
	}
	if _, err := c.Confirm(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Confirm after cancel err = %v", err)
	}
}

func TestRetryDiscardsEverything(t *testing.T) {
	c, _ := newTestSession(t, WithAutoConfirm())

	runTurn(t, c, "gibberish nonsense words")
	if c.State() != StateFailed {
		t.Fatalf("state = %s", c.State())
	}
	if err := c.Retry(); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if c.State() != StateListening {
		t.Errorf("state = %s", c.State())
	}
	if _, ok := c.Pending(); ok {
		t.Error("pending survived retry")
	}

	// The next turn is fully independent.
	outcome, err := c.HandleTranscript(context.Background(), "show all tasks")
	if err != nil {
		t.Fatalf("HandleTranscript: %v", err)
	}
	if !outcome.Result.Success {
		t.Errorf("outcome = %+v", outcome)
	}
}

type weakClient struct{}

func (weakClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return `{"action":"create_task","entity":"task","parameters":{"title":"guess"},"confidence":49}`, nil
}

func TestLowConfidenceNeverExecutes(t *testing.T) {
	s, err := store.NewLocalStore(filepath.Join(t.TempDir(), "taskpilot.db"), store.WithClock(clock))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	defer s.Close()

	p := parser.New(weakClient{}, parser.WithClock(clock))
	e := executor.New(s, executor.WithClock(clock))
	c := New(p, e, WithAutoConfirm(), WithClock(clock))

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	outcome, err := c.HandleTranscript(context.Background(), "xyzzy plugh")
	if err != nil {
		t.Fatalf("HandleTranscript: %v", err)
	}
	if outcome.Failure != ParseFailure {
		t.Errorf("failure = %q", outcome.Failure)
	}
	tasks, _ := s.ListTasks(context.Background())
	if len(tasks) != 0 {
		t.Error("weak command reached the executor")
	}
}

func TestInvalidTransitions(t *testing.T) {
	c, _ := newTestSession(t)

	if _, err := c.HandleTranscript(context.Background(), "show tasks"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("transcript while idle err = %v", err)
	}
	if err := c.Transcribing(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("transcribing while idle err = %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double start err = %v", err)
	}
}

func TestHistoryBounded(t *testing.T) {
	c, _ := newTestSession(t, WithAutoConfirm())
	for i := 0; i < maxHistory+5; i++ {
		runTurn(t, c, "show all tasks")
	}
	if got := len(c.History()); got != maxHistory {
		t.Errorf("history length = %d, want %d", got, maxHistory)
	}
}
