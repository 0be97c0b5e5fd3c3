// Package session orchestrates one voice interaction at a time: transcript
// in, parsed command, optional confirmation, execution, spoken result. The
// controller is a small state machine that always comes back to a state the
// user can retry from.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskpilot/internal/command"
	"taskpilot/internal/executor"
	"taskpilot/internal/logging"
	"taskpilot/internal/parser"
)

// State is a phase of the voice session.
type State string

const (
	StateIdle                 State = "idle"
	StateListening            State = "listening"
	StateTranscribing         State = "transcribing"
	StateParsing              State = "parsing"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateExecuting            State = "executing"
	StateSucceeded            State = "succeeded"
	StateFailed               State = "failed"
)

// FailureKind classifies why a session turn failed.
type FailureKind string

const (
	ParseFailure      FailureKind = "parse_failure"
	ValidationFailure FailureKind = "validation_failure"
	LookupFailure     FailureKind = "lookup_failure"
	ExecutionFailure  FailureKind = "execution_failure"
)

// ErrInvalidTransition is returned when a call does not apply to the
// current state.
var ErrInvalidTransition = errors.New("invalid session transition")

// Outcome is the terminal record of one voice turn.
type Outcome struct {
	Transcript string
	Command    command.ParsedCommand
	Result     executor.Result
	Failure    FailureKind
	Message    string
}

// Turn is one entry in the bounded session history.
type Turn struct {
	Transcript string
	State      State
	Message    string
	At         time.Time
}

const maxHistory = 20

// Controller drives the session state machine. Safe for concurrent use,
// though each session processes one transcript at a time.
type Controller struct {
	mu      sync.Mutex
	parser  *parser.Parser
	exec    *executor.Executor
	state   State
	pending command.ParsedCommand
	last    Outcome
	history []Turn

	autoConfirm bool
	timeout     time.Duration
	now         func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithAutoConfirm executes actionable commands immediately, skipping the
// awaiting-confirmation state. Used by the CLI; the dialog UI confirms.
func WithAutoConfirm() Option {
	return func(c *Controller) { c.autoConfirm = true }
}

// WithTimeout bounds each parse and execute call.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithClock overrides the history timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New builds a Controller in the idle state.
func New(p *parser.Parser, e *executor.Executor, opts ...Option) *Controller {
	c := &Controller{
		parser:  p,
		exec:    e,
		state:   StateIdle,
		timeout: 30 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns the parsed command awaiting confirmation, if any.
func (c *Controller) Pending() (command.ParsedCommand, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.state == StateAwaitingConfirmation
}

// LastOutcome returns the result of the most recent completed turn.
func (c *Controller) LastOutcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// History returns the recent turns, oldest first.
func (c *Controller) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.history))
	copy(out, c.history)
	return out
}

// Start begins listening. Valid from idle or either terminal state.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle, StateSucceeded, StateFailed:
		c.state = StateListening
		c.pending = command.ParsedCommand{}
		logging.Session("listening")
		return nil
	default:
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, c.state)
	}
}

// Transcribing marks that captured speech is being converted to text.
func (c *Controller) Transcribing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateListening {
		return fmt.Errorf("%w: transcribe from %s", ErrInvalidTransition, c.state)
	}
	c.state = StateTranscribing
	return nil
}

// HandleTranscript takes the stabilized transcript and runs the parse stage.
// The returned Outcome is terminal when the turn failed or auto-confirm
// executed it; otherwise the controller is awaiting confirmation.
func (c *Controller) HandleTranscript(ctx context.Context, transcript string) (Outcome, error) {
	c.mu.Lock()
	if c.state != StateListening && c.state != StateTranscribing {
		defer c.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: transcript in %s", ErrInvalidTransition, c.state)
	}
	c.state = StateParsing
	c.mu.Unlock()

	logging.Session("parsing transcript %q", transcript)
	parseCtx, cancel := context.WithTimeout(ctx, c.timeout)
	cmd, err := c.parser.Parse(parseCtx, transcript)
	cancel()

	if err != nil {
		return c.fail(transcript, command.ParsedCommand{}, ParseFailure,
			"Sorry, I didn't catch a command in that."), nil
	}

	if !cmd.Actionable() {
		if verr := command.Validate(cmd.Action, cmd.Params); verr != nil {
			return c.fail(transcript, cmd, ValidationFailure,
				fmt.Sprintf("I understood %s, but %v.", cmd.Action, verr)), nil
		}
		return c.fail(transcript, cmd, ParseFailure,
			"I'm not confident enough about that one. Try rephrasing?"), nil
	}

	c.mu.Lock()
	c.pending = cmd
	if !c.autoConfirm {
		c.state = StateAwaitingConfirmation
		c.mu.Unlock()
		logging.Session("awaiting confirmation for %s", cmd.Action)
		return Outcome{Transcript: transcript, Command: cmd}, nil
	}
	c.mu.Unlock()
	return c.execute(ctx, transcript, cmd), nil
}

// Confirm executes the pending command.
func (c *Controller) Confirm(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.state != StateAwaitingConfirmation {
		defer c.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: confirm in %s", ErrInvalidTransition, c.state)
	}
	cmd := c.pending
	c.mu.Unlock()
	return c.execute(ctx, cmd.OriginalText, cmd), nil
}

// Cancel aborts the turn with no side effects. Valid any time before
// execution begins.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateExecuting:
		return fmt.Errorf("%w: cancel while executing", ErrInvalidTransition)
	default:
		c.state = StateIdle
		c.pending = command.ParsedCommand{}
		logging.Session("cancelled")
		return nil
	}
}

// Retry discards the previous transcript and command entirely and returns
// to listening.
func (c *Controller) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateExecuting {
		return fmt.Errorf("%w: retry while executing", ErrInvalidTransition)
	}
	c.state = StateListening
	c.pending = command.ParsedCommand{}
	logging.Session("retrying")
	return nil
}

func (c *Controller) execute(ctx context.Context, transcript string, cmd command.ParsedCommand) Outcome {
	c.mu.Lock()
	c.state = StateExecuting
	c.mu.Unlock()

	execCtx, cancel := context.WithTimeout(ctx, c.timeout)
	result := c.exec.Execute(execCtx, cmd)
	cancel()

	if !result.Success {
		kind := ExecutionFailure
		switch result.Failure {
		case executor.FailureValidation:
			kind = ValidationFailure
		case executor.FailureLookup:
			kind = LookupFailure
		}
		return c.fail(transcript, cmd, kind, result.Message)
	}

	outcome := Outcome{
		Transcript: transcript,
		Command:    cmd,
		Result:     result,
		Message:    result.Message,
	}
	c.finish(StateSucceeded, outcome)
	logging.Session("succeeded: %s", result.Message)
	return outcome
}

func (c *Controller) fail(transcript string, cmd command.ParsedCommand, kind FailureKind, message string) Outcome {
	outcome := Outcome{
		Transcript: transcript,
		Command:    cmd,
		Failure:    kind,
		Message:    message,
	}
	c.finish(StateFailed, outcome)
	logging.Session("failed (%s): %s", kind, message)
	return outcome
}

func (c *Controller) finish(state State, outcome Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.pending = command.ParsedCommand{}
	c.last = outcome
	c.history = append(c.history, Turn{
		Transcript: outcome.Transcript,
		State:      state,
		Message:    outcome.Message,
		At:         c.now(),
	})
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
}
