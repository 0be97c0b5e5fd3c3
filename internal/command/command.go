// Package command defines the typed voice command produced by parsing and the
// per-action contract every command must satisfy before execution.
package command

import "sort"

// Action identifies the operation a parsed command represents.
type Action string

const (
	ActionCreateTask         Action = "create_task"
	ActionShowTasks          Action = "show_tasks"
	ActionMarkTaskDone       Action = "mark_task_done"
	ActionDeleteTask         Action = "delete_task"
	ActionUpdateTaskPriority Action = "update_task_priority"

	ActionCreateCourse     Action = "create_course"
	ActionShowCourses      Action = "show_courses"
	ActionMarkVideoWatched Action = "mark_video_watched"

	ActionCreateReading   Action = "create_reading"
	ActionShowReading     Action = "show_reading"
	ActionMarkReadingRead Action = "mark_reading_read"

	ActionCreateGoal         Action = "create_goal"
	ActionUpdateGoalProgress Action = "update_goal_progress"
	ActionShowGoals          Action = "show_goals"

	ActionShowDashboardSummary Action = "show_dashboard_summary"
	ActionShowStats            Action = "show_stats"
)

// Entity is the coarse domain tag used for routing and display.
type Entity string

const (
	EntityTask    Entity = "task"
	EntityCourse  Entity = "course"
	EntityReading Entity = "reading"
	EntityGoal    Entity = "goal"
	EntityGeneral Entity = "general"
)

// Params carries the extracted fields of a command. All fields are optional;
// Validate enforces the per-action minimums. VideoNumber and Progress are
// pointers because zero is a legitimate spoken value for progress and the
// validator must tell "absent" from "zero".
type Params struct {
	Title       string `json:"title,omitempty"`
	Name        string `json:"name,omitempty"`
	Deadline    string `json:"deadline,omitempty"` // YYYY-MM-DD
	Priority    string `json:"priority,omitempty"` // high | medium | low
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Filter      string `json:"filter,omitempty"`
	Timeframe   string `json:"timeframe,omitempty"`
	TargetDate  string `json:"targetDate,omitempty"` // YYYY-MM-DD
	VideoNumber *int   `json:"videoNumber,omitempty"`
	CourseName  string `json:"courseName,omitempty"`
	Progress    *int   `json:"progress,omitempty"` // 0-100
	Category    string `json:"category,omitempty"`
	Status      string `json:"status,omitempty"`
}

// AnyTitle returns the spoken title, falling back to the name field (the
// semantic service sometimes fills one or the other for courses).
func (p Params) AnyTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// ParsedCommand is the canonical output of both parsing paths. It is
// transient: created fresh per voice interaction, never persisted.
type ParsedCommand struct {
	Action       Action `json:"action"`
	Entity       Entity `json:"entity"`
	Params       Params `json:"parameters"`
	Confidence   int    `json:"confidence"` // 0-100
	OriginalText string `json:"originalText,omitempty"`
}

// MinActionableConfidence is the floor below which a command is surfaced as
// unrecognized rather than executed.
const MinActionableConfidence = 50

// Actionable reports whether the command may be handed to the executor.
func (c ParsedCommand) Actionable() bool {
	return c.Confidence >= MinActionableConfidence && Validate(c.Action, c.Params) == nil
}

// spec declares an action's entity and minimum-field contract.
type spec struct {
	entity   Entity
	requires func(Params) []string // returns missing field names
}

func needTitle(p Params) []string {
	if p.Title == "" {
		return []string{"title"}
	}
	return nil
}

func needNone(Params) []string { return nil }

var actionSpecs = map[Action]spec{
	ActionCreateTask: {EntityTask, needTitle},
	ActionShowTasks:  {EntityTask, needNone},
	ActionMarkTaskDone: {EntityTask, needTitle},
	ActionDeleteTask:   {EntityTask, needTitle},
	ActionUpdateTaskPriority: {EntityTask, func(p Params) []string {
		var missing []string
		if p.Title == "" {
			missing = append(missing, "title")
		}
		if p.Priority == "" {
			missing = append(missing, "priority")
		}
		return missing
	}},

	ActionCreateCourse: {EntityCourse, func(p Params) []string {
		if p.Title == "" && p.Name == "" {
			return []string{"title"}
		}
		return nil
	}},
	ActionShowCourses: {EntityCourse, needNone},
	ActionMarkVideoWatched: {EntityCourse, func(p Params) []string {
		var missing []string
		if p.VideoNumber == nil {
			missing = append(missing, "videoNumber")
		}
		if p.CourseName == "" {
			missing = append(missing, "courseName")
		}
		return missing
	}},

	ActionCreateReading: {EntityReading, func(p Params) []string {
		if p.Title == "" && p.URL == "" {
			return []string{"title or url"}
		}
		return nil
	}},
	ActionShowReading:     {EntityReading, needNone},
	ActionMarkReadingRead: {EntityReading, needTitle},

	ActionCreateGoal: {EntityGoal, needTitle},
	ActionUpdateGoalProgress: {EntityGoal, func(p Params) []string {
		var missing []string
		if p.Title == "" {
			missing = append(missing, "title")
		}
		if p.Progress == nil {
			missing = append(missing, "progress")
		}
		return missing
	}},
	ActionShowGoals: {EntityGoal, needNone},

	ActionShowDashboardSummary: {EntityGeneral, needNone},
	ActionShowStats:            {EntityGeneral, needNone},
}

// Known reports whether the action is part of the command vocabulary.
func Known(a Action) bool {
	_, ok := actionSpecs[a]
	return ok
}

// EntityFor returns the canonical entity tag for an action. Unknown actions
// map to the general entity.
func EntityFor(a Action) Entity {
	if s, ok := actionSpecs[a]; ok {
		return s.entity
	}
	return EntityGeneral
}

// Actions returns the full command vocabulary in stable order, for prompt
// construction.
func Actions() []Action {
	out := make([]Action, 0, len(actionSpecs))
	for a := range actionSpecs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
