package command

import (
	"errors"
	"testing"
)

func intp(v int) *int { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		params Params
		valid  bool
	}{
		{"create task empty", ActionCreateTask, Params{}, false},
		{"create task with title", ActionCreateTask, Params{Title: "x"}, true},
		{"create course name only", ActionCreateCourse, Params{Name: "JS Basics"}, true},
		{"create course empty", ActionCreateCourse, Params{}, false},
		{"create reading url only", ActionCreateReading, Params{URL: "https://example.com/a"}, true},
		{"create reading empty", ActionCreateReading, Params{}, false},
		{"mark done no title", ActionMarkTaskDone, Params{}, false},
		{"delete task", ActionDeleteTask, Params{Title: "Old Task"}, true},
		{"update priority missing priority", ActionUpdateTaskPriority, Params{Title: "x"}, false},
		{"update priority full", ActionUpdateTaskPriority, Params{Title: "x", Priority: "high"}, true},
		{"update priority bad value", ActionUpdateTaskPriority, Params{Title: "x", Priority: "severe"}, false},
		{"goal progress missing", ActionUpdateGoalProgress, Params{Title: "x"}, false},
		{"goal progress zero is present", ActionUpdateGoalProgress, Params{Title: "x", Progress: intp(0)}, true},
		{"goal progress out of range", ActionUpdateGoalProgress, Params{Title: "x", Progress: intp(120)}, false},
		{"video watched missing course", ActionMarkVideoWatched, Params{VideoNumber: intp(5)}, false},
		{"video watched full", ActionMarkVideoWatched, Params{VideoNumber: intp(5), CourseName: "JS"}, true},
		{"video watched zero", ActionMarkVideoWatched, Params{VideoNumber: intp(0), CourseName: "JS"}, false},
		{"show tasks always valid", ActionShowTasks, Params{}, true},
		{"show goals always valid", ActionShowGoals, Params{}, true},
		{"show stats always valid", ActionShowStats, Params{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.action, tt.params)
			if (err == nil) != tt.valid {
				t.Errorf("Validate(%s, %+v) = %v, want valid=%v", tt.action, tt.params, err, tt.valid)
			}
		})
	}
}

func TestValidateUnknownAction(t *testing.T) {
	err := Validate(Action("launch_rocket"), Params{})
	var unknown *UnknownActionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownActionError, got %v", err)
	}
}

func TestValidateMissingFieldsError(t *testing.T) {
	err := Validate(ActionUpdateGoalProgress, Params{})
	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if len(missing.Fields) != 2 {
		t.Errorf("missing fields = %v, want title and progress", missing.Fields)
	}
}

func TestActionable(t *testing.T) {
	valid := ParsedCommand{Action: ActionCreateTask, Params: Params{Title: "x"}}

	valid.Confidence = 49
	if valid.Actionable() {
		t.Error("confidence 49 must not be actionable")
	}
	valid.Confidence = 50
	if !valid.Actionable() {
		t.Error("confidence 50 with valid params must be actionable")
	}

	invalid := ParsedCommand{Action: ActionCreateTask, Confidence: 95}
	if invalid.Actionable() {
		t.Error("high confidence never overrides a failed validation")
	}
}

func TestEntityFor(t *testing.T) {
	if got := EntityFor(ActionMarkVideoWatched); got != EntityCourse {
		t.Errorf("EntityFor(mark_video_watched) = %s, want course", got)
	}
	if got := EntityFor(Action("bogus")); got != EntityGeneral {
		t.Errorf("EntityFor(bogus) = %s, want general", got)
	}
}
