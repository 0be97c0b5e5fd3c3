// Package store persists the productivity entities the executor mutates.
// LocalStore keeps everything in SQLite; RemoteStore talks to the app's
// HTTP API. The executor only sees the DataAccess interface.
package store

import (
	"context"
	"errors"

	"taskpilot/internal/model"
)

// ErrNotFound is returned when an id does not resolve to a record.
var ErrNotFound = errors.New("record not found")

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	Deadline    *string
	Category    *string
}

// CoursePatch is a partial course update.
type CoursePatch struct {
	Status           *string
	Progress         *int
	CompletedLessons *int
}

// ReadingPatch is a partial reading item update.
type ReadingPatch struct {
	Status   *string
	Priority *string
}

// GoalPatch is a partial goal update.
type GoalPatch struct {
	Status   *string
	Progress *int
}

// DataAccess is everything the executor needs from persistence. List
// methods return full collections; filtering and fuzzy title resolution
// happen in the executor, which needs the candidates anyway.
type DataAccess interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListCourses(ctx context.Context) ([]model.Course, error)
	CreateCourse(ctx context.Context, c model.Course) (model.Course, error)
	UpdateCourse(ctx context.Context, id string, patch CoursePatch) (model.Course, error)
	ListLessons(ctx context.Context, courseID string) ([]model.Lesson, error)
	CompleteLesson(ctx context.Context, courseID string, orderIndex int) (model.Lesson, error)

	ListReading(ctx context.Context) ([]model.ReadingItem, error)
	CreateReading(ctx context.Context, r model.ReadingItem) (model.ReadingItem, error)
	UpdateReading(ctx context.Context, id string, patch ReadingPatch) (model.ReadingItem, error)

	ListGoals(ctx context.Context) ([]model.Goal, error)
	CreateGoal(ctx context.Context, g model.Goal) (model.Goal, error)
	UpdateGoal(ctx context.Context, id string, patch GoalPatch) (model.Goal, error)

	DashboardStats(ctx context.Context) (model.DashboardStats, error)
}
