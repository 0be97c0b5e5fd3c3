package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"taskpilot/internal/model"
)

// Monday, Feb 10 2025.
var testNow = time.Date(2025, time.February, 10, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "taskpilot.db"),
		WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTaskCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, model.Task{
		Title:    "Review Report",
		Priority: model.PriorityHigh,
		Status:   model.TaskStatusTodo,
		Deadline: "2025-02-11",
		Category: "Work",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == "" {
		t.Fatal("id not assigned")
	}

	tasks, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Review Report" {
		t.Fatalf("tasks = %+v", tasks)
	}

	done := model.TaskStatusDone
	updated, err := s.UpdateTask(ctx, created.ID, TaskPatch{Status: &done})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Status != model.TaskStatusDone {
		t.Errorf("status = %q", updated.Status)
	}
	if updated.Priority != model.PriorityHigh {
		t.Errorf("priority clobbered: %q", updated.Priority)
	}

	if err := s.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := s.DeleteTask(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	s := newTestStore(t)
	high := model.PriorityHigh
	if _, err := s.UpdateTask(context.Background(), "nope", TaskPatch{Priority: &high}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCompleteLessonRecomputesProgress(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	course, err := s.CreateCourse(ctx, model.Course{
		Name:   "JavaScript Basics",
		Status: model.CourseStatusNotStarted,
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	for i := 1; i <= 4; i++ {
		if _, err := s.AddLesson(ctx, course.ID, "", i); err != nil {
			t.Fatalf("AddLesson %d: %v", i, err)
		}
	}

	lesson, err := s.CompleteLesson(ctx, course.ID, 2)
	if err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if !lesson.IsCompleted {
		t.Error("lesson not marked completed")
	}

	courses, err := s.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	c := courses[0]
	if c.Progress != 25 {
		t.Errorf("progress = %d, want 25", c.Progress)
	}
	if c.CompletedLessons != 1 {
		t.Errorf("completed = %d, want 1", c.CompletedLessons)
	}
	if c.Status != model.CourseStatusInProgress {
		t.Errorf("status = %q", c.Status)
	}

	// Repeating the same command changes nothing.
	if _, err := s.CompleteLesson(ctx, course.ID, 2); err != nil {
		t.Fatalf("repeat CompleteLesson: %v", err)
	}
	courses, _ = s.ListCourses(ctx)
	if courses[0].CompletedLessons != 1 {
		t.Errorf("repeat changed completed count to %d", courses[0].CompletedLessons)
	}

	for _, n := range []int{1, 3, 4} {
		if _, err := s.CompleteLesson(ctx, course.ID, n); err != nil {
			t.Fatalf("CompleteLesson %d: %v", n, err)
		}
	}
	courses, _ = s.ListCourses(ctx)
	if courses[0].Status != model.CourseStatusCompleted || courses[0].Progress != 100 {
		t.Errorf("course = %+v, want completed at 100", courses[0])
	}
}

func TestCompleteLessonUnknownIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	course, _ := s.CreateCourse(ctx, model.Course{Name: "Go", Status: model.CourseStatusNotStarted})
	if _, err := s.CompleteLesson(ctx, course.ID, 7); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDashboardStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.CreateTask(ctx, model.Task{Title: "due today", Status: model.TaskStatusTodo, Priority: "medium", Deadline: "2025-02-10"})
	s.CreateTask(ctx, model.Task{Title: "due later", Status: model.TaskStatusTodo, Priority: "medium", Deadline: "2025-03-01"})
	finished, _ := s.CreateTask(ctx, model.Task{Title: "old one", Status: model.TaskStatusTodo, Priority: "low"})
	done := model.TaskStatusDone
	s.UpdateTask(ctx, finished.ID, TaskPatch{Status: &done})

	s.CreateGoal(ctx, model.Goal{Title: "Learn React", Status: model.GoalStatusActive, Progress: 50})
	s.CreateReading(ctx, model.ReadingItem{Title: "Clean Code", Status: model.ReadingStatusToRead, Priority: "medium", Category: "technical"})

	course, _ := s.CreateCourse(ctx, model.Course{Name: "JS", Status: model.CourseStatusNotStarted})
	s.AddLesson(ctx, course.ID, "", 1)
	s.AddLesson(ctx, course.ID, "", 2)
	s.CompleteLesson(ctx, course.ID, 1)

	stats, err := s.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.TasksToday != 1 {
		t.Errorf("TasksToday = %d, want 1", stats.TasksToday)
	}
	if stats.TasksTotal != 2 {
		t.Errorf("TasksTotal = %d, want 2", stats.TasksTotal)
	}
	if stats.CompletedThisWeek != 1 {
		t.Errorf("CompletedThisWeek = %d, want 1", stats.CompletedThisWeek)
	}
	if stats.ActiveCourses != 1 {
		t.Errorf("ActiveCourses = %d, want 1", stats.ActiveCourses)
	}
	if stats.ReadingItems != 1 {
		t.Errorf("ReadingItems = %d, want 1", stats.ReadingItems)
	}
	if stats.GoalsProgress != 50 {
		t.Errorf("GoalsProgress = %d, want 50", stats.GoalsProgress)
	}
	if stats.StudyStreak != 1 {
		t.Errorf("StudyStreak = %d, want 1", stats.StudyStreak)
	}
	if stats.ProductivityScore != 35 {
		t.Errorf("ProductivityScore = %d, want 35", stats.ProductivityScore)
	}
}

func TestSortTasksByDeadline(t *testing.T) {
	tasks := []model.Task{
		{Title: "none"},
		{Title: "late", Deadline: "2025-03-01"},
		{Title: "soon", Deadline: "2025-02-11"},
	}
	SortTasksByDeadline(tasks)
	if tasks[0].Title != "soon" || tasks[1].Title != "late" || tasks[2].Title != "none" {
		t.Errorf("order = %v", []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})
	}
}
