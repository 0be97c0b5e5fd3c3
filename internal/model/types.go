// Package model defines the entity records the voice pipeline reads and
// mutates. These mirror the productivity app's storage schema; the pipeline
// itself never persists anything beyond these records' side effects.
package model

import "time"

// Priority levels shared by tasks and reading items.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task lifecycle states.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Course lifecycle states.
const (
	CourseStatusNotStarted = "not_started"
	CourseStatusInProgress = "in_progress"
	CourseStatusCompleted  = "completed"
	CourseStatusPaused     = "paused"
)

// Reading item lifecycle states.
const (
	ReadingStatusToRead  = "to_read"
	ReadingStatusReading = "reading"
	ReadingStatusRead    = "read"
)

// Goal lifecycle states.
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusPaused    = "paused"
)

// Task is a single to-do item. Deadline is a calendar date in YYYY-MM-DD
// form; empty means no deadline.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Deadline    string    `json:"deadline,omitempty"`
	Category    string    `json:"category,omitempty"`
	Project     string    `json:"project,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Course tracks an online course, optionally backed by a YouTube playlist.
type Course struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Platform         string    `json:"platform"`
	Progress         int       `json:"progress"` // 0-100
	Status           string    `json:"status"`
	YouTubeURL       string    `json:"youtubeUrl,omitempty"`
	TotalLessons     int       `json:"totalLessons"`
	CompletedLessons int       `json:"completedLessonsCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Lesson is one video within a course. OrderIndex is 1-based and is what a
// spoken "video 5" refers to.
type Lesson struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	OrderIndex  int       `json:"orderIndex"`
	IsCompleted bool      `json:"isCompleted"`
	CompletedAt time.Time `json:"completedAt,omitzero"`
}

// ReadingItem is an article or book on the reading list.
type ReadingItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source,omitempty"`
	SourceURL string    `json:"sourceUrl,omitempty"`
	Category  string    `json:"category"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Goal is a long-running objective with percentage progress. TargetDate is a
// calendar date in YYYY-MM-DD form; empty means open-ended.
type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Progress    int       `json:"progress"` // 0-100
	Status      string    `json:"status"`
	Timeframe   string    `json:"timeframe,omitempty"`
	TargetDate  string    `json:"targetDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DashboardStats is the aggregate summary behind "what's on my plate" and
// "show my stats".
type DashboardStats struct {
	TasksToday        int `json:"tasksToday"`
	TasksTotal        int `json:"tasksTotal"`
	ActiveCourses     int `json:"activeCourses"`
	ReadingItems      int `json:"readingItems"`
	GoalsProgress     int `json:"goalsProgress"` // average goal progress, 0-100
	CompletedThisWeek int `json:"completedThisWeek"`
	StudyStreak       int `json:"studyStreak"`
	ProductivityScore int `json:"productivityScore"`
}
