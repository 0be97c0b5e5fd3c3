// Package executor carries out parsed commands against the data store and
// produces the result the UI speaks or renders.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskpilot/internal/command"
	"taskpilot/internal/logging"
	"taskpilot/internal/model"
	"taskpilot/internal/store"
)

// DisplayType tells the UI how to render a result.
type DisplayType string

const (
	DisplayConfirmation DisplayType = "confirmation"
	DisplayList         DisplayType = "list"
	DisplayItem         DisplayType = "item"
	DisplayStats        DisplayType = "stats"
	DisplayError        DisplayType = "error"
)

// FailureKind classifies unsuccessful results so the session controller can
// choose the right recovery path.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureValidation FailureKind = "validation"
	FailureLookup     FailureKind = "lookup"
	FailureStore      FailureKind = "store"
)

// Result is the outcome of executing one command.
type Result struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Data        interface{} `json:"data,omitempty"`
	DisplayType DisplayType `json:"displayType"`
	Failure     FailureKind `json:"-"`
}

// Executor routes commands to store operations.
type Executor struct {
	store store.DataAccess
	now   func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithClock overrides the reference time used for timeframe filters.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// New builds an Executor over the given store.
func New(s store.DataAccess, opts ...Option) *Executor {
	e := &Executor{store: s, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one command. All failures come back as a Result, never as an
// error: the voice UI always has something to say.
func (e *Executor) Execute(ctx context.Context, cmd command.ParsedCommand) Result {
	timer := logging.StartTimer(logging.CategoryExecutor, string(cmd.Action))
	defer timer.Stop()
	logging.Executor("executing %s", cmd.Action)

	if err := command.Validate(cmd.Action, cmd.Params); err != nil {
		logging.ExecutorError("validation failed for %s: %v", cmd.Action, err)
		return Result{
			Message:     fmt.Sprintf("I can't run that yet: %v.", err),
			DisplayType: DisplayError,
			Failure:     FailureValidation,
		}
	}

	switch cmd.Action {
	case command.ActionCreateTask:
		return e.createTask(ctx, cmd.Params)
	case command.ActionShowTasks:
		return e.showTasks(ctx, cmd.Params)
	case command.ActionMarkTaskDone:
		return e.markTaskDone(ctx, cmd.Params)
	case command.ActionDeleteTask:
		return e.deleteTask(ctx, cmd.Params)
	case command.ActionUpdateTaskPriority:
		return e.updateTaskPriority(ctx, cmd.Params)
	case command.ActionCreateCourse:
		return e.createCourse(ctx, cmd.Params)
	case command.ActionShowCourses:
		return e.showCourses(ctx)
	case command.ActionMarkVideoWatched:
		return e.markVideoWatched(ctx, cmd.Params)
	case command.ActionCreateReading:
		return e.createReading(ctx, cmd.Params)
	case command.ActionShowReading:
		return e.showReading(ctx)
	case command.ActionMarkReadingRead:
		return e.markReadingRead(ctx, cmd.Params)
	case command.ActionCreateGoal:
		return e.createGoal(ctx, cmd.Params)
	case command.ActionUpdateGoalProgress:
		return e.updateGoalProgress(ctx, cmd.Params)
	case command.ActionShowGoals:
		return e.showGoals(ctx)
	case command.ActionShowDashboardSummary:
		return e.showDashboardSummary(ctx)
	case command.ActionShowStats:
		return e.showStats(ctx)
	}
	return Result{
		Message:     fmt.Sprintf("I don't know how to %s.", cmd.Action),
		DisplayType: DisplayError,
		Failure:     FailureValidation,
	}
}

func storeFailure(op string, err error) Result {
	logging.ExecutorError("%s: %v", op, err)
	return Result{
		Message:     fmt.Sprintf("Something went wrong while trying to %s.", op),
		DisplayType: DisplayError,
		Failure:     FailureStore,
	}
}

func lookupFailure(kind, spoken string) Result {
	return Result{
		Message:     fmt.Sprintf("I couldn't find a %s matching %q.", kind, spoken),
		DisplayType: DisplayError,
		Failure:     FailureLookup,
	}
}

// Tasks

func (e *Executor) createTask(ctx context.Context, p command.Params) Result {
	task, err := e.store.CreateTask(ctx, newTask(p, e.now()))
	if err != nil {
		return storeFailure("create the task", err)
	}
	msg := fmt.Sprintf("Created task %q", task.Title)
	if task.Deadline != "" {
		msg += " due " + task.Deadline
	}
	return Result{Success: true, Message: msg + ".", Data: task, DisplayType: DisplayConfirmation}
}

func (e *Executor) showTasks(ctx context.Context, p command.Params) Result {
	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return storeFailure("load your tasks", err)
	}
	filtered := e.filterTasks(tasks, p)
	store.SortTasksByDeadline(filtered)

	label := "tasks"
	switch {
	case p.Filter == "overdue":
		label = "overdue tasks"
	case p.Timeframe != "":
		label = "tasks " + p.Timeframe
	}
	if len(filtered) == 0 {
		return Result{Success: true, Message: "You have no " + label + ".", Data: filtered, DisplayType: DisplayList}
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("You have %d %s.", len(filtered), label),
		Data:        filtered,
		DisplayType: DisplayList,
	}
}

func (e *Executor) filterTasks(tasks []model.Task, p command.Params) []model.Task {
	today := e.now().Format("2006-01-02")
	tomorrow := e.now().AddDate(0, 0, 1).Format("2006-01-02")
	weekEnd := e.now().AddDate(0, 0, 7).Format("2006-01-02")

	var out []model.Task
	for _, t := range tasks {
		if t.Status == model.TaskStatusDone {
			continue
		}
		switch {
		case p.Filter == "overdue":
			if t.Deadline == "" || t.Deadline >= today {
				continue
			}
		case p.Timeframe == "today":
			if t.Deadline != today {
				continue
			}
		case p.Timeframe == "tomorrow":
			if t.Deadline != tomorrow {
				continue
			}
		case p.Timeframe == "this week":
			if t.Deadline == "" || t.Deadline < today || t.Deadline > weekEnd {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (e *Executor) findTask(ctx context.Context, spoken string) (model.Task, Result, bool) {
	tasks, err := e.store.ListTasks(ctx)
	if err != nil {
		return model.Task{}, storeFailure("load your tasks", err), false
	}
	task, ok := firstMatch(tasks, spoken, func(t model.Task) string { return t.Title })
	if !ok {
		return model.Task{}, lookupFailure("task", spoken), false
	}
	return task, Result{}, true
}

func (e *Executor) markTaskDone(ctx context.Context, p command.Params) Result {
	task, fail, ok := e.findTask(ctx, p.AnyTitle())
	if !ok {
		return fail
	}
	done := model.TaskStatusDone
	updated, err := e.store.UpdateTask(ctx, task.ID, store.TaskPatch{Status: &done})
	if err != nil {
		return storeFailure("update the task", err)
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Marked %q as done.", updated.Title),
		Data:        updated,
		DisplayType: DisplayConfirmation,
	}
}

func (e *Executor) deleteTask(ctx context.Context, p command.Params) Result {
	task, fail, ok := e.findTask(ctx, p.AnyTitle())
	if !ok {
		return fail
	}
	if err := e.store.DeleteTask(ctx, task.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return lookupFailure("task", p.AnyTitle())
		}
		return storeFailure("delete the task", err)
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Deleted task %q.", task.Title),
		Data:        task,
		DisplayType: DisplayConfirmation,
	}
}

func (e *Executor) updateTaskPriority(ctx context.Context, p command.Params) Result {
	task, fail, ok := e.findTask(ctx, p.AnyTitle())
	if !ok {
		return fail
	}
	priority := p.Priority
	updated, err := e.store.UpdateTask(ctx, task.ID, store.TaskPatch{Priority: &priority})
	if err != nil {
		return storeFailure("update the task", err)
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Set %q to %s priority.", updated.Title, updated.Priority),
		Data:        updated,
		DisplayType: DisplayConfirmation,
	}
}

// Courses

func (e *Executor) createCourse(ctx context.Context, p command.Params) Result {
	course, err := e.store.CreateCourse(ctx, newCourse(p))
	if err != nil {
		return storeFailure("create the course", err)
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Added course %q on %s.", course.Name, course.Platform),
		Data:        course,
		DisplayType: DisplayConfirmation,
	}
}

func (e *Executor) showCourses(ctx context.Context) Result {
	courses, err := e.store.ListCourses(ctx)
	if err != nil {
		return storeFailure("load your courses", err)
	}
	if len(courses) == 0 {
		return Result{Success: true, Message: "You have no courses yet.", Data: courses, DisplayType: DisplayList}
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("You have %d courses.", len(courses)),
		Data:        courses,
		DisplayType: DisplayList,
	}
}

func (e *Executor) markVideoWatched(ctx context.Context, p command.Params) Result {
	courses, err := e.store.ListCourses(ctx)
	if err != nil {
		return storeFailure("load your courses", err)
	}
	spoken := p.CourseName
	if spoken == "" {
		spoken = p.AnyTitle()
	}
	course, ok := firstMatch(courses, spoken, func(c model.Course) string { return c.Name })
	if !ok {
		return lookupFailure("course", spoken)
	}

	lesson, err := e.store.CompleteLesson(ctx, course.ID, *p.VideoNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{
				Message:     fmt.Sprintf("Course %q has no video %d.", course.Name, *p.VideoNumber),
				DisplayType: DisplayError,
				Failure:     FailureLookup,
			}
		}
		return storeFailure("update the course", err)
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Marked video %d watched in %q.", *p.VideoNumber, course.Name),
		Data:        lesson,
		DisplayType: DisplayConfirmation,
	}
}

// Reading

func (e *Executor) createReading(ctx context.Context, p command.Params) Result {
	item, err := e.store.CreateReading(ctx, newReadingItem(p))
	if err != nil {
		return storeFailure("save the reading item", err)
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Added %q to your reading list.", item.Title),
		Data:        item,
		DisplayType: DisplayConfirmation,
	}
}

func (e *Executor) showReading(ctx context.Context) Result {
	items, err := e.store.ListReading(ctx)
	if err != nil {
		return storeFailure("load your reading list", err)
	}
	if len(items) == 0 {
		return Result{Success: true, Message: "Your reading list is empty.", Data: items, DisplayType: DisplayList}
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("You have %d items on your reading list.", len(items)),
		Data:        items,
		DisplayType: DisplayList,
	}
}

func (e *Executor) markReadingRead(ctx context.Context, p command.Params) Result {
	items, err := e.store.ListReading(ctx)
	if err != nil {
		return storeFailure("load your reading list", err)
	}
	item, ok := firstMatch(items, p.AnyTitle(), func(r model.ReadingItem) string { return r.Title })
	if !ok {
		return lookupFailure("reading item", p.AnyTitle())
	}
	read := model.ReadingStatusRead
	updated, err := e.store.UpdateReading(ctx, item.ID, store.ReadingPatch{Status: &read})
	if err != nil {
		return storeFailure("update the reading item", err)
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Marked %q as read.", updated.Title),
		Data:        updated,
		DisplayType: DisplayConfirmation,
	}
}

// Goals

func (e *Executor) createGoal(ctx context.Context, p command.Params) Result {
	goal, err := e.store.CreateGoal(ctx, newGoal(p))
	if err != nil {
		return storeFailure("create the goal", err)
	}
	msg := fmt.Sprintf("Created goal %q", goal.Title)
	if goal.TargetDate != "" {
		msg += " targeting " + goal.TargetDate
	}
	return Result{Success: true, Message: msg + ".", Data: goal, DisplayType: DisplayConfirmation}
}

func (e *Executor) updateGoalProgress(ctx context.Context, p command.Params) Result {
	goals, err := e.store.ListGoals(ctx)
	if err != nil {
		return storeFailure("load your goals", err)
	}
	goal, ok := firstMatch(goals, p.AnyTitle(), func(g model.Goal) string { return g.Title })
	if !ok {
		return lookupFailure("goal", p.AnyTitle())
	}

	progress := *p.Progress
	patch := store.GoalPatch{Progress: &progress}
	if progress >= 100 {
		completed := model.GoalStatusCompleted
		patch.Status = &completed
	}
	updated, err := e.store.UpdateGoal(ctx, goal.ID, patch)
	if err != nil {
		return storeFailure("update the goal", err)
	}
	msg := fmt.Sprintf("Updated %q to %d%%.", updated.Title, updated.Progress)
	if updated.Status == model.GoalStatusCompleted {
		msg = fmt.Sprintf("Goal %q completed. Nice work!", updated.Title)
	}
	return Result{Success: true, Message: msg, Data: updated, DisplayType: DisplayConfirmation}
}

func (e *Executor) showGoals(ctx context.Context) Result {
	goals, err := e.store.ListGoals(ctx)
	if err != nil {
		return storeFailure("load your goals", err)
	}
	if len(goals) == 0 {
		return Result{Success: true, Message: "You have no goals yet.", Data: goals, DisplayType: DisplayList}
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("You have %d goals.", len(goals)),
		Data:        goals,
		DisplayType: DisplayList,
	}
}

// Stats

func (e *Executor) showDashboardSummary(ctx context.Context) Result {
	stats, err := e.store.DashboardStats(ctx)
	if err != nil {
		return storeFailure("load your dashboard", err)
	}
	var parts []string
	if stats.TasksToday > 0 {
		parts = append(parts, fmt.Sprintf("%d tasks due today", stats.TasksToday))
	}
	parts = append(parts, fmt.Sprintf("%d open tasks", stats.TasksTotal))
	if stats.ActiveCourses > 0 {
		parts = append(parts, fmt.Sprintf("%d active courses", stats.ActiveCourses))
	}
	if stats.ReadingItems > 0 {
		parts = append(parts, fmt.Sprintf("%d reading items", stats.ReadingItems))
	}
	return Result{
		Success:     true,
		Message:     "On your plate: " + strings.Join(parts, ", ") + ".",
		Data:        stats,
		DisplayType: DisplayStats,
	}
}

func (e *Executor) showStats(ctx context.Context) Result {
	stats, err := e.store.DashboardStats(ctx)
	if err != nil {
		return storeFailure("load your stats", err)
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Productivity score %d. %d tasks completed this week, study streak %d days.",
			stats.ProductivityScore, stats.CompletedThisWeek, stats.StudyStreak),
		Data:        stats,
		DisplayType: DisplayStats,
	}
}
