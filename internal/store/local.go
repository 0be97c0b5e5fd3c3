package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"taskpilot/internal/logging"
	"taskpilot/internal/model"
)

// LocalStore implements DataAccess on an embedded SQLite database.
type LocalStore struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) LocalOption {
	return func(s *LocalStore) { s.now = now }
}

// NewLocalStore initializes the SQLite database at the given path.
func NewLocalStore(path string, opts ...LocalOption) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	logging.Store("Initializing LocalStore at path: %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logging.StoreDebug("Failed to enable foreign_keys: %v", err)
	}

	s := &LocalStore{db: db, dbPath: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logging.StoreDebug("LocalStore ready")
	return s, nil
}

// Close releases the database connection.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'todo',
		deadline TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		project TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		platform TEXT NOT NULL DEFAULT '',
		progress INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'not_started',
		youtube_url TEXT NOT NULL DEFAULT '',
		total_lessons INTEGER NOT NULL DEFAULT 0,
		completed_lessons INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS lessons (
		id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		title TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL,
		is_completed INTEGER NOT NULL DEFAULT 0,
		completed_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_lessons_course ON lessons(course_id, order_index);
	CREATE TABLE IF NOT EXISTS reading_items (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		source_url TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'technical',
		priority TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'to_read',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		progress INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		timeframe TEXT NOT NULL DEFAULT '',
		target_date TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Tasks

func (s *LocalStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, priority, status, deadline, category, project, created_at, updated_at
		FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status,
			&t.Deadline, &t.Category, &t.Project, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *LocalStore) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, priority, status, deadline, category, project, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Priority, t.Status, t.Deadline, t.Category, t.Project, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	logging.StoreDebug("created task %s %q", t.ID, t.Title)
	return t, nil
}

func (s *LocalStore) UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{s.now()}
	apply := func(col string, v interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Title != nil {
		apply("title", *patch.Title)
	}
	if patch.Description != nil {
		apply("description", *patch.Description)
	}
	if patch.Priority != nil {
		apply("priority", *patch.Priority)
	}
	if patch.Status != nil {
		apply("status", *patch.Status)
	}
	if patch.Deadline != nil {
		apply("deadline", *patch.Deadline)
	}
	if patch.Category != nil {
		apply("category", *patch.Category)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Task{}, ErrNotFound
	}
	return s.getTask(ctx, id)
}

func (s *LocalStore) getTask(ctx context.Context, id string) (model.Task, error) {
	var t model.Task
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, priority, status, deadline, category, project, created_at, updated_at
		FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status,
			&t.Deadline, &t.Category, &t.Project, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *LocalStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Courses

func (s *LocalStore) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, platform, progress, status, youtube_url, total_lessons, completed_lessons, created_at, updated_at
		FROM courses ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Platform, &c.Progress, &c.Status,
			&c.YouTubeURL, &c.TotalLessons, &c.CompletedLessons, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *LocalStore) CreateCourse(ctx context.Context, c model.Course) (model.Course, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, name, platform, progress, status, youtube_url, total_lessons, completed_lessons, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Platform, c.Progress, c.Status, c.YouTubeURL, c.TotalLessons, c.CompletedLessons, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return model.Course{}, fmt.Errorf("create course: %w", err)
	}
	logging.StoreDebug("created course %s %q", c.ID, c.Name)
	return c, nil
}

func (s *LocalStore) UpdateCourse(ctx context.Context, id string, patch CoursePatch) (model.Course, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{s.now()}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Progress != nil {
		sets = append(sets, "progress = ?")
		args = append(args, *patch.Progress)
	}
	if patch.CompletedLessons != nil {
		sets = append(sets, "completed_lessons = ?")
		args = append(args, *patch.CompletedLessons)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE courses SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return model.Course{}, fmt.Errorf("update course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Course{}, ErrNotFound
	}
	return s.getCourse(ctx, id)
}

func (s *LocalStore) getCourse(ctx context.Context, id string) (model.Course, error) {
	var c model.Course
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, platform, progress, status, youtube_url, total_lessons, completed_lessons, created_at, updated_at
		FROM courses WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Platform, &c.Progress, &c.Status,
			&c.YouTubeURL, &c.TotalLessons, &c.CompletedLessons, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Course{}, ErrNotFound
	}
	if err != nil {
		return model.Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// AddLesson appends a lesson to a course and bumps its total count.
// Used when importing a playlist.
func (s *LocalStore) AddLesson(ctx context.Context, courseID, title string, orderIndex int) (model.Lesson, error) {
	l := model.Lesson{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		Title:      title,
		OrderIndex: orderIndex,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lessons (id, course_id, title, order_index, is_completed) VALUES (?, ?, ?, ?, 0)`,
		l.ID, l.CourseID, l.Title, l.OrderIndex)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("add lesson: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"UPDATE courses SET total_lessons = total_lessons + 1, updated_at = ? WHERE id = ?", s.now(), courseID)
	if err != nil {
		return model.Lesson{}, fmt.Errorf("bump lesson count: %w", err)
	}
	return l, nil
}

func (s *LocalStore) ListLessons(ctx context.Context, courseID string) ([]model.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, title, order_index, is_completed, completed_at
		FROM lessons WHERE course_id = ? ORDER BY order_index`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		var l model.Lesson
		var completed sql.NullTime
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.OrderIndex, &l.IsCompleted, &completed); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		if completed.Valid {
			l.CompletedAt = completed.Time
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// CompleteLesson marks lesson number orderIndex watched and recomputes the
// course's progress and status. Already-watched lessons are a no-op, which
// keeps repeated voice commands harmless.
func (s *LocalStore) CompleteLesson(ctx context.Context, courseID string, orderIndex int) (model.Lesson, error) {
	var l model.Lesson
	var completed sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, course_id, title, order_index, is_completed, completed_at
		FROM lessons WHERE course_id = ? AND order_index = ?`, courseID, orderIndex).
		Scan(&l.ID, &l.CourseID, &l.Title, &l.OrderIndex, &l.IsCompleted, &completed)
	if err == sql.ErrNoRows {
		return model.Lesson{}, ErrNotFound
	}
	if err != nil {
		return model.Lesson{}, fmt.Errorf("get lesson: %w", err)
	}

	if !l.IsCompleted {
		now := s.now()
		if _, err := s.db.ExecContext(ctx,
			"UPDATE lessons SET is_completed = 1, completed_at = ? WHERE id = ?", now, l.ID); err != nil {
			return model.Lesson{}, fmt.Errorf("complete lesson: %w", err)
		}
		l.IsCompleted = true
		l.CompletedAt = now
		if err := s.recomputeCourseProgress(ctx, courseID); err != nil {
			return model.Lesson{}, err
		}
	}
	return l, nil
}

func (s *LocalStore) recomputeCourseProgress(ctx context.Context, courseID string) error {
	var total, done int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(is_completed), 0) FROM lessons WHERE course_id = ?`, courseID).
		Scan(&total, &done)
	if err != nil {
		return fmt.Errorf("count lessons: %w", err)
	}

	progress := 0
	if total > 0 {
		progress = done * 100 / total
	}
	status := model.CourseStatusInProgress
	switch {
	case done == 0:
		status = model.CourseStatusNotStarted
	case total > 0 && done == total:
		status = model.CourseStatusCompleted
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE courses SET progress = ?, completed_lessons = ?, status = ?, updated_at = ? WHERE id = ?`,
		progress, done, status, s.now(), courseID)
	if err != nil {
		return fmt.Errorf("recompute progress: %w", err)
	}
	return nil
}

// Reading

func (s *LocalStore) ListReading(ctx context.Context) ([]model.ReadingItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, source, source_url, category, priority, status, created_at, updated_at
		FROM reading_items ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list reading: %w", err)
	}
	defer rows.Close()

	var items []model.ReadingItem
	for rows.Next() {
		var r model.ReadingItem
		if err := rows.Scan(&r.ID, &r.Title, &r.Source, &r.SourceURL, &r.Category,
			&r.Priority, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reading item: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (s *LocalStore) CreateReading(ctx context.Context, r model.ReadingItem) (model.ReadingItem, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_items (id, title, source, source_url, category, priority, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Source, r.SourceURL, r.Category, r.Priority, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return model.ReadingItem{}, fmt.Errorf("create reading item: %w", err)
	}
	return r, nil
}

func (s *LocalStore) UpdateReading(ctx context.Context, id string, patch ReadingPatch) (model.ReadingItem, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{s.now()}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *patch.Priority)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE reading_items SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return model.ReadingItem{}, fmt.Errorf("update reading item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ReadingItem{}, ErrNotFound
	}

	var r model.ReadingItem
	err = s.db.QueryRowContext(ctx, `
		SELECT id, title, source, source_url, category, priority, status, created_at, updated_at
		FROM reading_items WHERE id = ?`, id).
		Scan(&r.ID, &r.Title, &r.Source, &r.SourceURL, &r.Category,
			&r.Priority, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return model.ReadingItem{}, fmt.Errorf("get reading item: %w", err)
	}
	return r, nil
}

// Goals

func (s *LocalStore) ListGoals(ctx context.Context) ([]model.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, progress, status, timeframe, target_date, created_at, updated_at
		FROM goals ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		var g model.Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.Progress, &g.Status,
			&g.Timeframe, &g.TargetDate, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *LocalStore) CreateGoal(ctx context.Context, g model.Goal) (model.Goal, error) {
	g.ID = uuid.NewString()
	g.CreatedAt = s.now()
	g.UpdatedAt = g.CreatedAt
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, title, description, progress, status, timeframe, target_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.Description, g.Progress, g.Status, g.Timeframe, g.TargetDate, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return model.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

func (s *LocalStore) UpdateGoal(ctx context.Context, id string, patch GoalPatch) (model.Goal, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{s.now()}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Progress != nil {
		sets = append(sets, "progress = ?")
		args = append(args, *patch.Progress)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE goals SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return model.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Goal{}, ErrNotFound
	}

	var g model.Goal
	err = s.db.QueryRowContext(ctx, `
		SELECT id, title, description, progress, status, timeframe, target_date, created_at, updated_at
		FROM goals WHERE id = ?`, id).
		Scan(&g.ID, &g.Title, &g.Description, &g.Progress, &g.Status,
			&g.Timeframe, &g.TargetDate, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return model.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// Stats

// DashboardStats aggregates the numbers behind "what's on my plate" and
// "show my stats".
func (s *LocalStore) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	now := s.now()
	today := now.Format("2006-01-02")
	weekAgo := now.AddDate(0, 0, -7)

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE status != 'done' AND deadline = ?", today).
		Scan(&stats.TasksToday)
	if err != nil {
		return stats, fmt.Errorf("stats tasks today: %w", err)
	}
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE status != 'done'").
		Scan(&stats.TasksTotal)
	if err != nil {
		return stats, fmt.Errorf("stats tasks total: %w", err)
	}
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses WHERE status = 'in_progress'").
		Scan(&stats.ActiveCourses)
	if err != nil {
		return stats, fmt.Errorf("stats active courses: %w", err)
	}
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reading_items WHERE status != 'read'").
		Scan(&stats.ReadingItems)
	if err != nil {
		return stats, fmt.Errorf("stats reading items: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		"SELECT CAST(COALESCE(AVG(progress), 0) AS INTEGER) FROM goals WHERE status = 'active'").
		Scan(&stats.GoalsProgress)
	if err != nil {
		return stats, fmt.Errorf("stats goals progress: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE status = 'done' AND updated_at >= ?", weekAgo).
		Scan(&stats.CompletedThisWeek)
	if err != nil {
		return stats, fmt.Errorf("stats completed this week: %w", err)
	}

	streak, err := s.studyStreak(ctx, now)
	if err != nil {
		return stats, err
	}
	stats.StudyStreak = streak

	stats.ProductivityScore = productivityScore(stats)
	return stats, nil
}

// studyStreak counts consecutive days ending today with at least one
// completed lesson.
func (s *LocalStore) studyStreak(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT date(completed_at) FROM lessons
		WHERE is_completed = 1 AND completed_at IS NOT NULL
		ORDER BY date(completed_at) DESC`)
	if err != nil {
		return 0, fmt.Errorf("stats streak: %w", err)
	}
	defer rows.Close()

	days := make(map[string]bool)
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return 0, fmt.Errorf("scan streak day: %w", err)
		}
		days[day] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	streak := 0
	for d := now; days[d.Format("2006-01-02")]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak, nil
}

// productivityScore folds the weekly numbers into a single 0-100 figure:
// completions weigh double, goal progress fills the rest.
func productivityScore(stats model.DashboardStats) int {
	score := stats.CompletedThisWeek*10 + stats.GoalsProgress/2
	if score > 100 {
		score = 100
	}
	return score
}

// SortTasksByDeadline orders tasks with the nearest deadline first; tasks
// without a deadline sink to the end. Used by list rendering.
func SortTasksByDeadline(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := tasks[i].Deadline, tasks[j].Deadline
		if di == "" {
			return false
		}
		if dj == "" {
			return true
		}
		return di < dj
	})
}
