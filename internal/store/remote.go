package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskpilot/internal/logging"
	"taskpilot/internal/model"
)

// RemoteStore implements DataAccess against the productivity app's HTTP API.
// Endpoints follow the app's REST conventions: collection routes for list
// and create, id routes for update and delete.
type RemoteStore struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteStore creates a store talking to the API at baseURL.
func NewRemoteStore(baseURL string) *RemoteStore {
	return &RemoteStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *RemoteStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.StoreDebug("remote %s %s", method, path)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Tasks

func (s *RemoteStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *RemoteStore) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	var created model.Task
	if err := s.do(ctx, http.MethodPost, "/api/tasks", t, &created); err != nil {
		return model.Task{}, err
	}
	return created, nil
}

func (s *RemoteStore) UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	body := map[string]interface{}{}
	putIf(body, "title", patch.Title)
	putIf(body, "description", patch.Description)
	putIf(body, "priority", patch.Priority)
	putIf(body, "status", patch.Status)
	putIf(body, "deadline", patch.Deadline)
	putIf(body, "category", patch.Category)

	var updated model.Task
	if err := s.do(ctx, http.MethodPatch, "/api/tasks/"+id, body, &updated); err != nil {
		return model.Task{}, err
	}
	return updated, nil
}

func (s *RemoteStore) DeleteTask(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

// Courses

func (s *RemoteStore) ListCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := s.do(ctx, http.MethodGet, "/api/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *RemoteStore) CreateCourse(ctx context.Context, c model.Course) (model.Course, error) {
	var created model.Course
	if err := s.do(ctx, http.MethodPost, "/api/courses", c, &created); err != nil {
		return model.Course{}, err
	}
	return created, nil
}

func (s *RemoteStore) UpdateCourse(ctx context.Context, id string, patch CoursePatch) (model.Course, error) {
	body := map[string]interface{}{}
	putIf(body, "status", patch.Status)
	if patch.Progress != nil {
		body["progress"] = *patch.Progress
	}
	if patch.CompletedLessons != nil {
		body["completedLessonsCount"] = *patch.CompletedLessons
	}

	var updated model.Course
	if err := s.do(ctx, http.MethodPatch, "/api/courses/"+id, body, &updated); err != nil {
		return model.Course{}, err
	}
	return updated, nil
}

func (s *RemoteStore) ListLessons(ctx context.Context, courseID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := s.do(ctx, http.MethodGet, "/api/courses/"+courseID+"/lessons", nil, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (s *RemoteStore) CompleteLesson(ctx context.Context, courseID string, orderIndex int) (model.Lesson, error) {
	lessons, err := s.ListLessons(ctx, courseID)
	if err != nil {
		return model.Lesson{}, err
	}
	for _, l := range lessons {
		if l.OrderIndex == orderIndex {
			var updated model.Lesson
			body := map[string]interface{}{"isCompleted": true}
			if err := s.do(ctx, http.MethodPatch, "/api/lessons/"+l.ID, body, &updated); err != nil {
				return model.Lesson{}, err
			}
			return updated, nil
		}
	}
	return model.Lesson{}, ErrNotFound
}

// Reading

func (s *RemoteStore) ListReading(ctx context.Context) ([]model.ReadingItem, error) {
	var items []model.ReadingItem
	if err := s.do(ctx, http.MethodGet, "/api/reading", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RemoteStore) CreateReading(ctx context.Context, r model.ReadingItem) (model.ReadingItem, error) {
	var created model.ReadingItem
	if err := s.do(ctx, http.MethodPost, "/api/reading", r, &created); err != nil {
		return model.ReadingItem{}, err
	}
	return created, nil
}

func (s *RemoteStore) UpdateReading(ctx context.Context, id string, patch ReadingPatch) (model.ReadingItem, error) {
	body := map[string]interface{}{}
	putIf(body, "status", patch.Status)
	putIf(body, "priority", patch.Priority)

	var updated model.ReadingItem
	if err := s.do(ctx, http.MethodPatch, "/api/reading/"+id, body, &updated); err != nil {
		return model.ReadingItem{}, err
	}
	return updated, nil
}

// Goals

func (s *RemoteStore) ListGoals(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	if err := s.do(ctx, http.MethodGet, "/api/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (s *RemoteStore) CreateGoal(ctx context.Context, g model.Goal) (model.Goal, error) {
	var created model.Goal
	if err := s.do(ctx, http.MethodPost, "/api/goals", g, &created); err != nil {
		return model.Goal{}, err
	}
	return created, nil
}

func (s *RemoteStore) UpdateGoal(ctx context.Context, id string, patch GoalPatch) (model.Goal, error) {
	body := map[string]interface{}{}
	putIf(body, "status", patch.Status)
	if patch.Progress != nil {
		body["progress"] = *patch.Progress
	}

	var updated model.Goal
	if err := s.do(ctx, http.MethodPatch, "/api/goals/"+id, body, &updated); err != nil {
		return model.Goal{}, err
	}
	return updated, nil
}

// Stats

func (s *RemoteStore) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := s.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &stats); err != nil {
		return model.DashboardStats{}, err
	}
	return stats, nil
}

func putIf(body map[string]interface{}, key string, v *string) {
	if v != nil {
		body[key] = *v
	}
}
