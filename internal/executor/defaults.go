package executor

import (
	"net/url"
	"strings"
	"time"

	"taskpilot/internal/command"
	"taskpilot/internal/dateparse"
	"taskpilot/internal/model"
)

// Entity construction defaults live here so every creation path fills the
// same blanks the same way.

func newTask(p command.Params, now time.Time) model.Task {
	priority := p.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	category := p.Category
	if category == "" {
		category = "Work"
	}
	deadline := p.Deadline
	if deadline == "" {
		deadline = dateparse.FormatAPIDate(now)
	}
	return model.Task{
		Title:       p.AnyTitle(),
		Description: p.Description,
		Priority:    priority,
		Status:      model.TaskStatusTodo,
		Deadline:    deadline,
		Category:    category,
	}
}

func newCourse(p command.Params) model.Course {
	name := p.Name
	if name == "" {
		name = p.Title
	}
	return model.Course{
		Name:       name,
		Platform:   platformFromURL(p.URL),
		Progress:   0,
		Status:     model.CourseStatusNotStarted,
		YouTubeURL: p.URL,
	}
}

func newReadingItem(p command.Params) model.ReadingItem {
	title := p.AnyTitle()
	if title == "" {
		title = p.URL
	}
	priority := p.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	return model.ReadingItem{
		Title:     title,
		Source:    hostOf(p.URL),
		SourceURL: p.URL,
		Category:  "technical",
		Priority:  priority,
		Status:    model.ReadingStatusToRead,
	}
}

func newGoal(p command.Params) model.Goal {
	timeframe := p.Timeframe
	if timeframe == "" {
		timeframe = "long_term"
	}
	return model.Goal{
		Title:       p.AnyTitle(),
		Description: p.Description,
		Progress:    0,
		Status:      model.GoalStatusActive,
		Timeframe:   timeframe,
		TargetDate:  p.TargetDate,
	}
}

// platformFromURL guesses the course platform from its link host.
func platformFromURL(raw string) string {
	host := hostOf(raw)
	switch {
	case host == "":
		return "Other"
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return "YouTube"
	case strings.Contains(host, "udemy.com"):
		return "Udemy"
	case strings.Contains(host, "coursera.org"):
		return "Coursera"
	default:
		return "Other"
	}
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
