// Package pattern is the fallback command parser: an ordered catalog of
// regular-expression templates with named slots, matched against the
// normalized transcript when the semantic path is unavailable or unsure.
package pattern

import (
	"regexp"
	"sort"

	"taskpilot/internal/command"
)

// FallbackConfidence is the fixed score assigned to every pattern match,
// deliberately below the semantic path's typical range.
const FallbackConfidence = 75

// Pattern is one command template. Slot names are declared as named capture
// groups in the regex; everything structural is non-capturing so the group
// count equals the slot count.
type Pattern struct {
	Regex    *regexp.Regexp
	Action   command.Action
	Entity   command.Entity
	Examples []string
}

func mustPattern(expr string, action command.Action, entity command.Entity, examples ...string) Pattern {
	return Pattern{
		Regex:    regexp.MustCompile(`(?i)` + expr),
		Action:   action,
		Entity:   entity,
		Examples: examples,
	}
}

// catalog is declared in rough entity order; the matcher re-sorts it by
// specificity before use.
var catalog = []Pattern{
	// Tasks
	mustPattern(`(?:create|add|new) task (?P<title>.+?) due (?P<deadline>.+?) priority (?P<priority>high|medium|low)`,
		command.ActionCreateTask, command.EntityTask,
		"create task Review Report due tomorrow priority high"),
	mustPattern(`(?:create|add|new) task (?P<title>.+?) due (?P<deadline>.+?) (?P<priority>high|medium|low) priority`,
		command.ActionCreateTask, command.EntityTask,
		"create task Review Report due tomorrow high priority"),
	mustPattern(`(?:create|add|new) task (?P<title>.+?) due (?P<deadline>.+?) description (?P<description>.+)`,
		command.ActionCreateTask, command.EntityTask,
		"add task Submit Proposal due feb 24 description send to management"),
	mustPattern(`(?:create|add|new) task (?P<title>.+?) due (?P<deadline>.+)`,
		command.ActionCreateTask, command.EntityTask,
		"create task Review Report due tomorrow"),
	mustPattern(`(?:create|add|new) task (?P<title>.+?) priority (?P<priority>high|medium|low)`,
		command.ActionCreateTask, command.EntityTask,
		"add task Call Client priority high"),
	mustPattern(`(?:create|add|new) task (?P<title>.+?) description (?P<description>.+)`,
		command.ActionCreateTask, command.EntityTask,
		"create task Review Report description check q4 numbers"),
	mustPattern(`(?:create|add|new) task (?P<title>.+)`,
		command.ActionCreateTask, command.EntityTask,
		"create task Review Report", "add task Call Client"),
	mustPattern(`(?:show|list|display) tasks (?P<timeframe>today|tomorrow)`,
		command.ActionShowTasks, command.EntityTask,
		"show tasks today", "list tasks tomorrow"),
	mustPattern(`(?:show|list|display) (?P<filter>overdue|late) tasks`,
		command.ActionShowTasks, command.EntityTask,
		"show overdue tasks", "list late tasks"),
	mustPattern(`(?:show|list|display) (?:all )?tasks`,
		command.ActionShowTasks, command.EntityTask,
		"show all tasks", "list tasks"),
	mustPattern(`what tasks .* (?P<timeframe>today|tomorrow|this week)`,
		command.ActionShowTasks, command.EntityTask,
		"what tasks do i have today"),
	mustPattern(`mark (?P<title>.+?) (?:as )?(?:done|complete|finished)`,
		command.ActionMarkTaskDone, command.EntityTask,
		"mark Review Report as done", "mark Call Client complete"),
	mustPattern(`complete task (?P<title>.+)`,
		command.ActionMarkTaskDone, command.EntityTask,
		"complete task Review Report"),
	mustPattern(`(?:delete|remove) task (?P<title>.+)`,
		command.ActionDeleteTask, command.EntityTask,
		"delete task Review Report"),
	mustPattern(`change (?P<title>.+?) to (?P<priority>high|medium|low) priority`,
		command.ActionUpdateTaskPriority, command.EntityTask,
		"change Review Report to high priority"),

	// Courses
	mustPattern(`(?:add|create) course (?P<name>.+?) from (?P<url>https?://\S+)`,
		command.ActionCreateCourse, command.EntityCourse,
		"add course JavaScript from https://youtube.com/playlist?list=abc"),
	mustPattern(`(?:add|create) course (?P<name>.+)`,
		command.ActionCreateCourse, command.EntityCourse,
		"create course JavaScript Basics"),
	mustPattern(`(?:show|list|display) (?:my )?courses`,
		command.ActionShowCourses, command.EntityCourse,
		"show courses", "list my courses"),
	mustPattern(`mark video (?P<videoNumber>\d+) (?:watched|complete) in (?P<courseName>.+)`,
		command.ActionMarkVideoWatched, command.EntityCourse,
		"mark video 5 watched in JavaScript Course"),

	// Reading
	mustPattern(`(?:add|save) reading (?P<title>.+)`,
		command.ActionCreateReading, command.EntityReading,
		"add reading Clean Code Principles"),
	mustPattern(`(?:add|save) article (?P<url>https?://\S+)`,
		command.ActionCreateReading, command.EntityReading,
		"save article https://example.com/article"),
	mustPattern(`(?:show|list|display) (?:my )?(?:reading|articles|books)`,
		command.ActionShowReading, command.EntityReading,
		"show reading", "list articles"),
	mustPattern(`mark (?P<title>.+?) as read`,
		command.ActionMarkReadingRead, command.EntityReading,
		"mark Clean Code as read"),

	// Goals
	mustPattern(`create goal (?P<title>.+?) by (?P<targetDate>.+)`,
		command.ActionCreateGoal, command.EntityGoal,
		"create goal Learn React by march 31"),
	mustPattern(`create goal (?P<title>.+)`,
		command.ActionCreateGoal, command.EntityGoal,
		"create goal Read 12 Books"),
	mustPattern(`(?:update|set) goal (?P<title>.+?) to (?P<progress>\d+) ?(?:percent|%)?`,
		command.ActionUpdateGoalProgress, command.EntityGoal,
		"update goal Learn React to 75 percent"),
	mustPattern(`(?:show|list|display) (?:my )?goals`,
		command.ActionShowGoals, command.EntityGoal,
		"show goals", "list my goals"),

	// General
	mustPattern(`(?:what'?s|whats) on my plate`,
		command.ActionShowDashboardSummary, command.EntityGeneral,
		"what's on my plate"),
	mustPattern(`show (?:my )?(?:stats|statistics|progress)`,
		command.ActionShowStats, command.EntityGeneral,
		"show my stats", "show progress"),

	// Arabic forms produced by the ar-SA recognizer.
	mustPattern(`(?:أنشئ|أضف) مهمة (?P<title>.+)`,
		command.ActionCreateTask, command.EntityTask,
		"أنشئ مهمة مراجعة التقرير"),
	mustPattern(`(?:أظهر|اعرض) (?:المهام|مهام)`,
		command.ActionShowTasks, command.EntityTask,
		"أظهر المهام"),
	mustPattern(`علم (?P<title>.+?) (?:كمكتمل|مكتمل)`,
		command.ActionMarkTaskDone, command.EntityTask,
		"علم المهمة كمكتمل"),
}

// bySpecificity returns the catalog ordered so that templates with more slots
// are tried first: a title+deadline+priority match must win over a bare-title
// match when both apply. The sort is stable, so catalog order breaks ties.
func bySpecificity(patterns []Pattern) []Pattern {
	sorted := make([]Pattern, len(patterns))
	copy(sorted, patterns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Regex.NumSubexp() > sorted[j].Regex.NumSubexp()
	})
	return sorted
}
