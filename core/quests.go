package core

import "fmt"

// Quest match types.
const (
	ActionWorkout    = "workout"
	ActionUrgeDefeat = "urge-defeat"
	ActionPushups    = "pushups"
	ActionCardio     = "cardio"
	ActionAbs        = "abs"
	ActionMeal       = "meal"
	ActionJournal    = "journal"
	ActionMeditation = "meditation"
	ActionSleep      = "sleep"
	ActionClean      = "clean"
	ActionEmergency  = "emergency"
)

const (
	minDailyQuests = 3
	maxDailyQuests = 4
)

// QuestTemplate is a row of the fixed daily quest table.
type QuestTemplate struct {
	ID        string
	Title     string
	XPReward  int
	MatchType string
}

// QuestTemplates is the table daily quests are drawn from.
var QuestTemplates = []QuestTemplate{
	{"workout", "Complete any exercise", 20, ActionWorkout},
	{"defeat-urge", "Defeat an urge", 30, ActionUrgeDefeat},
	{"pushups", "Do push-ups", 15, ActionPushups},
	{"cardio", "Do cardio exercise", 25, ActionCardio},
	{"abs-workout", "Work on your abs", 20, ActionAbs},
	{"healthy-meal", "Eat a healthy meal (8+ health)", 15, ActionMeal},
	{"journal", "Write in your journal", 20, ActionJournal},
	{"meditation", "Meditate for 10 minutes", 15, ActionMeditation},
	{"sleep-log", "Log your sleep quality", 10, ActionSleep},
	{"clean-day", "Stay disciplined for another day", 15, ActionClean},
	{"emergency-tool", "Use an emergency tool when needed", 20, ActionEmergency},
}

// workoutGroup are the match types a generic workout satisfies, and vice versa.
var workoutGroup = map[string]struct{}{
	ActionPushups: {},
	ActionCardio:  {},
	ActionAbs:     {},
}

// QuestMatches reports whether action progresses a quest of matchType.
func QuestMatches(matchType, action string) bool {
	if matchType == action {
		return true
	}
	if action == ActionWorkout {
		_, ok := workoutGroup[matchType]
		return ok
	}
	if matchType == ActionWorkout {
		_, ok := workoutGroup[action]
		return ok
	}
	return false
}

// QuestCount picks how many quests today gets from a random draw in [0,1].
func QuestCount(draw int) int {
	return min(minDailyQuests+draw, maxDailyQuests)
}

// NewQuest instantiates a template for the given day key.
func NewQuest(t QuestTemplate, day string) Quest {
	return Quest{
		ID:         fmt.Sprintf("daily-%s-%s", day, t.ID),
		TemplateID: t.ID,
		Title:      t.Title,
		XPReward:   t.XPReward,
		MatchType:  t.MatchType,
		Target:     1,
	}
}

