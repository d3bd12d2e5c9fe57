package core

import (
	"fmt"
	"time"
)

// EventType enumerates notifications emitted by the engine.
type EventType string

const (
	EventXPAwarded          EventType = "xp_awarded"
	EventLevelUp            EventType = "level_up"
	EventSkillUnlocked      EventType = "skill_unlocked"
	EventQuestsGenerated    EventType = "quests_generated"
	EventQuestCompleted     EventType = "quest_completed"
	EventMilestoneReached   EventType = "milestone_reached"
	EventDisciplineLevelUp  EventType = "discipline_level_up"
	EventActivityLogged     EventType = "activity_logged"
	EventUrgeDefeated       EventType = "urge_defeated"
	EventRelapse            EventType = "relapse"
	EventEmergencyTool      EventType = "emergency_tool"
	EventPersistenceWarning EventType = "persistence_warning"
	EventStateChanged       EventType = "state_changed"
	EventReconnected        EventType = "reconnected"
)

// AllEventTypes lists every type, for bridges that forward everything.
var AllEventTypes = []EventType{
	EventXPAwarded, EventLevelUp, EventSkillUnlocked, EventQuestsGenerated,
	EventQuestCompleted, EventMilestoneReached, EventDisciplineLevelUp,
	EventActivityLogged, EventUrgeDefeated, EventRelapse, EventEmergencyTool,
	EventPersistenceWarning, EventStateChanged, EventReconnected,
}

// Event is an immutable notification for the presentation layer.
type Event struct {
	Type     EventType      `json:"type"`
	Time     time.Time      `json:"time"`
	Message  string         `json:"message,omitempty"`
	XPDelta  int            `json:"xp_delta,omitempty"`
	Source   string         `json:"source,omitempty"`
	Level    int            `json:"level,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func NewXPAwarded(at time.Time, amount int, source string) Event {
	return Event{Type: EventXPAwarded, Time: at, XPDelta: amount, Source: source,
		Message: fmt.Sprintf("+%d XP - %s", amount, source)}
}

func NewLevelUp(at time.Time, level int, rank Rank) Event {
	return Event{Type: EventLevelUp, Time: at, Level: level,
		Message:  fmt.Sprintf("LEVEL UP! You reached level %d", level),
		Metadata: map[string]any{"rank": string(rank)}}
}

func NewSkillUnlocked(at time.Time, skill Skill) Event {
	return Event{Type: EventSkillUnlocked, Time: at,
		Message:  fmt.Sprintf("New skill unlocked: %s", skill),
		Metadata: map[string]any{"skill": string(skill)}}
}

func NewQuestCompleted(at time.Time, q Quest) Event {
	return Event{Type: EventQuestCompleted, Time: at, XPDelta: q.XPReward,
		Message:  fmt.Sprintf("Quest completed: %s", q.Title),
		Metadata: map[string]any{"quest_id": q.ID}}
}

func NewMilestoneReached(at time.Time, track Track, days int) Event {
	noun := "porn-free"
	if track == TrackAlcohol {
		noun = "sober"
	}
	return Event{Type: EventMilestoneReached, Time: at, XPDelta: MilestoneXP,
		Message:  fmt.Sprintf("MILESTONE ACHIEVED! %d days %s! +%d bonus XP!", days, noun, MilestoneXP),
		Metadata: map[string]any{"track": string(track), "days": days}}
}

func NewDisciplineLevelUp(at time.Time, level int) Event {
	return Event{Type: EventDisciplineLevelUp, Time: at, Level: level,
		Message: fmt.Sprintf("DISCIPLINE LEVEL UP! Now Level %d", level)}
}

// NewActivityLogged describes a freshly appended record.
func NewActivityLogged(at time.Time, kind string, xp int, message string) Event {
	return Event{Type: EventActivityLogged, Time: at, XPDelta: xp, Source: kind, Message: message}
}

func NewStateChanged(at time.Time) Event {
	return Event{Type: EventStateChanged, Time: at}
}

func NewReconnected(at time.Time) Event {
	return Event{Type: EventReconnected, Time: at, Message: "reconnected"}
}

func NewQuestsGenerated(at time.Time, quests []Quest) Event {
	ids := make([]string, 0, len(quests))
	for _, q := range quests {
		ids = append(ids, q.ID)
	}
	return Event{Type: EventQuestsGenerated, Time: at,
		Message:  fmt.Sprintf("%d new daily quests", len(quests)),
		Metadata: map[string]any{"quest_ids": ids}}
}

// NewUrgeDefeated covers general urges and both recovery tracks; track is
// empty for a general urge.
func NewUrgeDefeated(at time.Time, track Track, xp int, message string) Event {
	ev := Event{Type: EventUrgeDefeated, Time: at, XPDelta: xp, Message: message}
	if track != "" {
		ev.Metadata = map[string]any{"track": string(track)}
	}
	return ev
}

func NewRelapse(at time.Time, track Track, message string) Event {
	ev := Event{Type: EventRelapse, Time: at, Message: message}
	if track != "" {
		ev.Metadata = map[string]any{"track": string(track)}
	}
	return ev
}

func NewEmergencyTool(at time.Time, tool, kind string, xp int, message string) Event {
	return Event{Type: EventEmergencyTool, Time: at, XPDelta: xp, Source: tool, Message: message,
		Metadata: map[string]any{"kind": kind}}
}

func NewPersistenceWarning(at time.Time, err error) Event {
	return Event{Type: EventPersistenceWarning, Time: at,
		Message: fmt.Sprintf("progress kept in memory only: %v", err)}
}
