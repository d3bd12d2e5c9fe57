package core

import (
	"encoding/json"
	"time"
)

// Rank is the display tier derived from the player's level.
type Rank string

const (
	RankBronze   Rank = "Bronze"
	RankSilver   Rank = "Silver"
	RankGold     Rank = "Gold"
	RankPlatinum Rank = "Platinum"
	RankDiamond  Rank = "Diamond"
	RankMaster   Rank = "Master"
	RankLegend   Rank = "Legend"
)

// Track identifies one addiction-recovery domain.
type Track string

const (
	TrackPorn    Track = "porn"
	TrackAlcohol Track = "alcohol"
)

// ParseTrack validates a track name.
func ParseTrack(s string) (Track, error) {
	switch t := Track(s); t {
	case TrackPorn, TrackAlcohol:
		return t, nil
	default:
		return "", ErrUnknownTrack
	}
}

// Skill is an unlockable skill identifier.
type Skill string

// Pool is a resource bar such as health or mana. Current never exceeds Max.
type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Refill sets the pool to its maximum.
func (p *Pool) Refill() { p.Current = p.Max }

// Attributes are the character stats that grow on level-up.
type Attributes struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Endurance    int `json:"endurance"`
	Wisdom       int `json:"wisdom"`
}

// RecoveryTrack is the streak/counter bundle for one recovery domain.
type RecoveryTrack struct {
	Days          int        `json:"days"`
	LongestStreak int        `json:"longest_streak"`
	Victories     int        `json:"victories"`
	Relapses      int        `json:"relapses"`
	StartDate     time.Time  `json:"start_date"`
	LastResetDate *time.Time `json:"last_reset_date"`
	// Milestones holds the day thresholds already rewarded during the current streak.
	Milestones []int `json:"milestones"`
}

// HasMilestone reports whether threshold was already rewarded in this streak.
func (t RecoveryTrack) HasMilestone(threshold int) bool {
	for _, m := range t.Milestones {
		if m == threshold {
			return true
		}
	}
	return false
}

// Workout categories.
const (
	CategoryDetailed = "detailed"
	CategorySession  = "session"
	CategoryQuick    = "quick"
)

// Workout is a logged detailed workout or workout session.
type Workout struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Sets      int       `json:"sets,omitempty"`
	Reps      int       `json:"reps,omitempty"`
	Weight    int       `json:"weight,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	Intensity int       `json:"intensity,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	XPGained  int       `json:"xp_gained"`
}

// QuickExercise is a one-tap exercise entry.
type QuickExercise struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Type     string    `json:"type"`
	Category string    `json:"category"`
	XPGained int       `json:"xp_gained"`
}

// Meal is a logged meal with a 1-10 health rating.
type Meal struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Type     string    `json:"type"`
	Items    string    `json:"items"`
	Health   int       `json:"health"`
	Portion  string    `json:"portion,omitempty"`
	XPGained int       `json:"xp_gained"`
}

// SleepLog is one night of sleep. Duration is in hours.
type SleepLog struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Bedtime  string    `json:"bedtime"`
	Waketime string    `json:"waketime"`
	Duration float64   `json:"duration"`
	Quality  int       `json:"quality"`
	Notes    string    `json:"notes,omitempty"`
	XPGained int       `json:"xp_gained"`
}

// JournalEntry is a free-text entry with a 1-5 mood.
type JournalEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Text     string    `json:"text"`
	Mood     int       `json:"mood"`
	XPGained int       `json:"xp_gained"`
}

// Victory kinds.
const (
	VictoryGeneral = "general"
	VictoryPorn    = "porn_urge_victory"
	VictoryAlcohol = "alcohol_craving_victory"
)

// UrgeVictory records a defeated urge or craving.
type UrgeVictory struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Kind   string    `json:"kind"`
	Method string    `json:"method,omitempty"`
}

// Emergency action kinds.
const (
	EmergencyDiscipline = "discipline"
	EmergencyRecovery   = "recovery_emergency"
)

// EmergencyAction records the use of an emergency tool.
type EmergencyAction struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Tool string    `json:"tool"`
	Kind string    `json:"kind"`
}

// Quest is one daily quest instance.
type Quest struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id"`
	Title      string `json:"title"`
	XPReward   int    `json:"xp_reward"`
	MatchType  string `json:"match_type"`
	Progress   int    `json:"progress"`
	Target     int    `json:"target"`
	Completed  bool   `json:"completed"`
}

// PlayerState is the single root aggregate of the tracker.
// Collections are ordered newest-first.
type PlayerState struct {
	Name    string `json:"name"`
	Level   int    `json:"level"`
	XP      int    `json:"xp"`
	TotalXP int    `json:"total_xp"`
	Rank    Rank   `json:"rank"`

	Health     Pool       `json:"health"`
	Mana       Pool       `json:"mana"`
	Energy     Pool       `json:"energy"`
	Attributes Attributes `json:"attributes"`

	CleanStreak         int       `json:"clean_streak"`
	LongestCleanStreak  int       `json:"longest_clean_streak"`
	UrgesDefeated       int       `json:"urges_defeated"`
	TotalRelapses       int       `json:"total_relapses"`
	DisciplineLevel     int       `json:"discipline_level"`
	DisciplineStartDate time.Time `json:"discipline_start_date"`

	Porn    RecoveryTrack `json:"porn_recovery"`
	Alcohol RecoveryTrack `json:"alcohol_recovery"`

	WorkoutStreak   int `json:"workout_streak"`
	NutritionScore  int `json:"nutrition_score"`
	SleepQuality    int `json:"sleep_quality"`
	DailyWorkouts   int `json:"daily_workouts"`
	MealsToday      int `json:"meals_today"`
	TodayTrainingXP int `json:"today_training_xp"`
	TodayExercises  int `json:"today_exercises"`

	Workouts         []Workout         `json:"workouts"`
	QuickExercises   []QuickExercise   `json:"quick_exercises"`
	Meals            []Meal            `json:"meals"`
	SleepLogs        []SleepLog        `json:"sleep_logs"`
	JournalEntries   []JournalEntry    `json:"journal_entries"`
	UrgeVictories    []UrgeVictory     `json:"urge_victories"`
	EmergencyActions []EmergencyAction `json:"emergency_actions"`

	DailyQuests             []Quest `json:"daily_quests"`
	LastQuestGenerationDate string  `json:"last_quest_generation_date"`

	UnlockedSkills []Skill `json:"unlocked_skills"`

	SystemStartDate time.Time `json:"system_start_date"`

	// extra keeps fields found in saved data that this version does not know.
	extra map[string]json.RawMessage
}

// TrackState returns a pointer to the requested recovery track.
func (s *PlayerState) TrackState(t Track) (*RecoveryTrack, error) {
	switch t {
	case TrackPorn:
		return &s.Porn, nil
	case TrackAlcohol:
		return &s.Alcohol, nil
	default:
		return nil, ErrUnknownTrack
	}
}

// HasSkill reports whether skill is unlocked.
func (s *PlayerState) HasSkill(skill Skill) bool {
	for _, k := range s.UnlockedSkills {
		if k == skill {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the state.
func (s PlayerState) Clone() PlayerState {
	cp := s
	cp.Porn = s.Porn.clone()
	cp.Alcohol = s.Alcohol.clone()
	cp.Workouts = append([]Workout(nil), s.Workouts...)
	cp.QuickExercises = append([]QuickExercise(nil), s.QuickExercises...)
	cp.Meals = append([]Meal(nil), s.Meals...)
	cp.SleepLogs = append([]SleepLog(nil), s.SleepLogs...)
	cp.JournalEntries = append([]JournalEntry(nil), s.JournalEntries...)
	cp.UrgeVictories = append([]UrgeVictory(nil), s.UrgeVictories...)
	cp.EmergencyActions = append([]EmergencyAction(nil), s.EmergencyActions...)
	cp.DailyQuests = append([]Quest(nil), s.DailyQuests...)
	cp.UnlockedSkills = append([]Skill(nil), s.UnlockedSkills...)
	if s.extra != nil {
		cp.extra = make(map[string]json.RawMessage, len(s.extra))
		for k, v := range s.extra {
			cp.extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return cp
}

func (t RecoveryTrack) clone() RecoveryTrack {
	cp := t
	if t.LastResetDate != nil {
		d := *t.LastResetDate
		cp.LastResetDate = &d
	}
	cp.Milestones = append([]int(nil), t.Milestones...)
	return cp
}
