package core

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// BaselineSkills are unlocked for every new player.
var BaselineSkills = []Skill{"basic-discipline", "basic-fitness", "basic-nutrition", "basic-meditation"}

// DefaultState returns the state of a brand new player created at now.
func DefaultState(now time.Time) PlayerState {
	s := PlayerState{
		Name:            "Champion",
		Level:           1,
		Rank:            RankBronze,
		Health:          Pool{Current: 100, Max: 100},
		Mana:            Pool{Current: 100, Max: 100},
		Energy:          Pool{Current: 100, Max: 100},
		Attributes:      Attributes{Strength: 10, Intelligence: 10, Endurance: 10, Wisdom: 10},
		DisciplineLevel: 1,

		DisciplineStartDate: now,
		Porn:                RecoveryTrack{StartDate: now},
		Alcohol:             RecoveryTrack{StartDate: now},
		SystemStartDate:     now,

		UnlockedSkills: append([]Skill(nil), BaselineSkills...),
	}
	s.normalize()
	return s
}

// DecodeState parses a saved blob and merges it over DefaultState(now).
// Fields missing from data keep their defaults; unknown fields are kept and
// written back by EncodeState. A corrupt blob yields the defaults together
// with a *DeserializationError.
func DecodeState(data []byte, now time.Time) (PlayerState, error) {
	st := DefaultState(now)
	if err := json.Unmarshal(data, &st); err != nil {
		return DefaultState(now), &DeserializationError{Err: err}
	}
	st.normalize()
	return st, nil
}

// EncodeState serializes the whole state.
func EncodeState(s PlayerState) ([]byte, error) {
	return json.Marshal(s)
}

type playerStateFields PlayerState

var knownStateKeys = func() map[string]struct{} {
	keys := map[string]struct{}{}
	t := reflect.TypeOf(playerStateFields{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	return keys
}()

// MarshalJSON encodes the known fields plus any preserved unknown ones.
func (s PlayerState) MarshalJSON() ([]byte, error) {
	s.normalize()
	known, err := json.Marshal(playerStateFields(s))
	if err != nil || len(s.extra) == 0 {
		return known, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes over the receiver's current values so that absent
// fields keep whatever the receiver already held.
func (s *PlayerState) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(data, (*playerStateFields)(s)); err != nil {
		return err
	}
	for k, v := range raw {
		if _, ok := knownStateKeys[k]; ok {
			continue
		}
		if s.extra == nil {
			s.extra = map[string]json.RawMessage{}
		}
		s.extra[k] = v
	}
	return nil
}

// Extra returns the raw value of an unknown field preserved from saved data.
func (s PlayerState) Extra(key string) (json.RawMessage, bool) {
	v, ok := s.extra[key]
	return v, ok
}

// normalize repairs values a hand-edited or older blob may carry.
func (s *PlayerState) normalize() {
	if s.Level < 1 {
		s.Level = 1
	}
	if s.XP < 0 {
		s.XP = 0
	}
	s.Rank = RankForLevel(s.Level)
	for _, p := range []*Pool{&s.Health, &s.Mana, &s.Energy} {
		if p.Current > p.Max {
			p.Current = p.Max
		}
	}
	if s.Workouts == nil {
		s.Workouts = []Workout{}
	}
	if s.QuickExercises == nil {
		s.QuickExercises = []QuickExercise{}
	}
	if s.Meals == nil {
		s.Meals = []Meal{}
	}
	if s.SleepLogs == nil {
		s.SleepLogs = []SleepLog{}
	}
	if s.JournalEntries == nil {
		s.JournalEntries = []JournalEntry{}
	}
	if s.UrgeVictories == nil {
		s.UrgeVictories = []UrgeVictory{}
	}
	if s.EmergencyActions == nil {
		s.EmergencyActions = []EmergencyAction{}
	}
	if s.DailyQuests == nil {
		s.DailyQuests = []Quest{}
	}
	if s.UnlockedSkills == nil {
		s.UnlockedSkills = append([]Skill(nil), BaselineSkills...)
	}
	if s.Porn.Milestones == nil {
		s.Porn.Milestones = []int{}
	}
	if s.Alcohol.Milestones == nil {
		s.Alcohol.Milestones = []int{}
	}
}
