package core

import (
	"math"
	"strings"
	"time"
	"unicode/utf16"
)

const (
	detailedWorkoutXPCap = 100
	journalXPCap         = 20
	defaultQuickXP       = 15
)

var quickExerciseXP = map[string]int{
	"pushups": 15,
	"squats":  15,
	"abs":     20,
	"cardio":  25,
	"pullups": 20,
	"plank":   15,
}

// QuickExerciseXP returns the fixed reward for a quick exercise type.
func QuickExerciseXP(exerciseType string) int {
	if xp, ok := quickExerciseXP[exerciseType]; ok {
		return xp
	}
	return defaultQuickXP
}

// DetailedWorkoutInput describes a set-based workout.
type DetailedWorkoutInput struct {
	Type     string `json:"type"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	Weight   int    `json:"weight"`
	Duration int    `json:"duration"`
}

func (in DetailedWorkoutInput) Validate() error {
	if strings.TrimSpace(in.Type) == "" {
		return invalid("type", "select an exercise type")
	}
	if in.Sets < 0 || in.Reps < 0 || in.Weight < 0 || in.Duration < 0 {
		return invalid("workout", "sets, reps, weight and duration cannot be negative")
	}
	return nil
}

// XP is 10 + sets*2 + floor(reps/5)*3 + floor(weight/10)*2 + floor(duration/5)*2, capped at 100.
func (in DetailedWorkoutInput) XP() int {
	xp := 10
	xp += in.Sets * 2
	xp += in.Reps / 5 * 3
	xp += in.Weight / 10 * 2
	xp += in.Duration / 5 * 2
	return min(xp, detailedWorkoutXPCap)
}

// WorkoutSessionInput describes a timed session rated by intensity.
type WorkoutSessionInput struct {
	Type      string `json:"type"`
	Duration  int    `json:"duration"`
	Intensity int    `json:"intensity"`
	Notes     string `json:"notes,omitempty"`
}

func (in WorkoutSessionInput) Validate() error {
	if strings.TrimSpace(in.Type) == "" {
		return invalid("type", "fill in workout type")
	}
	if in.Duration <= 0 {
		return invalid("duration", "fill in workout duration")
	}
	if in.Intensity < 1 || in.Intensity > 10 {
		return invalid("intensity", "must be between 1 and 10")
	}
	return nil
}

// XP is floor(duration/10 * intensity).
func (in WorkoutSessionInput) XP() int {
	return int(math.Floor(float64(in.Duration) / 10 * float64(in.Intensity)))
}

// MealInput describes a meal rated 1-10 for health.
type MealInput struct {
	Type    string `json:"type"`
	Items   string `json:"items"`
	Health  int    `json:"health"`
	Portion string `json:"portion,omitempty"`
}

func (in MealInput) Validate() error {
	if strings.TrimSpace(in.Type) == "" || strings.TrimSpace(in.Items) == "" {
		return invalid("meal", "fill in meal type and items")
	}
	if in.Health < 1 || in.Health > 10 {
		return invalid("health", "must be between 1 and 10")
	}
	return nil
}

func (in MealInput) XP() int { return in.Health * 2 }

// SleepInput describes a night of sleep with HH:MM bed and wake times.
type SleepInput struct {
	Bedtime  string `json:"bedtime"`
	Waketime string `json:"waketime"`
	Quality  int    `json:"quality"`
	Notes    string `json:"notes,omitempty"`
}

func (in SleepInput) Validate() error {
	if strings.TrimSpace(in.Bedtime) == "" || strings.TrimSpace(in.Waketime) == "" {
		return invalid("sleep", "fill in bedtime and wake time")
	}
	if _, err := SleepDuration(in.Bedtime, in.Waketime); err != nil {
		return err
	}
	if in.Quality < 1 || in.Quality > 10 {
		return invalid("quality", "must be between 1 and 10")
	}
	return nil
}

// SleepDuration returns the hours between bedtime and waketime, wrapping
// past midnight when waketime is earlier in the day.
func SleepDuration(bedtime, waketime string) (float64, error) {
	bed, err := time.Parse("15:04", strings.TrimSpace(bedtime))
	if err != nil {
		return 0, invalid("bedtime", "expected HH:MM")
	}
	wake, err := time.Parse("15:04", strings.TrimSpace(waketime))
	if err != nil {
		return 0, invalid("waketime", "expected HH:MM")
	}
	if wake.Before(bed) {
		wake = wake.Add(Day)
	}
	return wake.Sub(bed).Hours(), nil
}

// SleepXP is floor(quality * durationScore * 3); durationScore is 1 for 7-9
// hours and 0.7 otherwise.
func SleepXP(quality int, hours float64) int {
	score := 0.7
	if hours >= 7 && hours <= 9 {
		score = 1
	}
	return int(math.Floor(float64(quality) * score * 3))
}

// JournalInput is a journal entry with a 1-5 mood.
type JournalInput struct {
	Text string `json:"text"`
	Mood int    `json:"mood"`
}

func (in JournalInput) Validate() error {
	if strings.TrimSpace(in.Text) == "" {
		return invalid("text", "write something in your journal first")
	}
	if in.Mood < 1 || in.Mood > 5 {
		return invalid("mood", "select your mood first")
	}
	return nil
}

// XP is min(20, floor(len/50)*5 + 5) over the trimmed text, with len in
// UTF-16 code units.
func (in JournalInput) XP() int {
	n := len(utf16.Encode([]rune(strings.TrimSpace(in.Text))))
	return min(journalXPCap, n/50*5+5)
}
