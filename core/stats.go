package core

import "time"

// MilestoneBadge is the display state of one milestone threshold.
type MilestoneBadge struct {
	Days     int  `json:"days"`
	Achieved bool `json:"achieved"`
}

// TrackStats summarizes one recovery track.
type TrackStats struct {
	Days          int              `json:"days"`
	LongestStreak int              `json:"longest_streak"`
	Victories     int              `json:"victories"`
	Relapses      int              `json:"relapses"`
	SuccessRate   int              `json:"success_rate"`
	Badges        []MilestoneBadge `json:"badges"`
}

// Stats is the read-only dashboard view derived from a state at a given time.
type Stats struct {
	Level              int        `json:"level"`
	Rank               Rank       `json:"rank"`
	XP                 int        `json:"xp"`
	XPRequired         int        `json:"xp_required"`
	TotalXP            int        `json:"total_xp"`
	DaysActive         int        `json:"days_active"`
	TotalWorkouts      int        `json:"total_workouts"`
	CleanStreak        int        `json:"clean_streak"`
	LongestCleanStreak int        `json:"longest_clean_streak"`
	DisciplineLevel    int        `json:"discipline_level"`
	DisciplineRate     int        `json:"discipline_success_rate"`
	WorkoutStreak      int        `json:"workout_streak"`
	Porn               TrackStats `json:"porn_recovery"`
	Alcohol            TrackStats `json:"alcohol_recovery"`
}

// BuildStats derives Stats from s, which should already be recomputed for now.
func BuildStats(s *PlayerState, now time.Time) Stats {
	return Stats{
		Level:              s.Level,
		Rank:               s.Rank,
		XP:                 s.XP,
		XPRequired:         XPRequired(s.Level),
		TotalXP:            s.TotalXP,
		DaysActive:         DaysSince(s.SystemStartDate, now),
		TotalWorkouts:      len(s.Workouts) + len(s.QuickExercises),
		CleanStreak:        s.CleanStreak,
		LongestCleanStreak: s.LongestCleanStreak,
		DisciplineLevel:    s.DisciplineLevel,
		DisciplineRate:     SuccessRate(s.CleanStreak, s.SystemStartDate, now),
		WorkoutStreak:      s.WorkoutStreak,
		Porn:               trackStats(TrackPorn, s.Porn, s.SystemStartDate, now),
		Alcohol:            trackStats(TrackAlcohol, s.Alcohol, s.SystemStartDate, now),
	}
}

func trackStats(t Track, rt RecoveryTrack, start, now time.Time) TrackStats {
	ts := TrackStats{
		Days:          rt.Days,
		LongestStreak: rt.LongestStreak,
		Victories:     rt.Victories,
		Relapses:      rt.Relapses,
		SuccessRate:   SuccessRate(rt.Days, start, now),
	}
	for _, th := range milestoneThresholds[t] {
		ts.Badges = append(ts.Badges, MilestoneBadge{Days: th, Achieved: rt.Days >= th})
	}
	return ts
}
