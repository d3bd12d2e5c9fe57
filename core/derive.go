package core

import (
	"math"
	"strconv"
	"time"
)

// Day is the length used for all day-count arithmetic.
const Day = 24 * time.Hour

// streakWindow is how many calendar days ConsecutiveDays inspects.
const streakWindow = 30

// DayKey is the local calendar date of t, used to compare days.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(time.DateOnly)
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayKey(a, loc) == DayKey(b, loc)
}

// DaysSince is max(0, floor((now-start)/24h)).
func DaysSince(start, now time.Time) int {
	d := now.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(d / Day)
}

// ConsecutiveDays counts consecutive local calendar days with at least one
// activity, scanning back from today over a 30 day window. A missing today
// does not end the streak; the first gap before it does.
func ConsecutiveDays(dates []time.Time, now time.Time, loc *time.Location) int {
	if len(dates) == 0 {
		return 0
	}
	if loc == nil {
		loc = time.Local
	}
	active := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		active[DayKey(d, loc)] = struct{}{}
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)

	streak := 0
	for i := 0; i < streakWindow; i++ {
		key := today.AddDate(0, 0, -i).Format(time.DateOnly)
		if _, ok := active[key]; ok {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		break
	}
	return streak
}

// SuccessRate is the share of days since systemStart spent on the current
// streak, as a percentage clamped to 100. It is 100 on the first day.
func SuccessRate(streakDays int, systemStart, now time.Time) int {
	total := DaysSince(systemStart, now)
	if total == 0 {
		return 100
	}
	rate := int(math.Round(float64(streakDays) / float64(total) * 100))
	if rate > 100 {
		return 100
	}
	return rate
}

// WorkoutDates merges the dates of detailed workouts and quick exercises.
func WorkoutDates(s *PlayerState) []time.Time {
	out := make([]time.Time, 0, len(s.Workouts)+len(s.QuickExercises))
	for _, w := range s.Workouts {
		out = append(out, w.Date)
	}
	for _, q := range s.QuickExercises {
		out = append(out, q.Date)
	}
	return out
}

// Recompute refreshes every time-dependent field of s for the instant now.
// It is deterministic in (s, now, loc).
func Recompute(s *PlayerState, now time.Time, loc *time.Location) {
	s.CleanStreak = DaysSince(s.DisciplineStartDate, now)
	if s.CleanStreak > s.LongestCleanStreak {
		s.LongestCleanStreak = s.CleanStreak
	}

	s.WorkoutStreak = ConsecutiveDays(WorkoutDates(s), now, loc)

	todayCount, todayXP := 0, 0
	for _, w := range s.Workouts {
		if SameDay(w.Date, now, loc) {
			todayCount++
			todayXP += w.XPGained
		}
	}
	for _, q := range s.QuickExercises {
		if SameDay(q.Date, now, loc) {
			todayCount++
			todayXP += q.XPGained
		}
	}
	s.DailyWorkouts = todayCount
	s.TodayExercises = todayCount
	s.TodayTrainingXP = todayXP

	meals, healthSum := 0, 0
	for _, m := range s.Meals {
		if SameDay(m.Date, now, loc) {
			meals++
			healthSum += m.Health
		}
	}
	s.MealsToday = meals
	if meals > 0 {
		s.NutritionScore = int(math.Round(float64(healthSum) / float64(meals) * 10))
	}

	// SleepLogs is newest-first; index 0 is last night.
	if len(s.SleepLogs) > 0 && SameDay(s.SleepLogs[0].Date, now, loc) {
		s.SleepQuality = s.SleepLogs[0].Quality * 10
	}

	s.Porn.Days = DaysSince(s.Porn.StartDate, now)
	s.Alcohol.Days = DaysSince(s.Alcohol.StartDate, now)
}

// TimeAgo renders a coarse relative time such as "3 hours ago".
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	days := int(diff / Day)
	hours := int(diff / time.Hour)
	minutes := int(diff / time.Minute)
	switch {
	case days > 0:
		return plural(days, "day") + " ago"
	case hours > 0:
		return plural(hours, "hour") + " ago"
	case minutes > 0:
		return strconv.Itoa(minutes) + " min ago"
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
