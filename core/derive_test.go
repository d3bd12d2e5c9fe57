package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func daysAgo(n int) time.Time { return testNow.AddDate(0, 0, -n) }

func TestDaysSince(t *testing.T) {
	assert.Equal(t, 0, DaysSince(testNow, testNow))
	assert.Equal(t, 0, DaysSince(testNow.Add(time.Hour), testNow))
	assert.Equal(t, 0, DaysSince(testNow.Add(-23*time.Hour), testNow))
	assert.Equal(t, 1, DaysSince(testNow.Add(-25*time.Hour), testNow))
	assert.Equal(t, 7, DaysSince(daysAgo(7), testNow))
}

func TestConsecutiveDays(t *testing.T) {
	assert.Equal(t, 0, ConsecutiveDays(nil, testNow, time.UTC))

	five := []time.Time{daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(3), daysAgo(4), daysAgo(6)}
	assert.Equal(t, 5, ConsecutiveDays(five, testNow, time.UTC))

	// today missing does not end the streak
	assert.Equal(t, 2, ConsecutiveDays([]time.Time{daysAgo(1), daysAgo(2)}, testNow, time.UTC))

	// several activities on the same day count once
	same := []time.Time{testNow, testNow.Add(-time.Hour), daysAgo(1)}
	assert.Equal(t, 2, ConsecutiveDays(same, testNow, time.UTC))

	assert.Equal(t, 1, ConsecutiveDays([]time.Time{testNow, daysAgo(2)}, testNow, time.UTC))
	assert.Equal(t, 0, ConsecutiveDays([]time.Time{daysAgo(2)}, testNow, time.UTC))
}

func TestConsecutiveDaysWindow(t *testing.T) {
	var dates []time.Time
	for i := 0; i < 45; i++ {
		dates = append(dates, daysAgo(i))
	}
	assert.Equal(t, streakWindow, ConsecutiveDays(dates, testNow, time.UTC))
}

func TestConsecutiveDaysUsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 01:00 UTC on the 10th is still the 9th in UTC-5
	now := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 9, 2, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 2, ConsecutiveDays(dates, now, loc))
	assert.Equal(t, 1, ConsecutiveDays(dates, now, time.UTC))
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, 100, SuccessRate(0, testNow, testNow))
	assert.Equal(t, 50, SuccessRate(5, daysAgo(10), testNow))
	assert.Equal(t, 33, SuccessRate(1, daysAgo(3), testNow))
	assert.Equal(t, 100, SuccessRate(12, daysAgo(10), testNow))
}

func TestRecompute(t *testing.T) {
	s := DefaultState(daysAgo(20))
	s.DisciplineStartDate = daysAgo(9)
	s.LongestCleanStreak = 4
	s.Porn.StartDate = daysAgo(7)
	s.Alcohol.StartDate = daysAgo(2)
	s.Workouts = []Workout{{Date: testNow, XPGained: 40}, {Date: daysAgo(1), XPGained: 12}}
	s.QuickExercises = []QuickExercise{{Date: testNow.Add(-time.Hour), XPGained: 15}}
	s.Meals = []Meal{{Date: testNow, Health: 8}, {Date: testNow, Health: 5}, {Date: daysAgo(1), Health: 1}}
	s.SleepLogs = []SleepLog{{Date: testNow, Quality: 7}, {Date: daysAgo(1), Quality: 2}}

	Recompute(&s, testNow, time.UTC)

	assert.Equal(t, 9, s.CleanStreak)
	assert.Equal(t, 9, s.LongestCleanStreak)
	assert.Equal(t, 2, s.WorkoutStreak)
	assert.Equal(t, 2, s.DailyWorkouts)
	assert.Equal(t, 2, s.TodayExercises)
	assert.Equal(t, 55, s.TodayTrainingXP)
	assert.Equal(t, 2, s.MealsToday)
	assert.Equal(t, 65, s.NutritionScore)
	assert.Equal(t, 70, s.SleepQuality)
	assert.Equal(t, 7, s.Porn.Days)
	assert.Equal(t, 2, s.Alcohol.Days)
}

func TestRecomputeKeepsScoresWithoutTodaysEntries(t *testing.T) {
	s := DefaultState(daysAgo(5))
	s.NutritionScore = 80
	s.SleepQuality = 60
	s.LongestCleanStreak = 30
	s.Meals = []Meal{{Date: daysAgo(1), Health: 2}}
	s.SleepLogs = []SleepLog{{Date: daysAgo(1), Quality: 3}}

	Recompute(&s, testNow, time.UTC)

	assert.Equal(t, 80, s.NutritionScore)
	assert.Equal(t, 60, s.SleepQuality)
	assert.Equal(t, 0, s.MealsToday)
	assert.Equal(t, 30, s.LongestCleanStreak)
	assert.Equal(t, 5, s.CleanStreak)
}

func TestSleepQualityUsesNewestLog(t *testing.T) {
	s := DefaultState(daysAgo(5))
	s.SleepLogs = []SleepLog{
		{Date: testNow, Quality: 9},
		{Date: testNow.Add(-2 * time.Hour), Quality: 4},
	}

	Recompute(&s, testNow, time.UTC)

	assert.Equal(t, 90, s.SleepQuality)
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "Just now", TimeAgo(testNow.Add(-10*time.Second), testNow))
	assert.Equal(t, "5 min ago", TimeAgo(testNow.Add(-5*time.Minute), testNow))
	assert.Equal(t, "1 hour ago", TimeAgo(testNow.Add(-time.Hour), testNow))
	assert.Equal(t, "3 days ago", TimeAgo(daysAgo(3), testNow))
}
