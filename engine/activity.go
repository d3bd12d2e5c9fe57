package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lifesystem/core"
)

// LogQuickExercise records a one-tap exercise with its fixed reward.
func (e *Engine) LogQuickExercise(ctx context.Context, exerciseType string) (core.QuickExercise, error) {
	exerciseType = strings.TrimSpace(exerciseType)
	if exerciseType == "" {
		return core.QuickExercise{}, &core.ValidationError{Field: "type", Reason: "select an exercise type"}
	}
	var rec core.QuickExercise
	err := e.do(ctx, func(now time.Time) error {
		rec = core.QuickExercise{
			ID:       e.newID(),
			Date:     now,
			Type:     exerciseType,
			Category: core.CategoryQuick,
			XPGained: core.QuickExerciseXP(exerciseType),
		}
		e.state.QuickExercises = prepend(e.state.QuickExercises, rec)
		e.awardLocked(now, rec.XPGained, "Quick "+exerciseType)
		e.emit(core.NewActivityLogged(now, "quick_exercise", rec.XPGained,
			fmt.Sprintf("%s completed! +%d XP", exerciseType, rec.XPGained)))
		// any quick exercise counts as a workout, which also covers the
		// pushups, cardio and abs quests
		e.progressQuestsLocked(now, core.ActionWorkout, 1)
		return nil
	})
	return rec, err
}

// LogDetailedWorkout records a set-based workout.
func (e *Engine) LogDetailedWorkout(ctx context.Context, in core.DetailedWorkoutInput) (core.Workout, error) {
	if err := in.Validate(); err != nil {
		return core.Workout{}, err
	}
	var rec core.Workout
	err := e.do(ctx, func(now time.Time) error {
		rec = core.Workout{
			ID:       e.newID(),
			Date:     now,
			Type:     strings.TrimSpace(in.Type),
			Category: core.CategoryDetailed,
			Sets:     in.Sets,
			Reps:     in.Reps,
			Weight:   in.Weight,
			Duration: in.Duration,
			XPGained: in.XP(),
		}
		e.state.Workouts = prepend(e.state.Workouts, rec)
		e.awardLocked(now, rec.XPGained, "Detailed "+rec.Type)
		e.emit(core.NewActivityLogged(now, "workout", rec.XPGained,
			fmt.Sprintf("%s completed! %dx%d +%d XP", rec.Type, rec.Sets, rec.Reps, rec.XPGained)))
		e.progressQuestsLocked(now, core.ActionWorkout, 1)
		return nil
	})
	return rec, err
}

// LogWorkoutSession records a timed session rated by intensity.
func (e *Engine) LogWorkoutSession(ctx context.Context, in core.WorkoutSessionInput) (core.Workout, error) {
	if err := in.Validate(); err != nil {
		return core.Workout{}, err
	}
	var rec core.Workout
	err := e.do(ctx, func(now time.Time) error {
		rec = core.Workout{
			ID:        e.newID(),
			Date:      now,
			Type:      strings.TrimSpace(in.Type),
			Category:  core.CategorySession,
			Duration:  in.Duration,
			Intensity: in.Intensity,
			Notes:     in.Notes,
			XPGained:  in.XP(),
		}
		e.state.Workouts = prepend(e.state.Workouts, rec)
		if rec.XPGained > 0 {
			e.awardLocked(now, rec.XPGained, "Workout")
		}
		e.emit(core.NewActivityLogged(now, "workout", rec.XPGained,
			fmt.Sprintf("Workout logged! +%d XP", rec.XPGained)))
		e.progressQuestsLocked(now, core.ActionWorkout, 1)
		return nil
	})
	return rec, err
}

// LogMeal records a meal.
func (e *Engine) LogMeal(ctx context.Context, in core.MealInput) (core.Meal, error) {
	if err := in.Validate(); err != nil {
		return core.Meal{}, err
	}
	var rec core.Meal
	err := e.do(ctx, func(now time.Time) error {
		rec = core.Meal{
			ID:       e.newID(),
			Date:     now,
			Type:     strings.TrimSpace(in.Type),
			Items:    strings.TrimSpace(in.Items),
			Health:   in.Health,
			Portion:  in.Portion,
			XPGained: in.XP(),
		}
		e.state.Meals = prepend(e.state.Meals, rec)
		e.awardLocked(now, rec.XPGained, "Healthy Meal")
		e.emit(core.NewActivityLogged(now, "meal", rec.XPGained,
			fmt.Sprintf("Meal logged! +%d XP", rec.XPGained)))
		e.progressQuestsLocked(now, core.ActionMeal, 1)
		return nil
	})
	return rec, err
}

// LogSleep records a night of sleep.
func (e *Engine) LogSleep(ctx context.Context, in core.SleepInput) (core.SleepLog, error) {
	if err := in.Validate(); err != nil {
		return core.SleepLog{}, err
	}
	hours, err := core.SleepDuration(in.Bedtime, in.Waketime)
	if err != nil {
		return core.SleepLog{}, err
	}
	var rec core.SleepLog
	err = e.do(ctx, func(now time.Time) error {
		rec = core.SleepLog{
			ID:       e.newID(),
			Date:     now,
			Bedtime:  strings.TrimSpace(in.Bedtime),
			Waketime: strings.TrimSpace(in.Waketime),
			Duration: hours,
			Quality:  in.Quality,
			Notes:    in.Notes,
			XPGained: core.SleepXP(in.Quality, hours),
		}
		e.state.SleepLogs = prepend(e.state.SleepLogs, rec)
		e.awardLocked(now, rec.XPGained, "Good Sleep")
		e.emit(core.NewActivityLogged(now, "sleep", rec.XPGained,
			fmt.Sprintf("Sleep logged! %.1fh, +%d XP", hours, rec.XPGained)))
		e.progressQuestsLocked(now, core.ActionSleep, 1)
		return nil
	})
	return rec, err
}

// LogJournal records a journal entry.
func (e *Engine) LogJournal(ctx context.Context, in core.JournalInput) (core.JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return core.JournalEntry{}, err
	}
	var rec core.JournalEntry
	err := e.do(ctx, func(now time.Time) error {
		rec = core.JournalEntry{
			ID:       e.newID(),
			Date:     now,
			Text:     strings.TrimSpace(in.Text),
			Mood:     in.Mood,
			XPGained: in.XP(),
		}
		e.state.JournalEntries = prepend(e.state.JournalEntries, rec)
		e.awardLocked(now, rec.XPGained, "Journal Entry")
		e.emit(core.NewActivityLogged(now, "journal", rec.XPGained,
			fmt.Sprintf("Journal entry saved! +%d XP", rec.XPGained)))
		e.progressQuestsLocked(now, core.ActionJournal, 1)
		return nil
	})
	return rec, err
}
