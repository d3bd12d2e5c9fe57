package engine

import (
	"context"
	"strings"
	"time"

	"lifesystem/core"
)

// DefeatUrge records a general self-control victory.
func (e *Engine) DefeatUrge(ctx context.Context) error {
	return e.do(ctx, func(now time.Time) error {
		e.state.UrgesDefeated++
		e.state.UrgeVictories = prepend(e.state.UrgeVictories, core.UrgeVictory{
			ID:     e.newID(),
			Date:   now,
			Kind:   core.VictoryGeneral,
			Method: "Self-control victory",
		})
		e.awardLocked(now, core.UrgeVictoryXP, "Urge Victory")
		e.emit(core.NewUrgeDefeated(now, "", core.UrgeVictoryXP, "VICTORY! You conquered that challenge! +25 XP"))
		e.progressQuestsLocked(now, core.ActionUrgeDefeat, 1)
		e.checkDisciplineLocked(now)
		return nil
	})
}

// Relapse restarts the general clean streak. It refuses to act unless confirmed.
func (e *Engine) Relapse(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return core.ErrNotConfirmed
	}
	return e.do(ctx, func(now time.Time) error {
		s := &e.state
		streak := s.CleanStreak
		s.TotalRelapses++
		s.DisciplineStartDate = now
		s.CleanStreak = 0
		s.DisciplineLevel = core.DisciplineLevelFor(0)
		e.log.Info("clean streak restarted", "streak", streak, "relapses", s.TotalRelapses)
		e.emit(core.NewRelapse(now, "", "Journey restarted. You're still a champion. Every legend faces setbacks."))
		return nil
	})
}

func (e *Engine) checkDisciplineLocked(now time.Time) {
	level := core.DisciplineLevelFor(e.state.CleanStreak)
	if level > e.state.DisciplineLevel {
		e.state.DisciplineLevel = level
		e.emit(core.NewDisciplineLevelUp(now, level))
	}
}

// UseEmergencyTool records a discipline emergency tool such as a cold shower.
func (e *Engine) UseEmergencyTool(ctx context.Context, tool string) error {
	return e.useTool(ctx, tool, core.EmergencyDiscipline, core.EmergencyToolXP, "Emergency: ", core.EmergencyMessage)
}

// UseRecoveryTool records an addiction-recovery emergency tool.
func (e *Engine) UseRecoveryTool(ctx context.Context, tool string) error {
	return e.useTool(ctx, tool, core.EmergencyRecovery, core.RecoveryToolXP, "Recovery Tool: ", core.RecoveryToolMessage)
}

func (e *Engine) useTool(ctx context.Context, tool, kind string, xp int, sourcePrefix string, message func(string) string) error {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return &core.ValidationError{Field: "tool", Reason: "required"}
	}
	return e.do(ctx, func(now time.Time) error {
		e.state.EmergencyActions = prepend(e.state.EmergencyActions, core.EmergencyAction{
			ID:   e.newID(),
			Date: now,
			Tool: tool,
			Kind: kind,
		})
		e.awardLocked(now, xp, sourcePrefix+tool)
		e.emit(core.NewEmergencyTool(now, tool, kind, xp, message(tool)))
		e.progressQuestsLocked(now, core.ActionEmergency, 1)
		return nil
	})
}

// Meditate records a completed meditation.
func (e *Engine) Meditate(ctx context.Context) error {
	return e.do(ctx, func(now time.Time) error {
		e.awardLocked(now, core.MeditationXP, "Meditation")
		e.emit(core.NewActivityLogged(now, "meditation", core.MeditationXP, "Meditation completed. +15 XP"))
		e.progressQuestsLocked(now, core.ActionMeditation, 1)
		return nil
	})
}
