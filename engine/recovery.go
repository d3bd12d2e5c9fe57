package engine

import (
	"context"
	"fmt"
	"time"

	"lifesystem/core"
)

type victoryRule struct {
	xp      int
	kind    string
	source  string
	message string
	restart string
	label   string
}

var victoryRules = map[core.Track]victoryRule{
	core.TrackPorn: {
		xp:      core.PornVictoryXP,
		kind:    core.VictoryPorn,
		source:  "Porn Urge Victory",
		message: "VICTORY! You defeated a porn urge! Your discipline is growing stronger! +30 XP",
		restart: "Porn recovery restarted. You're still a warrior. Every setback is setup for a comeback.",
		label:   "Porn",
	},
	core.TrackAlcohol: {
		xp:      core.AlcoholVictoryXP,
		kind:    core.VictoryAlcohol,
		source:  "Alcohol Craving Victory",
		message: "VICTORY! You beat an alcohol craving! Your sobriety is your strength! +25 XP",
		restart: "Alcohol recovery restarted. You're resilient. Each day sober is a victory.",
		label:   "Alcohol",
	},
}

// RecordVictory logs a defeated urge or craving on track and checks milestones.
func (e *Engine) RecordVictory(ctx context.Context, track core.Track) error {
	rule, ok := victoryRules[track]
	if !ok {
		return core.ErrUnknownTrack
	}
	return e.do(ctx, func(now time.Time) error {
		rt, err := e.state.TrackState(track)
		if err != nil {
			return err
		}
		rt.Victories++
		e.state.UrgeVictories = prepend(e.state.UrgeVictories, core.UrgeVictory{
			ID:   e.newID(),
			Date: now,
			Kind: rule.kind,
		})
		e.awardLocked(now, rule.xp, rule.source)
		e.emit(core.NewUrgeDefeated(now, track, rule.xp, rule.message))
		e.checkMilestonesLocked(now)
		return nil
	})
}

// ResetTrack restarts track after a relapse. It refuses to act unless confirmed.
func (e *Engine) ResetTrack(ctx context.Context, track core.Track, confirmed bool) error {
	rule, ok := victoryRules[track]
	if !ok {
		return core.ErrUnknownTrack
	}
	if !confirmed {
		return core.ErrNotConfirmed
	}
	return e.do(ctx, func(now time.Time) error {
		rt, err := e.state.TrackState(track)
		if err != nil {
			return err
		}
		days := rt.Days
		rt.Reset(now)
		e.log.Info("recovery track reset", "track", track, "days", days, "relapses", rt.Relapses)
		e.emit(core.NewRelapse(now, track, rule.restart))
		return nil
	})
}

// checkMilestonesLocked pays each track's milestone at most once per streak.
func (e *Engine) checkMilestonesLocked(now time.Time) {
	for _, track := range []core.Track{core.TrackPorn, core.TrackAlcohol} {
		rt, err := e.state.TrackState(track)
		if err != nil {
			continue
		}
		threshold, due := core.DueMilestone(track, *rt)
		if !due {
			continue
		}
		rt.Milestones = append(rt.Milestones, threshold)
		e.log.Info("recovery milestone", "track", track, "days", threshold)
		e.awardLocked(now, core.MilestoneXP, fmt.Sprintf("%s Recovery Milestone: %d days", victoryRules[track].label, threshold))
		e.emit(core.NewMilestoneReached(now, track, threshold))
	}
}

// prepend keeps collections newest-first.
func prepend[T any](list []T, item T) []T {
	return append([]T{item}, list...)
}
