package core

import "time"

var milestoneThresholds = map[Track][]int{
	TrackPorn:    {1, 7, 30, 90},
	TrackAlcohol: {1, 7, 30, 90, 365},
}

// MilestoneThresholds returns the day counts that pay a milestone bonus on track.
func MilestoneThresholds(t Track) []int {
	return append([]int(nil), milestoneThresholds[t]...)
}

// DueMilestone returns the threshold the track's current day counter sits on
// if it has not been rewarded yet during this streak.
func DueMilestone(t Track, rt RecoveryTrack) (int, bool) {
	for _, th := range milestoneThresholds[t] {
		if rt.Days == th && !rt.HasMilestone(th) {
			return th, true
		}
	}
	return 0, false
}

// Reset restarts the track at now. The pre-reset day counter folds into
// LongestStreak and the milestone list is cleared for the new streak.
func (t *RecoveryTrack) Reset(now time.Time) {
	if t.Days > t.LongestStreak {
		t.LongestStreak = t.Days
	}
	t.Relapses++
	t.Days = 0
	t.StartDate = now
	reset := now
	t.LastResetDate = &reset
	t.Milestones = []int{}
}
