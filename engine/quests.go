package engine

import (
	"context"
	"strings"
	"time"

	"lifesystem/core"
)

// GenerateDailyQuests draws today's quests once per calendar day. Later calls
// on the same day return the existing set untouched.
func (e *Engine) GenerateDailyQuests(ctx context.Context) ([]core.Quest, error) {
	var quests []core.Quest
	err := e.do(ctx, func(now time.Time) error {
		generated := e.generateQuestsLocked(now)
		quests = append([]core.Quest(nil), e.state.DailyQuests...)
		if !generated {
			return errUnchanged
		}
		return nil
	})
	return quests, err
}

func (e *Engine) generateQuestsLocked(now time.Time) bool {
	day := core.DayKey(now, e.loc)
	if e.state.LastQuestGenerationDate == day {
		return false
	}

	order := make([]int, len(core.QuestTemplates))
	for i := range order {
		order[i] = i
	}
	e.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	n := core.QuestCount(e.rng.IntN(2))

	quests := make([]core.Quest, 0, n)
	for _, idx := range order[:n] {
		quests = append(quests, core.NewQuest(core.QuestTemplates[idx], day))
	}
	e.state.DailyQuests = quests
	e.state.LastQuestGenerationDate = day

	e.log.Debug("daily quests generated", "day", day, "count", n)
	e.emit(core.NewQuestsGenerated(now, quests))
	return true
}

// CheckQuestProgress reports an action towards today's quests.
func (e *Engine) CheckQuestProgress(ctx context.Context, action string, amount int) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return &core.ValidationError{Field: "action", Reason: "required"}
	}
	if amount <= 0 {
		return &core.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	return e.do(ctx, func(now time.Time) error {
		e.progressQuestsLocked(now, action, amount)
		return nil
	})
}

func (e *Engine) progressQuestsLocked(now time.Time, action string, amount int) {
	quests := e.state.DailyQuests
	for i := range quests {
		q := &quests[i]
		if q.Completed || !core.QuestMatches(q.MatchType, action) {
			continue
		}
		q.Progress += amount
		if q.Progress >= q.Target {
			e.completeQuestLocked(now, q)
		}
	}

	if action != core.ActionClean {
		return
	}
	for i := range quests {
		if q := &quests[i]; q.MatchType == core.ActionClean && !q.Completed {
			q.Progress = q.Target
			e.completeQuestLocked(now, q)
			return
		}
	}
}

func (e *Engine) completeQuestLocked(now time.Time, q *core.Quest) {
	q.Completed = true
	e.emit(core.NewQuestCompleted(now, *q))
	e.awardLocked(now, q.XPReward, "Quest: "+q.Title)
}
