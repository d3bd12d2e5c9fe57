package engine

import (
	"context"
	"strings"
	"time"

	"lifesystem/core"
)

// AwardXP adds amount to the player's XP and applies any level-ups it causes.
func (e *Engine) AwardXP(ctx context.Context, amount int, source string) error {
	if amount <= 0 {
		return &core.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if strings.TrimSpace(source) == "" {
		source = "Action"
	}
	return e.do(ctx, func(now time.Time) error {
		e.awardLocked(now, amount, source)
		return nil
	})
}

func (e *Engine) awardLocked(now time.Time, amount int, source string) {
	s := &e.state
	s.XP += amount
	s.TotalXP += amount
	e.emit(core.NewXPAwarded(now, amount, source))
	e.levelUpLocked(now)
}

// levelUpLocked consumes XP until it is below the current requirement, so a
// large award can cross several levels.
func (e *Engine) levelUpLocked(now time.Time) {
	s := &e.state
	for s.XP >= core.XPRequired(s.Level) {
		s.XP -= core.XPRequired(s.Level)
		s.Level++

		for _, attr := range []*int{&s.Attributes.Strength, &s.Attributes.Intelligence, &s.Attributes.Endurance, &s.Attributes.Wisdom} {
			*attr += 1 + e.rng.IntN(core.MaxAttributeGrowth)
		}
		for _, p := range []*core.Pool{&s.Health, &s.Mana, &s.Energy} {
			p.Max += core.LevelUpPoolBonus
			p.Refill()
		}
		s.Rank = core.RankForLevel(s.Level)

		e.log.Info("level up", "level", s.Level, "rank", s.Rank)
		e.emit(core.NewLevelUp(now, s.Level, s.Rank))

		for _, skill := range core.UnlockSkills(s) {
			e.log.Info("skill unlocked", "skill", skill)
			e.emit(core.NewSkillUnlocked(now, skill))
		}
	}
}
