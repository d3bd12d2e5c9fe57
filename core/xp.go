package core

// Fixed rewards.
const (
	UrgeVictoryXP      = 25
	PornVictoryXP      = 30
	AlcoholVictoryXP   = 25
	MilestoneXP        = 50
	EmergencyToolXP    = 15
	RecoveryToolXP     = 20
	MeditationXP       = 15
	LevelUpPoolBonus   = 10
	MaxAttributeGrowth = 3
)

// XPRequired is the XP needed to advance from level to level+1.
func XPRequired(level int) int {
	return level*100 + (level-1)*50
}

var rankThresholds = []struct {
	level int
	rank  Rank
}{
	{50, RankLegend},
	{30, RankMaster},
	{20, RankDiamond},
	{10, RankPlatinum},
	{5, RankGold},
	{2, RankSilver},
}

// RankForLevel returns the highest rank whose threshold level is met.
func RankForLevel(level int) Rank {
	for _, t := range rankThresholds {
		if level >= t.level {
			return t.rank
		}
	}
	return RankBronze
}

// DisciplineLevelFor is one level per full week clean, starting at 1.
func DisciplineLevelFor(cleanStreak int) int {
	if cleanStreak < 0 {
		cleanStreak = 0
	}
	return cleanStreak/7 + 1
}
