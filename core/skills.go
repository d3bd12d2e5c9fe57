package core

// SkillRequirement gates a skill behind a level and prerequisite skills.
type SkillRequirement struct {
	Skill    Skill
	Level    int
	Requires []Skill
}

// SkillTree is evaluated in order, so a skill and its follow-up can unlock
// in the same pass.
var SkillTree = []SkillRequirement{
	{"advanced-discipline", 5, []Skill{"basic-discipline"}},
	{"master-discipline", 10, []Skill{"advanced-discipline"}},
	{"strength-training", 3, []Skill{"basic-fitness"}},
	{"endurance-training", 3, []Skill{"basic-fitness"}},
	{"meal-planning", 4, []Skill{"basic-nutrition"}},
	{"advanced-nutrition", 8, []Skill{"meal-planning"}},
	{"breathing-mastery", 3, []Skill{"basic-meditation"}},
	{"zen-master", 12, []Skill{"breathing-mastery"}},
}

// UnlockSkills appends every skill s now qualifies for and returns them.
func UnlockSkills(s *PlayerState) []Skill {
	var unlocked []Skill
	for _, req := range SkillTree {
		if s.HasSkill(req.Skill) || s.Level < req.Level {
			continue
		}
		ok := true
		for _, pre := range req.Requires {
			if !s.HasSkill(pre) {
				ok = false
				break
			}
		}
		if ok {
			s.UnlockedSkills = append(s.UnlockedSkills, req.Skill)
			unlocked = append(unlocked, req.Skill)
		}
	}
	return unlocked
}
