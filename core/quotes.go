package core

var disciplineQuotes = []string{
	"The strongest people win battles we know nothing about.",
	"Discipline is choosing between what you want now and what you want most.",
	"Your future self is counting on the choices you make today.",
	"The pain of discipline weighs ounces. The pain of regret weighs tons.",
	"Every urge defeated makes you stronger than before.",
	"You are rewriting your story with every choice you make.",
	"Progress, not perfection. Every step forward counts.",
	"The hero's journey includes falling down and getting back up.",
	"Your worth isn't determined by your struggles, but by your resilience.",
	"Today's discipline is tomorrow's freedom.",
	"You are more powerful than your urges.",
	"Growth happens outside your comfort zone, including the discomfort of urges.",
}

// RandomQuote picks a discipline quote using pick(n) in [0,n).
func RandomQuote(pick func(n int) int) string {
	return disciplineQuotes[pick(len(disciplineQuotes))]
}

var emergencyMessages = map[string]string{
	"pushups":     "20 Push-ups completed! Your body is your fortress!",
	"cold-shower": "Cold shower taken! You reset your nervous system!",
	"breathing":   "Breathing exercise completed! You found your center!",
	"walk":        "Walk completed! You changed your environment and mindset!",
	"call":        "Remember: Reaching out shows strength, not weakness!",
}

var recoveryToolMessages = map[string]string{
	"cold-shower":  "COLD SHOWER ACTIVATED! You've reset your nervous system and broken the pattern!",
	"pushups":      "20 PUSH-UPS COMPLETED! You've redirected that energy into strength!",
	"breathing":    "DEEP BREATHING ACTIVATED! You've found your center and calm!",
	"call-sponsor": "REACH OUT FOR SUPPORT! Connection is strength, not weakness!",
	"walk":         "ENVIRONMENT CHANGED! You've physically moved away from triggers!",
	"meditation":   "MEDITATION ACTIVATED! You've found peace in the present moment!",
	"journal":      "FEELINGS EXPRESSED! Writing helps process and release emotions!",
	"distraction":  "HEALTHY DISTRACTION! You've engaged your mind elsewhere!",
}

// EmergencyMessage is the encouragement shown after a discipline emergency tool.
func EmergencyMessage(tool string) string {
	if m, ok := emergencyMessages[tool]; ok {
		return m
	}
	return "Emergency tool used!"
}

// RecoveryToolMessage is the encouragement shown after a recovery emergency tool.
func RecoveryToolMessage(tool string) string {
	if m, ok := recoveryToolMessages[tool]; ok {
		return m
	}
	return "Emergency recovery tool used!"
}
