package progression

// AchievementXP is granted once per unlocked achievement.
const AchievementXP = 50

// AchievementStats is the snapshot threshold achievements are checked against.
type AchievementStats struct {
	GamesPlayed        int
	LessonsCompleted   int
	PerfectScores      int
	Level              int
	StreakDays         int
	WordsLearned       int
	VocabularyMastered int
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	// Met is nil for achievements that are only unlocked explicitly by the client.
	Met func(AchievementStats) bool `json:"-"`
}

var Achievements = []Achievement{
	{ID: "first_game", Name: "Getting Started", Description: "Complete your first game", Icon: "🎮",
		Met: func(s AchievementStats) bool { return s.GamesPlayed >= 1 }},
	{ID: "five_games", Name: "Enthusiast", Description: "Complete 5 games", Icon: "🌟",
		Met: func(s AchievementStats) bool { return s.GamesPlayed >= 5 }},
	{ID: "ten_games", Name: "Dedicated Learner", Description: "Complete 10 games", Icon: "🏆",
		Met: func(s AchievementStats) bool { return s.GamesPlayed >= 10 }},
	{ID: "perfect_score", Name: "Perfectionist", Description: "Get a perfect score in any game", Icon: "💯",
		Met: func(s AchievementStats) bool { return s.PerfectScores >= 1 }},
	{ID: "first_lesson", Name: "First Steps", Description: "Complete your first lesson", Icon: "📘",
		Met: func(s AchievementStats) bool { return s.LessonsCompleted >= 1 }},
	{ID: "level_10", Name: "Rising Star", Description: "Reach level 10", Icon: "🚀",
		Met: func(s AchievementStats) bool { return s.Level >= 10 }},
	{ID: "week_streak", Name: "On Fire", Description: "Keep a 7 day streak", Icon: "🔥",
		Met: func(s AchievementStats) bool { return s.StreakDays >= 7 }},
	{ID: "fifty_words", Name: "Word Collector", Description: "Learn 50 words", Icon: "📚",
		Met: func(s AchievementStats) bool { return s.WordsLearned >= 50 }},
	{ID: "vocabulary_master", Name: "Vocabulary Master", Description: "Master 10 words", Icon: "🧠",
		Met: func(s AchievementStats) bool { return s.VocabularyMastered >= 10 }},
	// Game specific achievements are judged by the client.
	{ID: "speed_demon", Name: "Speed Demon", Description: "Complete typing challenge with 60+ WPM", Icon: "⚡"},
	{ID: "master_listener", Name: "Master Listener", Description: "Perfect score in listening game", Icon: "🎧"},
	{ID: "pronunciation_pro", Name: "Pronunciation Pro", Description: "Perfect score in pronunciation practice", Icon: "🎤"},
	{ID: "memory_master", Name: "Memory Master", Description: "Complete Memory Match in under 60 seconds", Icon: "🧩"},
	{ID: "word_wizard", Name: "Word Wizard", Description: "Complete 5 word scramble games", Icon: "🔮"},
	{ID: "puzzle_solver", Name: "Puzzle Solver", Description: "Complete the crossword puzzle", Icon: "🧩"},
}

// FindAchievement looks up a definition by id.
func FindAchievement(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// EarnedAchievements lists threshold achievements met by stats that are not in owned.
func EarnedAchievements(stats AchievementStats, owned map[string]bool) []Achievement {
	var out []Achievement
	for _, a := range Achievements {
		if a.Met == nil || owned[a.ID] {
			continue
		}
		if a.Met(stats) {
			out = append(out, a)
		}
	}
	return out
}
