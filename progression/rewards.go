package progression

// Base rewards before any boost.
const (
	LessonBaseXP         = 20
	GameBaseXP           = 10
	CorrectReviewXP      = 2
	IncorrectReviewXP    = 1
	FirstCompletionCoins = 10
	CoinsPerStar         = 5
)

func LessonXP(score int) int {
	return LessonBaseXP + score/10
}

func GameXP(score int) int {
	if score < 0 {
		score = 0
	}
	return GameBaseXP + score/10
}

func ReviewXP(correct bool) int {
	if correct {
		return CorrectReviewXP
	}
	return IncorrectReviewXP
}

// LessonCoins is paid once, on the first completion of a lesson.
func LessonCoins(stars int) int {
	return FirstCompletionCoins + CoinsPerStar*stars
}
