package types

import (
	"vocabquiz/internal/question"
	"vocabquiz/internal/stats"
)

// StatsView is the score block shown on every page.
type StatsView struct {
	Accuracy int `json:"accuracy"`
	Streak   int `json:"streak"`
	Total    int `json:"total"`
	Correct  int `json:"correct"`
}

// NewStatsView derives the displayed score from a session record.
func NewStatsView(s stats.Stats) StatsView {
	return StatsView{
		Accuracy: s.AccuracyPercent(),
		Streak:   s.CurrentStreak,
		Total:    s.TotalQuestions,
		Correct:  s.CorrectAnswers,
	}
}

// QuestionPage feeds index.html.
type QuestionPage struct {
	Question       string            `json:"question"`
	Options        []question.Option `json:"options"`
	IncludeCorrect bool              `json:"include_correct"`
	TotalOptions   int               `json:"total_options"`
	CorrectWord    string            `json:"correct_word"`
	Pos            string            `json:"pos"`
	Stats          StatsView         `json:"stats"`
}

// ResultPage feeds result.html.
type ResultPage struct {
	IsCorrect    bool      `json:"is_correct"`
	UserInput    string    `json:"user_input"`
	SelectedWord string    `json:"selected_word"`
	CorrectWord  string    `json:"correct_word"`
	Definition   string    `json:"definition"`
	Pos          string    `json:"pos"`
	Stats        StatsView `json:"stats"`
}
