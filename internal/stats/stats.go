// Package stats tracks a session's running quiz score.
package stats

// Stats is the per-session score record. The zero value is a fresh session.
type Stats struct {
	TotalQuestions int `json:"total_questions"`
	CorrectAnswers int `json:"correct_answers"`
	CurrentStreak  int `json:"current_streak"`
}

// Record returns s updated with one more answer.
func (s Stats) Record(isCorrect bool) Stats {
	s.TotalQuestions++
	if isCorrect {
		s.CorrectAnswers++
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 0
	}
	return s
}

// AccuracyPercent returns the floored percentage of correct answers,
// or 100 before any question has been answered.
func (s Stats) AccuracyPercent() int {
	if s.TotalQuestions <= 0 {
		return 100
	}
	return s.CorrectAnswers * 100 / s.TotalQuestions
}

// Valid reports whether the counters are mutually consistent.
func (s Stats) Valid() bool {
	return s.TotalQuestions >= 0 &&
		s.CorrectAnswers >= 0 &&
		s.CurrentStreak >= 0 &&
		s.CorrectAnswers <= s.TotalQuestions &&
		s.CurrentStreak <= s.CorrectAnswers
}

// Reset returns the zero record.
func Reset() Stats {
	return Stats{}
}
