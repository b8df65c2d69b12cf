package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vocabquiz/internal/logging"
	"vocabquiz/internal/stats"
	"vocabquiz/internal/types"
	"vocabquiz/internal/wordbank"
)

// questionHandler renders a freshly generated question for the current session.
func (app *App) questionHandler(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx, app.Logger)
	sessionID := app.getOrCreateSession(c)
	current := app.loadStats(ctx, sessionID)

	q, err := app.Generator.Generate(ctx)
	if err != nil {
		app.Metrics.GenerationErrors.Inc()
		log.Error().Err(err).Msg("question generation failed")
		c.Redirect(http.StatusFound, RouteError)
		return
	}
	app.Metrics.questionServed(q.IncludesCorrect)
	log.Debug().
		Str("word", q.CorrectWord).
		Bool("includes_correct", q.IncludesCorrect).
		Int("options", len(q.Options)).
		Msg("question generated")

	c.HTML(http.StatusOK, TemplateQuestion, gin.H{
		"title": AppTitle,
		"page": types.QuestionPage{
			Question:       q.Meaning,
			Options:        q.Options,
			IncludeCorrect: q.IncludesCorrect,
			TotalOptions:   len(q.Options),
			CorrectWord:    q.CorrectWord,
			Pos:            q.PartOfSpeech,
			Stats:          types.NewStatsView(current),
		},
	})
}

// answerHandler grades a submitted answer against the correct word carried
// in the form, records it and renders the result.
func (app *App) answerHandler(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx, app.Logger)
	sessionID := app.getOrCreateSession(c)

	selectedWord := c.PostForm(FieldSelectedWord)
	userInput := strings.TrimSpace(c.PostForm(FieldUserInput))
	correctWord := c.PostForm(FieldCorrectWord)
	pos := c.PostForm(FieldPos)

	userAnswer := selectedWord
	if userAnswer == "" {
		userAnswer = userInput
	}
	isCorrect := isCorrectAnswer(userAnswer, correctWord)

	updated := app.loadStats(ctx, sessionID).Record(isCorrect)
	app.saveStats(ctx, sessionID, updated)
	app.Metrics.answerRecorded(isCorrect)

	log.Info().
		Str("session", sessionID).
		Str("answer", userAnswer).
		Str("correct_word", correctWord).
		Bool("correct", isCorrect).
		Int("streak", updated.CurrentStreak).
		Msg("answer recorded")

	page := types.ResultPage{
		IsCorrect:   isCorrect,
		CorrectWord: correctWord,
		Definition:  app.definitionFor(c, correctWord),
		Pos:         pos,
		Stats:       types.NewStatsView(updated),
	}
	if selectedWord == "" {
		page.UserInput = userInput
	}
	if userInput == "" {
		page.SelectedWord = selectedWord
	}

	c.HTML(http.StatusOK, TemplateResult, gin.H{
		"title": AppTitle,
		"page":  page,
	})
}

// isCorrectAnswer compares case-insensitively. A blank answer is never correct.
func isCorrectAnswer(answer, correctWord string) bool {
	if answer == "" {
		return false
	}
	return strings.ToLower(answer) == strings.ToLower(correctWord)
}

// definitionFor returns the meaning of word, or "" if the word is unknown.
func (app *App) definitionFor(c *gin.Context, word string) string {
	entry, err := app.Bank.Lookup(word)
	if err != nil {
		if errors.Is(err, wordbank.ErrNotFound) && word != "" {
			logging.FromContext(c.Request.Context(), app.Logger).Warn().Str("word", word).Msg("definition not found")
		}
		return ""
	}
	return entry.Meaning
}

// resetHandler clears the session's statistics and starts over.
func (app *App) resetHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	app.saveStats(ctx, sessionID, stats.Reset())
	app.Metrics.Resets.Inc()
	logging.FromContext(ctx, app.Logger).Info().Str("session", sessionID).Msg("statistics reset")
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// errorHandler renders the generic error page.
func (app *App) errorHandler(c *gin.Context) {
	c.HTML(http.StatusOK, TemplateError, gin.H{
		"title": AppTitle,
	})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	resp := gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[app.Config.IsProduction()],
		"words_loaded":    app.Bank.Len(),
		"buckets":         len(app.Bank.BucketKeys()),
		"skipped_lines":   app.Bank.Skipped(),
		"sampling":        app.Bank.Sampling().String(),
		"session_backend": app.Config.SessionBackend,
		"uptime":          formatUptime(uptime),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}
	// Only in-process stores can count their sessions cheaply.
	if counter, ok := app.Sessions.(interface{ Len() int }); ok {
		resp["active_sessions"] = counter.Len()
	}
	c.JSON(http.StatusOK, resp)
}
