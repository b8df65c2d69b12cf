package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"vocabquiz/internal/question"
	"vocabquiz/internal/session"
	"vocabquiz/internal/wordbank"
)

// App holds the shared, process-wide state of the quiz server. The word
// bank is immutable; per-user state lives only in Sessions.
type App struct {
	Config    *Config
	Bank      *wordbank.Bank
	Generator *question.Generator
	Sessions  session.Store
	Metrics   *Metrics
	Logger    zerolog.Logger

	LimiterMap   map[string]*clientLimiter
	LimiterMutex sync.Mutex
	StartTime    time.Time
}

// clientLimiter is one client's token bucket and when it was last used.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewApp wires an App around an already loaded word bank.
func NewApp(cfg *Config, bank *wordbank.Bank, store session.Store, logger zerolog.Logger) *App {
	return &App{
		Config:     cfg,
		Bank:       bank,
		Generator:  question.NewGenerator(bank),
		Sessions:   store,
		Metrics:    NewMetrics(),
		Logger:     logger,
		LimiterMap: make(map[string]*clientLimiter),
		StartTime:  time.Now(),
	}
}
