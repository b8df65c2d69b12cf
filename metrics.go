package main

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the quiz counters. Each App gets its own registry so tests
// can build many apps in one process.
type Metrics struct {
	Registry         *prometheus.Registry
	QuestionsServed  *prometheus.CounterVec
	Answers          *prometheus.CounterVec
	GenerationErrors prometheus.Counter
	Resets           prometheus.Counter
}

// NewMetrics registers the quiz collectors plus the Go runtime collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		QuestionsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: AppName,
			Name:      "questions_served_total",
			Help:      "Questions rendered, by whether the correct word was among the options.",
		}, []string{"includes_correct"}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: AppName,
			Name:      "answers_total",
			Help:      "Submitted answers by outcome.",
		}, []string{"result"}),
		GenerationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: AppName,
			Name:      "question_generation_errors_total",
			Help:      "Requests redirected to the error page because no question could be built.",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: AppName,
			Name:      "session_resets_total",
			Help:      "Explicit statistics resets.",
		}),
	}
	reg.MustRegister(
		m.QuestionsServed,
		m.Answers,
		m.GenerationErrors,
		m.Resets,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) questionServed(includesCorrect bool) {
	m.QuestionsServed.WithLabelValues(strconv.FormatBool(includesCorrect)).Inc()
}

func (m *Metrics) answerRecorded(correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.Answers.WithLabelValues(result).Inc()
}

// handler exposes the registry for scraping.
func (m *Metrics) handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
