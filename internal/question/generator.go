// Package question builds multiple-choice vocabulary questions from a
// word bank.
package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"vocabquiz/internal/wordbank"
)

// ErrEmptyQuestion is returned when no target word could be drawn.
var ErrEmptyQuestion = errors.New("no question could be generated")

const (
	defaultOptionCount = 4
	minSameBucketPool  = 5
	maxPoolFill        = 30
)

// Option is one answer choice shown to the user.
type Option struct {
	Word         string `json:"word"`
	PartOfSpeech string `json:"pos"`
}

// Question is a freshly generated quiz prompt. It is never stored server
// side; CorrectWord and PartOfSpeech travel with the rendered form.
type Question struct {
	Meaning         string   `json:"meaning"`
	CorrectWord     string   `json:"correct_word"`
	PartOfSpeech    string   `json:"pos"`
	Options         []Option `json:"options"`
	IncludesCorrect bool     `json:"includes_correct"`
}

// Generator draws questions from a Bank.
type Generator struct {
	bank        *wordbank.Bank
	rng         wordbank.Rand
	optionCount int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRand sets the random source. *rand.Rand is not safe for concurrent
// use, so only pass one to a Generator that is not shared.
func WithRand(r wordbank.Rand) GeneratorOption {
	return func(g *Generator) { g.rng = r }
}

// WithOptionCount sets how many choices a question shows at most.
func WithOptionCount(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.optionCount = n
		}
	}
}

// NewGenerator returns a Generator over bank.
func NewGenerator(bank *wordbank.Bank, opts ...GeneratorOption) *Generator {
	g := &Generator{
		bank:        bank,
		rng:         wordbank.DefaultRand(),
		optionCount: defaultOptionCount,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a new question. About half of all questions leave the
// correct word out of the options entirely.
func (g *Generator) Generate(ctx context.Context) (Question, error) {
	select {
	case <-ctx.Done():
		return Question{}, ctx.Err()
	default:
	}

	if g.bank == nil {
		return Question{}, ErrEmptyQuestion
	}
	target, err := g.bank.RandomEntry(g.rng)
	if err != nil {
		return Question{}, fmt.Errorf("%w: %w", ErrEmptyQuestion, err)
	}

	includeCorrect := g.rng.IntN(2) == 0
	pool := g.DistractorPool(target)

	var options []Option
	distractors := g.optionCount
	if includeCorrect {
		options = append(options, toOption(target))
		distractors--
	}
	options = append(options, lo.Map(g.sample(pool, distractors), func(e wordbank.Entry, _ int) Option {
		return toOption(e)
	})...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	q := Question{
		Meaning:      target.Meaning,
		CorrectWord:  target.Word,
		PartOfSpeech: target.PartOfSpeech,
		Options:      options,
	}
	q.IncludesCorrect = q.contains(target.Word)
	return q, nil
}

// DistractorPool returns the candidate wrong answers for target: its own
// bucket first, topped up from the other buckets in bank order while the
// same-letter pool is small. Words are unique and never equal target.
func (g *Generator) DistractorPool(target wordbank.Entry) []wordbank.Entry {
	home := g.bank.BucketOf(target.Word)
	pool := lo.Filter(g.bank.Bucket(home), func(e wordbank.Entry, _ int) bool {
		return e.Word != target.Word
	})

	if len(pool) < minSameBucketPool {
		for _, key := range g.bank.BucketKeys() {
			if key == home {
				continue
			}
			pool = append(pool, g.bank.Bucket(key)...)
			if len(pool) >= maxPoolFill {
				break
			}
		}
	}

	pool = lo.UniqBy(pool, func(e wordbank.Entry) string { return e.Word })
	return lo.Filter(pool, func(e wordbank.Entry, _ int) bool {
		return e.Word != target.Word
	})
}

// sample picks up to n entries from pool without replacement.
func (g *Generator) sample(pool []wordbank.Entry, n int) []wordbank.Entry {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	n = min(n, len(pool))
	picked := append([]wordbank.Entry(nil), pool...)
	for i := 0; i < n; i++ {
		j := i + g.rng.IntN(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:n]
}

func toOption(e wordbank.Entry) Option {
	return Option{Word: e.Word, PartOfSpeech: e.PartOfSpeech}
}

// contains reports whether word is one of the question's options.
func (q Question) contains(word string) bool {
	return lo.ContainsBy(q.Options, func(o Option) bool { return o.Word == word })
}
