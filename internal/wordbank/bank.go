// Package wordbank loads the bundled dictionary and indexes it into
// first-letter buckets. A Bank is read-only once built and may be shared
// by any number of goroutines.
package wordbank

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/samber/lo"
)

var (
	// ErrLoad is returned when the source cannot be read or yields no entries.
	ErrLoad = errors.New("word list could not be loaded")
	// ErrNotFound is returned by Lookup for unknown words.
	ErrNotFound = errors.New("word not found")
	// ErrEmpty is returned by RandomEntry when the bank has no entries.
	ErrEmpty = errors.New("word bank is empty")
)

// Entry is one dictionary line.
type Entry struct {
	Word         string `json:"word"`
	PartOfSpeech string `json:"pos"`
	Meaning      string `json:"meaning"`
}

// Rand is the randomness a Bank and its callers draw from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRand returns a Rand backed by the concurrency-safe global source.
func DefaultRand() Rand { return globalRand{} }

// Bank holds entries grouped by bucket key, in first-seen order.
type Bank struct {
	order    []string
	buckets  map[string][]Entry
	index    map[string]Entry
	sampling Sampling
	skipped  int
}

// Option configures a Bank.
type Option func(*Bank)

// WithSampling selects how RandomEntry picks a word.
func WithSampling(s Sampling) Option {
	return func(b *Bank) { b.sampling = s }
}

func newBank(opts []Option) *Bank {
	b := &Bank{
		buckets: make(map[string][]Entry),
		index:   make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// add inserts e unless its word is empty or already present.
func (b *Bank) add(e Entry) bool {
	if e.Word == "" {
		return false
	}
	if _, dup := b.index[e.Word]; dup {
		return false
	}
	key := bucketKey(e.Word)
	if _, ok := b.buckets[key]; !ok {
		b.order = append(b.order, key)
	}
	b.buckets[key] = append(b.buckets[key], e)
	b.index[e.Word] = e
	return true
}

// New builds a Bank from already parsed entries.
func New(entries []Entry, opts ...Option) *Bank {
	b := newBank(opts)
	for _, e := range entries {
		if !b.add(e) {
			b.skipped++
		}
	}
	return b
}

// Load reads a word list from r. Malformed lines and duplicate words are
// skipped and counted; they never fail the load.
func Load(r io.Reader, opts ...Option) (*Bank, error) {
	b := newBank(opts)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		e, ok := ParseLine(scanner.Text())
		if !ok || !b.add(e) {
			b.skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if len(b.index) == 0 {
		return nil, fmt.Errorf("%w: no usable entries", ErrLoad)
	}
	return b, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts ...Option) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	b, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Lookup returns the entry for word, matched exactly.
func (b *Bank) Lookup(word string) (Entry, error) {
	e, ok := b.index[word]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// RandomEntry draws one entry according to the bank's Sampling.
func (b *Bank) RandomEntry(r Rand) (Entry, error) {
	if len(b.index) == 0 {
		return Entry{}, ErrEmpty
	}
	if b.sampling == SampleByWord {
		n := r.IntN(len(b.index))
		for _, key := range b.order {
			bucket := b.buckets[key]
			if n < len(bucket) {
				return bucket[n], nil
			}
			n -= len(bucket)
		}
	}
	bucket := b.buckets[b.order[r.IntN(len(b.order))]]
	return bucket[r.IntN(len(bucket))], nil
}

// Bucket returns the entries filed under key. The slice must not be modified.
func (b *Bank) Bucket(key string) []Entry {
	return b.buckets[key]
}

// BucketOf returns the bucket key a word is filed under.
func (b *Bank) BucketOf(word string) string {
	return bucketKey(word)
}

// BucketKeys returns bucket keys in iteration order.
func (b *Bank) BucketKeys() []string {
	return append([]string(nil), b.order...)
}

// Entries returns every entry in bucket iteration order.
func (b *Bank) Entries() []Entry {
	return lo.FlatMap(b.order, func(key string, _ int) []Entry {
		return b.buckets[key]
	})
}

// Len returns the number of loaded entries.
func (b *Bank) Len() int { return len(b.index) }

// Skipped returns how many source lines were ignored.
func (b *Bank) Skipped() int { return b.skipped }

// Sampling returns the configured sampling mode.
func (b *Bank) Sampling() Sampling { return b.sampling }
