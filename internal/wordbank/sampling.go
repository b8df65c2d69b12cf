package wordbank

import "fmt"

// Sampling controls how RandomEntry weighs words.
type Sampling int

const (
	// SampleByBucket picks a bucket uniformly, then a word within it, so
	// every first letter is equally likely regardless of bucket size.
	SampleByBucket Sampling = iota
	// SampleByWord picks uniformly across all words.
	SampleByWord
)

func (s Sampling) String() string {
	switch s {
	case SampleByWord:
		return "word"
	default:
		return "bucket"
	}
}

// ParseSampling maps a config value to a Sampling.
func ParseSampling(v string) (Sampling, error) {
	switch v {
	case "", "bucket":
		return SampleByBucket, nil
	case "word":
		return SampleByWord, nil
	}
	return SampleByBucket, fmt.Errorf("unknown sampling mode %q (want bucket or word)", v)
}
