// Package source implements the candidate-generation pipeline: dictionary
// streaming with rewrite rules, and alphabet-driven incremental enumeration,
// both partitioned across a fixed worker count.
package source

import "github.com/Asylian21/passcrack/rules"

// Kind tags which generation strategy a Descriptor selects.
type Kind int

const (
	// Unspecified defaults (with a warning) to Incremental, from=1 to=8,
	// using DefaultAlphabet.
	Unspecified Kind = iota
	Dictionary
	Incremental
)

// Descriptor is the tagged source configuration handed to the façade.
type Descriptor struct {
	Kind Kind

	// Dictionary fields.
	Path  string
	Rules rules.Set

	// Incremental fields.
	From, To int
	Alphabet []byte
}

// DefaultAlphabet is the 93-character default incremental alphabet, in the
// order candidates are enumerated.
const DefaultAlphabet = `abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ 0123456789-_.,+:;!"$%^&*()[]{}@#~'?/\<>|`

// DefaultFrom and DefaultTo bound the default incremental mode.
const (
	DefaultFrom = 1
	DefaultTo   = 8
)

// MaxWordLength bounds the length of any candidate this package produces.
const MaxWordLength = 256

// WordBufferSize is the default batch size a single GetWords call fills.
const WordBufferSize = 64

// DedupeAlphabet removes duplicate characters from alphabet, first
// occurrence wins. This is also how the PD_CHARMAP environment variable's
// value is normalized before use.
func DedupeAlphabet(alphabet []byte) []byte {
	seen := make(map[byte]bool, len(alphabet))
	out := make([]byte, 0, len(alphabet))
	for _, b := range alphabet {
		if seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}
