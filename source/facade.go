package source

import "log"

// Source is the uniform interface the worker loop drives, regardless of
// which generation strategy backs it.
type Source interface {
	// Init prepares the source for worker id of workers total workers,
	// positioning it at the start of its partition slice.
	Init(id, workers int) error

	// GetWords fills out with up to len(out) candidates, returning the
	// number actually written. A short count signals exhaustion; once a
	// Source returns 0 it must keep returning 0.
	GetWords(out [][]byte) (int, error)

	// Close releases any resources the source holds (file handles, and
	// so on) on a best-effort basis.
	Close() error
}

// New builds the Source described by d. On Unspecified it defaults (with a
// logged warning) to Incremental, from=1 to=8, DefaultAlphabet.
func New(d Descriptor) Source {
	switch d.Kind {
	case Dictionary:
		return NewDictionarySource(d.Path, d.Rules)
	case Incremental:
		alphabet := DedupeAlphabet(d.Alphabet)
		if len(alphabet) == 0 {
			alphabet = DedupeAlphabet([]byte(DefaultAlphabet))
		}
		return NewIncrementalSource(d.From, d.To, alphabet)
	default:
		log.Printf("source: mode unspecified, defaulting to incremental %d:%d with the default alphabet", DefaultFrom, DefaultTo)
		return NewIncrementalSource(DefaultFrom, DefaultTo, DedupeAlphabet([]byte(DefaultAlphabet)))
	}
}
