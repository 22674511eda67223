package source

import "fmt"

// IncrementalSource enumerates every string of length L in [from,to] over an
// ordered alphabet, in length-major lexicographic order, partitioned across
// workers by a skip/emit/skip cursor advance.
//
// Each worker owns an independent IncrementalSource starting from the same
// global origin; no state is shared between workers. A call to GetWords
// advances this worker's cursor by exactly workers*len(out) candidates,
// landing it on the start of its next partition slice.
type IncrementalSource struct {
	alphabet []byte
	from, to int

	l         int
	digits    []int
	exhausted bool

	id, workers int
}

// NewIncrementalSource returns an IncrementalSource over alphabet (which the
// caller must have already deduplicated via DedupeAlphabet), enumerating
// lengths [from,to].
func NewIncrementalSource(from, to int, alphabet []byte) *IncrementalSource {
	return &IncrementalSource{alphabet: alphabet, from: from, to: to}
}

// Init validates the bounds/alphabet and positions the cursor at the start
// of the global sequence; GetWords then skips forward to this worker's
// slice on each call.
func (s *IncrementalSource) Init(id, workers int) error {
	if len(s.alphabet) == 0 {
		return fmt.Errorf("incremental: empty alphabet")
	}
	if s.from < 1 || s.from > s.to {
		return fmt.Errorf("incremental: invalid bounds from=%d to=%d", s.from, s.to)
	}
	s.id = id
	s.workers = workers
	s.resetCursor(s.from)
	s.exhausted = false
	return nil
}

// Close is a no-op; IncrementalSource holds no external resources.
func (s *IncrementalSource) Close() error { return nil }

// GetWords fills out with up to len(out) candidates from this worker's next
// partition slice.
func (s *IncrementalSource) GetWords(out [][]byte) (int, error) {
	b := len(out)
	s.advance(s.id*b, nil)
	filled := s.advance(b, out)
	s.advance((s.workers-s.id-1)*b, nil)
	return filled, nil
}

// resetCursor sets digits[0..L-2]=0 and digits[L-1]=-1, so that the first
// step() call turns the cursor into L copies of alphabet[0].
func (s *IncrementalSource) resetCursor(l int) {
	s.l = l
	if cap(s.digits) < l {
		s.digits = make([]int, l)
	}
	s.digits = s.digits[:l]
	for i := 0; i < l-1; i++ {
		s.digits[i] = 0
	}
	s.digits[l-1] = -1
}

// step increments the rightmost digit, carrying left on overflow. It
// returns false if the carry propagates past position 0, meaning the
// current length is exhausted.
func (s *IncrementalSource) step() bool {
	for i := s.l - 1; i >= 0; i-- {
		s.digits[i]++
		if s.digits[i] < len(s.alphabet) {
			return true
		}
		s.digits[i] = 0
	}
	return false
}

// advanceOne moves the cursor to the next candidate in the global sequence,
// rolling over to the next length (and resetting) as needed. It returns
// false once L has advanced past s.to.
func (s *IncrementalSource) advanceOne() bool {
	for {
		if s.l > s.to {
			s.exhausted = true
			return false
		}
		if s.step() {
			return true
		}
		s.l++
		if s.l > s.to {
			s.exhausted = true
			return false
		}
		s.resetCursor(s.l)
	}
}

// advance moves the cursor forward by up to n candidates. If out is
// non-nil, each candidate is written into out[0..count); otherwise the
// candidates are discarded (a partition skip). It stops early once the
// sequence is exhausted.
func (s *IncrementalSource) advance(n int, out [][]byte) int {
	count := 0
	for count < n {
		if s.exhausted || !s.advanceOne() {
			break
		}
		if out != nil {
			dst := out[count][:cap(out[count])]
			written := s.writeCurrent(dst)
			out[count] = dst[:written]
		}
		count++
	}
	return count
}

// writeCurrent writes the current cursor's string into dst, returning its
// length.
func (s *IncrementalSource) writeCurrent(dst []byte) int {
	for i := 0; i < s.l; i++ {
		dst[i] = s.alphabet[s.digits[i]]
	}
	return s.l
}
