package rules

// Status values returned by Rewriter.Next.
const (
	// StatusDone means no more variants for the armed word; the caller
	// should read the next dictionary word.
	StatusDone = 0
	// StatusVariant means a variant was written to the destination buffer.
	StatusVariant = 1
	// StatusRetry means the current internal rule step produced no output
	// but more steps are pending; the caller should call Next again
	// without fetching a new base word.
	StatusRetry = -1
)

var leetSub = map[byte]byte{
	'a': '4', 'A': '4',
	'e': '3', 'E': '3',
	'i': '1', 'I': '1',
	'o': '0', 'O': '0',
	's': '5', 'S': '5',
	't': '7', 'T': '7',
}

// Rewriter enumerates rule-derived variants of a base word, one at a time.
// It is not safe for concurrent use; each worker owns its own Rewriter.
type Rewriter struct {
	set  Set
	base []byte

	ruleIdx int  // index into order
	digit   byte // next digit to emit for Prepend/AppendDigit, '0'..'9'
	armed   bool
}

// NewRewriter returns a Rewriter configured with the given rule set. The set
// is fixed for the lifetime of the Rewriter.
func NewRewriter(set Set) *Rewriter {
	return &Rewriter{set: set}
}

// Reset arms the rewriter with a new base word, restarting rule iteration
// from the beginning. The dictionary source calls this after reading each
// raw line.
func (rw *Rewriter) Reset(word []byte) {
	if cap(rw.base) < len(word) {
		rw.base = make([]byte, len(word))
	}
	rw.base = rw.base[:len(word)]
	copy(rw.base, word)
	rw.ruleIdx = 0
	rw.digit = '0'
	rw.armed = !rw.set.Empty()
}

// Armed reports whether there is more rewriting pending for the last word
// handed to Reset.
func (rw *Rewriter) Armed() bool { return rw.armed }

// Next writes the next rule-derived variant of the armed base word into dst
// (which must have capacity >= len(base word)+1, to allow for digit
// prepend/append) and returns the number of bytes written and a status
// (StatusVariant, StatusDone, or StatusRetry).
func (rw *Rewriter) Next(dst []byte) (int, int) {
	if !rw.armed {
		return 0, StatusDone
	}
	if rw.ruleIdx >= len(order) {
		rw.armed = false
		return 0, StatusDone
	}

	kind := order[rw.ruleIdx]
	if !rw.set.Has(kind) {
		rw.ruleIdx++
		return 0, StatusRetry
	}

	switch kind {
	case PrependDigit:
		n := rw.emitDigitVariant(dst, true)
		return n, StatusVariant
	case AppendDigit:
		n := rw.emitDigitVariant(dst, false)
		return n, StatusVariant
	case Leet1337:
		rw.ruleIdx++
		return applyLeet(dst, rw.base), StatusVariant
	default:
		rw.ruleIdx++
		return applySimpleRule(dst, rw.base, kind), StatusVariant
	}
}

// emitDigitVariant emits the variant for the current digit ('0'..'9') of the
// Prepend/AppendDigit rule, advancing to the next digit or, after '9', to the
// next rule kind.
func (rw *Rewriter) emitDigitVariant(dst []byte, prepend bool) int {
	var n int
	if prepend {
		dst[0] = rw.digit
		n = 1 + copy(dst[1:], rw.base)
	} else {
		n = copy(dst, rw.base)
		dst[n] = rw.digit
		n++
	}
	if rw.digit == '9' {
		rw.digit = '0'
		rw.ruleIdx++
	} else {
		rw.digit++
	}
	return n
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func foldUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func foldLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// applySimpleRule copies base into dst with a single-position or
// whitespace-boundary case fold applied, per the rule kind.
func applySimpleRule(dst, base []byte, kind Rule) int {
	n := copy(dst, base)
	if n == 0 {
		return n
	}
	switch kind {
	case AllUpper:
		for i := 0; i < n; i++ {
			dst[i] = foldUpper(dst[i])
		}
	case AllLower:
		for i := 0; i < n; i++ {
			dst[i] = foldLower(dst[i])
		}
	case FirstUpper:
		dst[0] = foldUpper(dst[0])
	case FirstLower:
		dst[0] = foldLower(dst[0])
	case LastUpper:
		dst[n-1] = foldUpper(dst[n-1])
	case LastLower:
		dst[n-1] = foldLower(dst[n-1])
	case UpperWordBeginning:
		dst[0] = foldUpper(dst[0])
		for i := 1; i < n; i++ {
			if isSpace(base[i-1]) {
				dst[i] = foldUpper(dst[i])
			}
		}
	case LowerWordBeginning:
		dst[0] = foldLower(dst[0])
		for i := 1; i < n; i++ {
			if isSpace(base[i-1]) {
				dst[i] = foldLower(dst[i])
			}
		}
	}
	return n
}

// applyLeet writes the single fully-substituted 1337-speak variant of base
// into dst: every matching position is substituted at once (see DESIGN.md's
// Open Question decision -- not the 2^k subset powerset).
func applyLeet(dst, base []byte) int {
	n := copy(dst, base)
	for i := 0; i < n; i++ {
		if sub, ok := leetSub[dst[i]]; ok {
			dst[i] = sub
		}
	}
	return n
}
