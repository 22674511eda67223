package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Asylian21/passcrack/rules"
)

// DictionarySource streams candidates from a newline-separated word file,
// round-robin block-partitioned across workers, each word optionally fed
// through a Rewriter before the file advances.
//
// Each worker must construct its own DictionarySource against its own file
// handle; a DictionarySource is not safe to share across workers.
type DictionarySource struct {
	path    string
	ruleSet rules.Set

	file   *os.File
	reader *bufio.Reader

	rewriter      *rules.Rewriter
	lastWord      []byte
	moreRewriting bool

	id, workers  int
	linesInSlice int
	started      bool
}

// NewDictionarySource returns a DictionarySource for path, rewriting each
// word with ruleSet (which may be empty).
func NewDictionarySource(path string, ruleSet rules.Set) *DictionarySource {
	return &DictionarySource{
		path:     path,
		ruleSet:  ruleSet,
		rewriter: rules.NewRewriter(ruleSet),
	}
}

// Init opens the file for worker id. The first GetWords call skips the
// first id*len(out) lines, placing the stream at the start of worker id's
// first partition slice, so the block size is the same len(out) that the
// later (workers-1)*len(out) skips use.
func (d *DictionarySource) Init(id, workers int) error {
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("dictionary: failed to open %s: %s", d.path, err)
	}
	d.file = f
	d.reader = bufio.NewReader(f)
	d.id = id
	d.workers = workers
	d.linesInSlice = 0
	d.moreRewriting = false
	d.started = false
	return nil
}

// Close releases the underlying file handle.
func (d *DictionarySource) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// GetWords fills out with up to len(out) candidates: rewrite variants of the
// armed word first, then raw dictionary lines, advancing the rewriter and
// the partition skip as each line is consumed.
func (d *DictionarySource) GetWords(out [][]byte) (int, error) {
	b := len(out)
	filled := 0

	if !d.started {
		d.started = true
		if err := d.skipLines(d.id * b); err != nil {
			return 0, fmt.Errorf("dictionary: failed to skip to worker %d's slice: %s", d.id, err)
		}
	}

	for filled < b {
		if d.moreRewriting {
			n, status := d.rewriter.Next(slotBuf(out[filled]))
			switch status {
			case rules.StatusVariant:
				out[filled] = out[filled][:n]
				filled++
				continue
			case rules.StatusRetry:
				continue
			default: // StatusDone
				d.moreRewriting = false
			}
		}

		line, ok, err := d.readRawLine()
		if err != nil {
			return filled, err
		}
		if !ok {
			return filled, nil
		}

		d.linesInSlice++
		d.lastWord = append(d.lastWord[:0], line...)

		n := copy(slotBuf(out[filled]), line)
		out[filled] = out[filled][:n]
		filled++

		if !d.ruleSet.Empty() {
			d.rewriter.Reset(d.lastWord)
			d.moreRewriting = true
		}

		if d.linesInSlice == b {
			d.linesInSlice = 0
			if err := d.skipLines((d.workers - 1) * b); err != nil {
				return filled, err
			}
		}
	}
	return filled, nil
}

// slotBuf returns s re-expanded to its full capacity, so callers can write
// a fresh candidate into a pre-allocated slot without reallocating.
func slotBuf(s []byte) []byte {
	return s[:cap(s)]
}

// readRawLine reads one line, stripping a trailing "\n" and "\r". It reads
// the full line regardless of length (via bufio.Reader.ReadString, which
// grows its own buffer as needed) rather than a fixed-size read, so a line
// longer than any fixed buffer is never miscounted as multiple lines. ok is
// false only at a clean EOF with no further content, which also absorbs a
// trailing empty line.
func (d *DictionarySource) readRawLine() (line []byte, ok bool, err error) {
	s, rerr := d.reader.ReadString('\n')
	if len(s) == 0 {
		if rerr == io.EOF {
			return nil, false, nil
		}
		if rerr != nil {
			return nil, false, rerr
		}
	}
	if rerr != nil && rerr != io.EOF {
		return nil, false, rerr
	}
	s = strings.TrimRight(s, "\r\n")
	return []byte(s), true, nil
}

// skipLines discards up to n lines, stopping silently at EOF.
func (d *DictionarySource) skipLines(n int) error {
	for i := 0; i < n; i++ {
		_, ok, err := d.readRawLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return nil
}
