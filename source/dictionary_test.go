package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Asylian21/passcrack/rules"
)

func writeWordFile(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDictionaryNoRulesProducesEachLineOnce(t *testing.T) {
	path := writeWordFile(t, "alpha", "beta", "gamma")
	s := NewDictionarySource(path, rules.Set{})
	if err := s.Init(0, 1); err != nil {
		t.Fatal(err)
	}
	got := drain(t, s, 2)
	want := []string{"alpha", "beta", "gamma"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDictionaryEmptyFile(t *testing.T) {
	path := writeWordFile(t)
	s := NewDictionarySource(path, rules.Set{})
	if err := s.Init(0, 2); err != nil {
		t.Fatal(err)
	}
	got := drain(t, s, 4)
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", got)
	}
}

func TestDictionaryPartitionNoDuplicates(t *testing.T) {
	lines := []string{"one", "two", "three", "four", "five"}
	path := writeWordFile(t, lines...)

	seen := map[string]int{}
	for k := 0; k < 3; k++ {
		s := NewDictionarySource(path, rules.Set{})
		if err := s.Init(k, 3); err != nil {
			t.Fatal(err)
		}
		for _, w := range drain(t, s, 1) {
			seen[w]++
		}
		s.Close()
	}
	if len(seen) != len(lines) {
		t.Fatalf("got %d distinct words across workers, want %d: %v", len(seen), len(lines), seen)
	}
	for w, n := range seen {
		if n != 1 {
			t.Errorf("word %q seen %d times, want 1", w, n)
		}
	}
}

func TestDictionaryAppendDigitSequence(t *testing.T) {
	path := writeWordFile(t, "Pw")
	s := NewDictionarySource(path, rules.NewSet(rules.AppendDigit))
	if err := s.Init(0, 1); err != nil {
		t.Fatal(err)
	}
	got := drain(t, s, 4)
	want := []string{"Pw", "Pw0", "Pw1", "Pw2", "Pw3", "Pw4", "Pw5", "Pw6", "Pw7", "Pw8", "Pw9"}
	if len(got) != len(want) {
		t.Fatalf("got %v (%d), want %d entries", got, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("at %d: got %q want %q (full=%v)", i, got[i], want[i], got)
		}
	}
}

func TestDictionaryCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(path, []byte("one\r\ntwo\r\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewDictionarySource(path, rules.Set{})
	if err := s.Init(0, 1); err != nil {
		t.Fatal(err)
	}
	got := drain(t, s, 2)
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("got %v", got)
	}
}

func TestDictionaryWorkersExceedLines(t *testing.T) {
	path := writeWordFile(t, "only")
	for k := 0; k < 4; k++ {
		s := NewDictionarySource(path, rules.Set{})
		if err := s.Init(k, 4); err != nil {
			t.Fatal(err)
		}
		got := drain(t, s, 1)
		if k == 0 {
			if len(got) != 1 || got[0] != "only" {
				t.Fatalf("worker 0: got %v", got)
			}
		} else if len(got) != 0 {
			t.Fatalf("worker %d: expected no candidates, got %v", k, got)
		}
	}
}
