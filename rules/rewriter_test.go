package rules

import "testing"

func collect(rw *Rewriter, word string) []string {
	var out []string
	buf := make([]byte, len(word)+2)
	for {
		n, status := rw.Next(buf)
		switch status {
		case StatusVariant:
			out = append(out, string(buf[:n]))
		case StatusRetry:
			continue
		case StatusDone:
			return out
		}
	}
}

func TestRewriterAllUpper(t *testing.T) {
	rw := NewRewriter(NewSet(AllUpper))
	rw.Reset([]byte("Pw"))
	got := collect(rw, "Pw")
	want := []string{"PW"}
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRewriterAppendDigit(t *testing.T) {
	rw := NewRewriter(NewSet(AppendDigit))
	rw.Reset([]byte("Pw"))
	got := collect(rw, "Pw")
	if len(got) != 10 {
		t.Fatalf("expected 10 variants, got %d: %v", len(got), got)
	}
	for i := 0; i < 10; i++ {
		want := "Pw" + string(rune('0'+i))
		if got[i] != want {
			t.Errorf("variant %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestRewriterPrependDigit(t *testing.T) {
	rw := NewRewriter(NewSet(PrependDigit))
	rw.Reset([]byte("ab"))
	got := collect(rw, "ab")
	if len(got) != 10 || got[0] != "0ab" || got[9] != "9ab" {
		t.Fatalf("unexpected variants: %v", got)
	}
}

func TestRewriterWordBeginning(t *testing.T) {
	rw := NewRewriter(NewSet(UpperWordBeginning))
	rw.Reset([]byte("foo bar baz"))
	got := collect(rw, "foo bar baz")
	if len(got) != 1 || got[0] != "Foo Bar Baz" {
		t.Fatalf("got %v", got)
	}
}

func TestRewriterLeetSingleVariant(t *testing.T) {
	rw := NewRewriter(NewSet(Leet1337))
	rw.Reset([]byte("Elite"))
	got := collect(rw, "Elite")
	if len(got) != 1 {
		t.Fatalf("expected exactly one leet variant, got %d: %v", len(got), got)
	}
	if got[0] != "3l173" {
		t.Fatalf("got %q", got[0])
	}
}

func TestRewriterDeterministic(t *testing.T) {
	set := NewSet(AllUpper, FirstLower, AppendDigit, Leet1337)
	rw1 := NewRewriter(set)
	rw1.Reset([]byte("secret"))
	first := collect(rw1, "secret")

	rw2 := NewRewriter(set)
	rw2.Reset([]byte("secret"))
	second := collect(rw2, "secret")

	if len(first) != len(second) {
		t.Fatalf("non-deterministic variant counts: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("variant %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestRewriterNoRulesDone(t *testing.T) {
	rw := NewRewriter(Set{})
	rw.Reset([]byte("plain"))
	if rw.Armed() {
		t.Fatalf("rewriter with empty rule set should not arm")
	}
	_, status := rw.Next(make([]byte, 8))
	if status != StatusDone {
		t.Fatalf("expected StatusDone, got %d", status)
	}
}

func TestRuleLettersCoverCLIAlphabet(t *testing.T) {
	for _, c := range []byte("AFLWaflwDde x") {
		if c == ' ' {
			continue
		}
		if _, ok := RuleLetters[c]; !ok {
			t.Errorf("rule letter %q has no mapping", c)
		}
	}
}
