package main

import (
	"testing"

	"github.com/Asylian21/passcrack/backend/mock"
	"github.com/Asylian21/passcrack/source"
)

func TestParseIncrementalRangeSingleLength(t *testing.T) {
	from, to, err := parseIncrementalRange("4")
	if err != nil {
		t.Fatal(err)
	}
	if from != 4 || to != 4 {
		t.Fatalf("from=%d to=%d, want 4,4", from, to)
	}
}

func TestParseIncrementalRangeBounded(t *testing.T) {
	from, to, err := parseIncrementalRange("2:6")
	if err != nil {
		t.Fatal(err)
	}
	if from != 2 || to != 6 {
		t.Fatalf("from=%d to=%d, want 2,6", from, to)
	}
}

func TestParseIncrementalRangeInvalid(t *testing.T) {
	if _, _, err := parseIncrementalRange("x:y"); err == nil {
		t.Fatal("expected error for non-numeric range")
	}
}

func TestParseRuleLettersKnown(t *testing.T) {
	set, err := parseRuleLetters("Ad")
	if err != nil {
		t.Fatal(err)
	}
	if set.Empty() {
		t.Fatal("expected non-empty rule set")
	}
}

func TestParseRuleLettersUnknown(t *testing.T) {
	if _, err := parseRuleLetters("Q"); err == nil {
		t.Fatal("expected error for unknown rule letter")
	}
}

func TestBuildDescriptorDictionaryTakesPrecedence(t *testing.T) {
	desc, err := buildDescriptor("1:8", "/tmp/words.txt", "")
	if err != nil {
		t.Fatal(err)
	}
	if desc.Kind != source.Dictionary || desc.Path != "/tmp/words.txt" {
		t.Fatalf("desc = %+v", desc)
	}
}

func TestBuildDescriptorIncrementalDefaultsWithoutFlags(t *testing.T) {
	desc, err := buildDescriptor("", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if desc.Kind != source.Incremental || desc.From != source.DefaultFrom || desc.To != source.DefaultTo {
		t.Fatalf("desc = %+v", desc)
	}
}

func TestApplyBackendArgsAcceptsFlagValuePair(t *testing.T) {
	b := mock.New("k", []byte("v"))
	if err := applyBackendArgs(b, []string{"-f", "ignored-by-mock"}); err != nil {
		t.Fatal(err)
	}
}

func TestApplyBackendArgsRejectsMalformedFlag(t *testing.T) {
	b := mock.New("k", []byte("v"))
	if err := applyBackendArgs(b, []string{"not-a-flag"}); err == nil {
		t.Fatal("expected error for argument not starting with -")
	}
}
