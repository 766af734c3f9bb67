package main

import "testing"

func TestParseSplitEmpty(t *testing.T) {
	got, err := parseSplit("")
	if err != nil {
		t.Fatalf("parseSplit(\"\") failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no dove counts, got %v", got)
	}
}

func TestParseSplitCommaAndSpaceSeparated(t *testing.T) {
	got, err := parseSplit("9, 10 11")
	if err != nil {
		t.Fatalf("parseSplit failed: %v", err)
	}
	for _, n := range []int{9, 10, 11} {
		if !got[n] {
			t.Fatalf("expected dove count %d to be set, got %v", n, got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected exactly 3 dove counts, got %v", got)
	}
}

func TestParseSplitRejectsNonInteger(t *testing.T) {
	if _, err := parseSplit("9,abc"); err == nil {
		t.Fatalf("expected an error for a non-integer field")
	}
}
