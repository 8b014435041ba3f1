package analysis

import (
	"math"
	"strings"
	"testing"
)

func TestConfidenceScoreFull(t *testing.T) {
	long := strings.Repeat("a", 30)
	fields := map[string]string{
		"title":                 long,
		"summary":               long,
		"problem":               long,
		"solution":              long,
		"limitations":           long,
		"key_contributions":     long,
		"research_significance": "present",
	}
	if got := ConfidenceScore(fields); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("full result score = %v, want 1.0", got)
	}
}

func TestConfidenceScoreEmpty(t *testing.T) {
	if got := ConfidenceScore(map[string]string{}); got != 0 {
		t.Errorf("empty result score = %v, want 0", got)
	}
}

func TestConfidenceScoreShortFieldsDoNotCount(t *testing.T) {
	fields := map[string]string{
		"title":   "short",
		"summary": strings.Repeat("b", 30),
	}
	got := ConfidenceScore(fields)
	if math.Abs(got-0.25) > 1e-9 {
		t.Errorf("score = %v, want 0.25 (summary weight only)", got)
	}
}

func TestConfidenceScoreBounded(t *testing.T) {
	long := strings.Repeat("c", 100)
	cases := []map[string]string{
		{},
		{"summary": long},
		{"title": long, "summary": long, "problem": long},
		{"research_significance": "x"},
	}
	for _, fields := range cases {
		got := ConfidenceScore(fields)
		if got < 0 || got > 1 {
			t.Errorf("score %v out of [0,1] for %v", got, fields)
		}
	}
}

func TestConfidenceScoreSignificanceRescalesTotal(t *testing.T) {
	long := strings.Repeat("d", 30)
	withSig := map[string]string{"summary": long, "research_significance": "x"}
	// 0.25 + 0.10 earned over 1.10 applicable weight.
	want := 0.35 / 1.10
	if got := ConfidenceScore(withSig); math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}
