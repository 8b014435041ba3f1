package analysis

import (
	"strings"
	"testing"
)

func TestNormalizeResolvesAliases(t *testing.T) {
	result := map[string]any{
		"title":                  "A Paper",
		"paper_overview":         "An overview of the work.",
		"research_problem":       "Scaling is hard.",
		"methodology":            "We shard everything.",
		"weaknesses":             "Only tested on one cluster.",
		"academic_contributions": "A sharding scheme.",
	}
	n := Normalize(result, "EN")
	if n.Fields["summary"] != "An overview of the work." {
		t.Errorf("summary = %q", n.Fields["summary"])
	}
	if n.Fields["problem"] != "Scaling is hard." {
		t.Errorf("problem = %q", n.Fields["problem"])
	}
	if n.Fields["solution"] != "We shard everything." {
		t.Errorf("solution = %q", n.Fields["solution"])
	}
	if n.Fields["limitations"] != "Only tested on one cluster." {
		t.Errorf("limitations = %q", n.Fields["limitations"])
	}
	if n.Fields["key_contributions"] != "A sharding scheme." {
		t.Errorf("key_contributions = %q", n.Fields["key_contributions"])
	}
	if len(n.Synthesized) != 0 {
		t.Errorf("nothing should be synthesized, got %v", n.Synthesized)
	}
	if _, ok := n.Fields["research_significance"]; ok {
		t.Error("research_significance should not appear for a base-tier version")
	}
}

func TestNormalizeCanonicalBeatsAlias(t *testing.T) {
	result := map[string]any{
		"summary":        "Canonical summary.",
		"paper_overview": "Alias summary.",
	}
	n := Normalize(result, "EN")
	if n.Fields["summary"] != "Canonical summary." {
		t.Errorf("summary = %q, want canonical value", n.Fields["summary"])
	}
}

func TestParseResultEmptyObject(t *testing.T) {
	n := ParseResult("{}", "EN")
	if n.Degraded {
		t.Error("empty object is valid JSON, not a degraded parse")
	}
	if n.Fields["problem"] != "Research problem not explicitly stated." {
		t.Errorf("problem = %q", n.Fields["problem"])
	}
	if n.Fields["solution"] != "Solution approach not explicitly described." {
		t.Errorf("solution = %q", n.Fields["solution"])
	}
	if n.Fields["limitations"] != "Limitations not explicitly discussed." {
		t.Errorf("limitations = %q", n.Fields["limitations"])
	}
	if n.Fields["key_contributions"] != "Contributions not explicitly summarized." {
		t.Errorf("key_contributions = %q", n.Fields["key_contributions"])
	}
	if n.Fields["title"] != "Untitled Paper" {
		t.Errorf("title = %q", n.Fields["title"])
	}
	for _, field := range []string{"title", "summary", "problem", "solution", "limitations", "key_contributions"} {
		if !n.Synthesized[field] {
			t.Errorf("field %s should be marked synthesized", field)
		}
	}
}

func TestNormalizeEnhancedAddsSignificance(t *testing.T) {
	n := Normalize(map[string]any{"impact": "Changes the field."}, "EN_2_0")
	if n.Fields["research_significance"] != "Changes the field." {
		t.Errorf("research_significance = %q", n.Fields["research_significance"])
	}
	if n.Synthesized["research_significance"] {
		t.Error("resolved alias should not be marked synthesized")
	}
}

func TestSynthesizedSummaryReadsRawFields(t *testing.T) {
	n := Normalize(map[string]any{
		"research_problem": "label scarcity",
		"approach":         "self-supervision",
	}, "EN")
	want := "This paper addresses label scarcity using self-supervision."
	if n.Fields["summary"] != want {
		t.Errorf("summary = %q, want %q", n.Fields["summary"], want)
	}
	if !n.Synthesized["summary"] {
		t.Error("summary should be marked synthesized")
	}
}

func TestSynthesizedTitleFromSummary(t *testing.T) {
	long := strings.Repeat("x", 150)
	n := Normalize(map[string]any{"summary": long}, "EN")
	if got := n.Fields["title"]; got != strings.Repeat("x", 100)+"..." {
		t.Errorf("title = %q", got)
	}
}

func TestParseResultExtractsEmbeddedJSON(t *testing.T) {
	raw := "Here is my analysis:\n```json\n{\"title\": \"Embedded\", \"summary\": \"Found inside prose.\"}\n```\nHope that helps!"
	n := ParseResult(raw, "EN")
	if n.Degraded {
		t.Fatal("embedded JSON should be recovered, not degraded")
	}
	if n.Fields["title"] != "Embedded" {
		t.Errorf("title = %q", n.Fields["title"])
	}
}

func TestParseResultDegradedText(t *testing.T) {
	text := "A Survey of Prose Answers\n" + strings.Repeat("The model wrote sentences instead of JSON. ", 20)
	n := ParseResult(text, "EN_2_0")
	if !n.Degraded {
		t.Fatal("expected degraded parse")
	}
	if n.Fields["title"] != "A Survey of Prose Answers" {
		t.Errorf("title = %q", n.Fields["title"])
	}
	if !strings.HasSuffix(n.Fields["summary"], "...") {
		t.Errorf("long text summary should be truncated, got %q", n.Fields["summary"])
	}
	if len([]rune(n.Fields["summary"])) != 503 {
		t.Errorf("summary length = %d, want 500 runes plus ellipsis", len([]rune(n.Fields["summary"])))
	}
	if n.Fields["problem"] != "Unable to extract specific problem statement" {
		t.Errorf("problem = %q", n.Fields["problem"])
	}
	if n.Fields["research_significance"] == "" {
		t.Error("enhanced version should still populate research_significance")
	}
}

func TestParseResultEmptyResponse(t *testing.T) {
	for _, version := range []string{"EN", "EN_2_0"} {
		for _, raw := range []string{"", "  \n\t "} {
			n := ParseResult(raw, version)
			if !n.Degraded {
				t.Fatalf("version %s raw %q: expected degraded parse", version, raw)
			}
			for field, value := range n.Fields {
				if value == "" {
					t.Errorf("version %s raw %q: field %q is empty", version, raw, field)
				}
			}
			if n.Fields["title"] != "Untitled" {
				t.Errorf("title = %q", n.Fields["title"])
			}
			if n.Fields["summary"] != "Unable to extract summary" {
				t.Errorf("summary = %q", n.Fields["summary"])
			}
			if !n.Synthesized["summary"] {
				t.Error("empty-response summary should be marked synthesized")
			}
		}
	}
}

func TestStringifyListsAndNumbers(t *testing.T) {
	n := Normalize(map[string]any{
		"title":             42.0,
		"key_contributions": []any{"first", "second"},
	}, "EN")
	if n.Fields["title"] != "42" {
		t.Errorf("title = %q", n.Fields["title"])
	}
	if n.Fields["key_contributions"] != "first; second" {
		t.Errorf("key_contributions = %q", n.Fields["key_contributions"])
	}
}
