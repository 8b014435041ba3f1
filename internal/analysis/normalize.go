// Package analysis implements the paper analysis pipeline: result
// normalization, confidence scoring, the AI engine, and the orchestration of
// primary and fallback engines over single papers and batches.
package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"paperlens/internal/prompts"
	"paperlens/internal/util"
)

// canonicalFields is the fixed resolution order for normalization.
var canonicalFields = []string{
	"title", "summary", "problem", "solution",
	"limitations", "key_contributions", "research_significance",
}

// fieldAliases maps each canonical field to the response keys models actually
// use for it, most specific first.
var fieldAliases = map[string][]string{
	"title":                 {"title"},
	"summary":               {"summary", "paper_overview", "overview"},
	"problem":               {"problem", "research_problem", "challenge"},
	"solution":              {"solution", "methodology", "method", "approach"},
	"limitations":           {"limitations", "limitations_analysis", "weaknesses"},
	"key_contributions":     {"key_contributions", "contributions", "academic_contributions"},
	"research_significance": {"research_significance", "significance", "impact"},
}

// Normalized is a parse result with every expected field populated.
// Synthesized marks the fields whose value was invented rather than
// extracted; Degraded marks results recovered from free text.
type Normalized struct {
	Fields      map[string]string
	Synthesized map[string]bool
	Degraded    bool
}

var jsonSpan = regexp.MustCompile(`(?s)\{.*\}`)

// ParseResult turns any model response into a Normalized result. It never
// fails: strict JSON is tried first, then the widest {...} span inside the
// text, and finally a degraded synthesis from the raw text itself.
func ParseResult(raw, promptVersion string) Normalized {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil && parsed != nil {
		return Normalize(parsed, promptVersion)
	}
	if span := jsonSpan.FindString(raw); span != "" {
		if err := json.Unmarshal([]byte(span), &parsed); err == nil && parsed != nil {
			return Normalize(parsed, promptVersion)
		}
	}
	return resultFromText(raw, promptVersion)
}

// Normalize resolves aliases and fills gaps so that every expected field for
// the prompt version carries a value.
func Normalize(result map[string]any, promptVersion string) Normalized {
	expected := expectedFields(promptVersion)
	n := Normalized{
		Fields:      make(map[string]string, len(expected)),
		Synthesized: make(map[string]bool),
	}
	for _, field := range expected {
		if value, ok := resolveAlias(result, field); ok {
			n.Fields[field] = value
			continue
		}
		n.Fields[field] = synthesizeField(field, result)
		n.Synthesized[field] = true
	}
	return n
}

func expectedFields(promptVersion string) []string {
	if prompts.IsEnhanced(promptVersion) {
		return canonicalFields
	}
	return canonicalFields[:len(canonicalFields)-1]
}

// resolveAlias finds the first alias of field present in result with a
// non-empty value.
func resolveAlias(result map[string]any, field string) (string, bool) {
	for _, alias := range fieldAliases[field] {
		if raw, ok := result[alias]; ok {
			if s := stringify(raw); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// stringify flattens whatever value a model put into a field. Lists get
// joined, everything else renders through fmt.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		raw, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(raw)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", x))
	}
}

// synthesizeField invents a value for a field the model left out. Synthesis
// reads the raw alias-resolved values so it works no matter which canonical
// fields are otherwise present.
func synthesizeField(field string, result map[string]any) string {
	switch field {
	case "title":
		if summary, ok := resolveAlias(result, "summary"); ok {
			return util.TruncateRunes(summary, 100) + "..."
		}
		return "Untitled Paper"
	case "summary":
		problem := "a research challenge"
		if v, ok := resolveAlias(result, "problem"); ok {
			problem = v
		}
		solution := "a novel approach"
		if v, ok := resolveAlias(result, "solution"); ok {
			solution = v
		}
		return fmt.Sprintf("This paper addresses %s using %s.", problem, solution)
	case "problem":
		return "Research problem not explicitly stated."
	case "solution":
		return "Solution approach not explicitly described."
	case "limitations":
		return "Limitations not explicitly discussed."
	case "key_contributions":
		return "Contributions not explicitly summarized."
	case "research_significance":
		return "Research significance not explicitly stated."
	default:
		return ""
	}
}

// resultFromText builds a degraded result when no JSON can be recovered: the
// first line becomes the title, the leading text becomes the summary, and the
// remaining fields record that extraction failed. A blank response still
// yields a summary so every field stays non-empty.
func resultFromText(text, promptVersion string) Normalized {
	title := "Untitled"
	if line := util.FirstNonEmptyLine(text); line != "" {
		title = util.TruncateRunes(line, 100)
	}
	summary := text
	emptySummary := strings.TrimSpace(text) == ""
	switch {
	case emptySummary:
		summary = "Unable to extract summary"
	case len([]rune(text)) > 500:
		summary = util.TruncateRunes(text, 500) + "..."
	}

	n := Normalized{
		Fields: map[string]string{
			"title":             title,
			"summary":           summary,
			"problem":           "Unable to extract specific problem statement",
			"solution":          "Unable to extract specific solution",
			"limitations":       "Unable to extract limitations",
			"key_contributions": "Unable to extract contributions",
		},
		Synthesized: map[string]bool{
			"problem":           true,
			"solution":          true,
			"limitations":       true,
			"key_contributions": true,
		},
		Degraded: true,
	}
	if emptySummary {
		n.Synthesized["summary"] = true
	}
	if prompts.IsEnhanced(promptVersion) {
		n.Fields["research_significance"] = "Research significance not explicitly stated."
		n.Synthesized["research_significance"] = true
	}
	return n
}

