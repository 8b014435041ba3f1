package analysis

import (
	"fmt"
	"strings"

	"paperlens/internal/models"
)

var placeholderPatterns = []string{"not provided", "n/a", "none", "null"}

// ValidateAnalysis lists quality issues with a finished analysis. An empty
// slice means no issues were found.
func ValidateAnalysis(a *models.PaperAnalysis) []string {
	var issues []string

	required := map[string]string{
		"title":             a.Title,
		"summary":           a.Summary,
		"problem":           a.Problem,
		"solution":          a.Solution,
		"limitations":       a.Limitations,
		"key_contributions": a.KeyContributions,
	}
	for _, field := range []string{"title", "summary", "problem", "solution", "limitations", "key_contributions"} {
		if len(strings.TrimSpace(required[field])) < 10 {
			issues = append(issues, fmt.Sprintf("Field '%s' is too short or empty", field))
		}
	}

	if a.Metrics.CompletenessScore < 0.5 {
		issues = append(issues, "Low completeness score")
	}
	if a.Metrics.CoherenceScore < 0.3 {
		issues = append(issues, "Low coherence score")
	}

	content := strings.ToLower(a.Title + " " + a.Summary + " " + a.Problem + " " + a.Solution)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(content, pattern) {
			issues = append(issues, fmt.Sprintf("Found placeholder text: '%s'", pattern))
		}
	}
	return issues
}

// ValidatePaper lists problems with a paper before analysis is attempted.
func ValidatePaper(p *models.Paper) []string {
	var issues []string
	if len(strings.TrimSpace(p.Content)) < 50 {
		issues = append(issues, "Paper content is too short or empty")
	}
	if p.WordCount() < 100 {
		issues = append(issues, "Paper has insufficient word count")
	}
	if len(strings.Split(p.Content, "\n")) < 5 {
		issues = append(issues, "Paper has insufficient structure")
	}
	return issues
}
