package analysis

import (
	"strings"
	"testing"

	"paperlens/internal/models"
)

func TestValidateAnalysisClean(t *testing.T) {
	a := models.NewAnalysis("paper_x", "EN_2_0", "test")
	a.Title = "A Framework for Distributed Training"
	a.Summary = "This paper proposes a framework and evaluates it on two datasets with a new algorithm."
	a.Problem = "Training large models on one machine is infeasible."
	a.Solution = "A sharded training method with gradient compression."
	a.Limitations = "Evaluated only on homogeneous clusters."
	a.KeyContributions = "The sharding algorithm and its evaluation."
	a.RecalculateMetrics()

	if issues := ValidateAnalysis(a); len(issues) != 0 {
		t.Errorf("unexpected issues: %v", issues)
	}
}

func TestValidateAnalysisFlagsShortAndPlaceholder(t *testing.T) {
	a := models.NewAnalysis("paper_x", "EN", "test")
	a.Title = "Short"
	a.Summary = "Not provided"
	a.RecalculateMetrics()

	issues := ValidateAnalysis(a)
	if len(issues) == 0 {
		t.Fatal("expected issues")
	}
	joined := strings.Join(issues, "; ")
	if !strings.Contains(joined, "'title' is too short") {
		t.Errorf("missing short-title issue: %v", issues)
	}
	if !strings.Contains(joined, "placeholder text: 'not provided'") {
		t.Errorf("missing placeholder issue: %v", issues)
	}
}

func TestValidatePaper(t *testing.T) {
	thin := models.NewPaper("", "tiny", models.PaperTypeTxt)
	if issues := ValidatePaper(thin); len(issues) != 3 {
		t.Errorf("thin paper issues = %v", issues)
	}

	lines := make([]string, 20)
	for i := range lines {
		lines[i] = strings.Repeat("substantive content about methods ", 2)
	}
	solid := models.NewPaper("", strings.Join(lines, "\n"), models.PaperTypeTxt)
	if issues := ValidatePaper(solid); len(issues) != 0 {
		t.Errorf("solid paper issues = %v", issues)
	}
}
