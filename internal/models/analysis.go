package models

import (
	"strings"
	"time"

	"paperlens/internal/util"
)

type AnalysisStatus string

const (
	StatusPending    AnalysisStatus = "pending"
	StatusInProgress AnalysisStatus = "in_progress"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// AnalysisMetrics are derived quality indicators, recomputed whenever the
// analysis fields change.
type AnalysisMetrics struct {
	ConfidenceScore     float64 `json:"confidence_score"`
	CompletenessScore   float64 `json:"completeness_score"`
	CoherenceScore      float64 `json:"coherence_score"`
	TechnicalDepthScore float64 `json:"technical_depth_score"`
	WordCount           int     `json:"word_count"`
	ProcessingTime      float64 `json:"processing_time"`
	TokenCount          int     `json:"token_count"`
}

// OverallScore blends the individual metrics into one quality score.
func (m AnalysisMetrics) OverallScore() float64 {
	return m.ConfidenceScore*0.3 + m.CompletenessScore*0.25 + m.CoherenceScore*0.25 + m.TechnicalDepthScore*0.2
}

// PaperAnalysis is the result of one analysis pass over a Paper. It is
// mutated only by the engine that produces it and never after it is returned.
type PaperAnalysis struct {
	ID                   string          `json:"id"`
	PaperID              string          `json:"paper_id"`
	Title                string          `json:"title"`
	Summary              string          `json:"summary"`
	Problem              string          `json:"problem"`
	Solution             string          `json:"solution"`
	Limitations          string          `json:"limitations"`
	KeyContributions     string          `json:"key_contributions"`
	ResearchSignificance *string         `json:"research_significance"`
	Status               AnalysisStatus  `json:"status"`
	AnalysisDate         time.Time       `json:"analysis_date"`
	Metrics              AnalysisMetrics `json:"metrics"`
	RawResponse          string          `json:"raw_response,omitempty"`
	ErrorMessage         *string         `json:"error_message"`
	PromptVersion        string          `json:"prompt_version"`
	ModelUsed            string          `json:"model_used"`

	// SynthesizedFields marks canonical fields whose value the normalizer
	// invented rather than extracted. Informational only; scoring treats
	// synthesized and genuine values alike.
	SynthesizedFields map[string]bool `json:"synthesized_fields,omitempty"`
}

// NewAnalysis creates a pending analysis for a paper with a deterministic
// identifier derived from the paper id and the analysis timestamp.
func NewAnalysis(paperID, promptVersion, modelUsed string) *PaperAnalysis {
	now := time.Now()
	return &PaperAnalysis{
		ID:            "analysis_" + util.ShortHash(paperID+"_"+now.Format(time.RFC3339Nano)),
		PaperID:       paperID,
		Status:        StatusPending,
		AnalysisDate:  now,
		PromptVersion: promptVersion,
		ModelUsed:     modelUsed,
	}
}

// NewFailedAnalysis builds the failed-status result used wherever a failure
// must be represented as data instead of an error.
func NewFailedAnalysis(paperID, errMsg string, processingTime float64) *PaperAnalysis {
	a := NewAnalysis(paperID, "", "")
	a.Title = "Analysis Failed"
	a.Status = StatusFailed
	a.ErrorMessage = &errMsg
	a.Metrics.ProcessingTime = processingTime
	a.RecalculateMetrics()
	return a
}

func (a *PaperAnalysis) requiredFields() []string {
	return []string{a.Title, a.Summary, a.Problem, a.Solution, a.Limitations, a.KeyContributions}
}

func (a *PaperAnalysis) allText() string {
	parts := a.requiredFields()
	if a.ResearchSignificance != nil {
		parts = append(parts, *a.ResearchSignificance)
	}
	return strings.Join(parts, " ")
}

// RecalculateMetrics rederives completeness, coherence, technical depth and
// word count from the current field values. Confidence is set separately by
// the scorer.
func (a *PaperAnalysis) RecalculateMetrics() {
	a.Metrics.WordCount = len(strings.Fields(a.allText()))

	fields := a.requiredFields()
	if a.ResearchSignificance != nil && *a.ResearchSignificance != "" {
		fields = append(fields, *a.ResearchSignificance)
	}
	filled := 0
	for _, f := range fields {
		if len(strings.TrimSpace(f)) > 10 {
			filled++
		}
	}
	a.Metrics.CompletenessScore = float64(filled) / float64(len(fields))
	a.Metrics.CoherenceScore = coherenceScore(a.Title + " " + a.Summary + " " + a.Problem + " " + a.Solution)
	a.Metrics.TechnicalDepthScore = technicalDepth(a.Solution + " " + a.KeyContributions)
}

// IsComplete reports whether every required field carries real content.
func (a *PaperAnalysis) IsComplete() bool {
	for _, f := range a.requiredFields() {
		if len(strings.TrimSpace(f)) <= 10 {
			return false
		}
	}
	return true
}

// Export renders the analysis with the stable key set written to output
// files and returned by the worker artifacts.
func (a *PaperAnalysis) Export() map[string]any {
	return map[string]any{
		"id":                    a.ID,
		"paper_id":              a.PaperID,
		"title":                 a.Title,
		"summary":               a.Summary,
		"problem":               a.Problem,
		"solution":              a.Solution,
		"limitations":           a.Limitations,
		"key_contributions":     a.KeyContributions,
		"research_significance": a.ResearchSignificance,
		"status":                a.Status,
		"model_used":            a.ModelUsed,
		"prompt_version":        a.PromptVersion,
		"analysis_date":         a.AnalysisDate.Format(time.RFC3339),
		"error_message":         a.ErrorMessage,
		"synthesized_fields":    a.SynthesizedFields,
		"metrics": map[string]any{
			"processing_time":       a.Metrics.ProcessingTime,
			"token_count":           a.Metrics.TokenCount,
			"confidence_score":      a.Metrics.ConfidenceScore,
			"completeness_score":    a.Metrics.CompletenessScore,
			"coherence_score":       a.Metrics.CoherenceScore,
			"technical_depth_score": a.Metrics.TechnicalDepthScore,
			"word_count":            a.Metrics.WordCount,
			"quality_score":         a.Metrics.OverallScore(),
		},
	}
}

var coherenceTerms = []string{"method", "algorithm", "approach", "technique", "framework"}

func coherenceScore(text string) float64 {
	lower := strings.ToLower(text)
	hits := 0
	for _, term := range coherenceTerms {
		if strings.Contains(lower, term) {
			hits++
		}
	}
	score := float64(hits) / float64(len(coherenceTerms))
	if score > 1 {
		score = 1
	}
	return score
}

var depthIndicators = []string{
	"architecture", "algorithm", "framework", "model", "dataset",
	"accuracy", "performance", "efficiency", "optimization", "evaluation",
}

func technicalDepth(text string) float64 {
	lower := strings.ToLower(text)
	hits := 0
	for _, ind := range depthIndicators {
		if strings.Contains(lower, ind) {
			hits++
		}
	}
	score := float64(hits) / float64(len(depthIndicators))
	if score > 1 {
		score = 1
	}
	return score
}
