package storage

import (
	"context"
	"fmt"

	"paperlens/internal/models"
)

type AnalysisRepo struct {
	db *DB
}

func NewAnalysisRepo(db *DB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

func (r *AnalysisRepo) UpsertAnalysis(ctx context.Context, a *models.PaperAnalysis) error {
	var significance, errMsg string
	if a.ResearchSignificance != nil {
		significance = *a.ResearchSignificance
	}
	if a.ErrorMessage != nil {
		errMsg = *a.ErrorMessage
	}
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO analyses (analysis_id, paper_id, title, summary, problem, solution, limitations, key_contributions,
                      research_significance, status, error_message, prompt_version, model_used, analysis_date,
                      confidence_score, completeness_score, coherence_score, technical_depth_score,
                      processing_time, token_count, word_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9,''), $10, NULLIF($11,''), $12, $13, $14,
        $15, $16, $17, $18, $19, $20, $21)
ON CONFLICT (analysis_id)
DO UPDATE SET
  status = EXCLUDED.status,
  error_message = EXCLUDED.error_message,
  confidence_score = EXCLUDED.confidence_score,
  completeness_score = EXCLUDED.completeness_score,
  coherence_score = EXCLUDED.coherence_score,
  technical_depth_score = EXCLUDED.technical_depth_score,
  processing_time = EXCLUDED.processing_time,
  token_count = EXCLUDED.token_count,
  word_count = EXCLUDED.word_count`,
		a.ID, a.PaperID, a.Title, a.Summary, a.Problem, a.Solution, a.Limitations, a.KeyContributions,
		significance, string(a.Status), errMsg, a.PromptVersion, a.ModelUsed, a.AnalysisDate,
		a.Metrics.ConfidenceScore, a.Metrics.CompletenessScore, a.Metrics.CoherenceScore, a.Metrics.TechnicalDepthScore,
		a.Metrics.ProcessingTime, a.Metrics.TokenCount, a.Metrics.WordCount,
	)
	if err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepo) GetLatestByPaper(ctx context.Context, paperID string) (*models.PaperAnalysis, error) {
	var (
		a            models.PaperAnalysis
		significance string
		errMsg       string
		status       string
	)
	err := r.db.Pool.QueryRow(ctx, `
SELECT analysis_id, paper_id, title, summary, problem, solution, limitations, key_contributions,
       COALESCE(research_significance,''), status, COALESCE(error_message,''), prompt_version, model_used,
       analysis_date, confidence_score, completeness_score, coherence_score, technical_depth_score,
       processing_time, token_count, word_count
FROM analyses
WHERE paper_id=$1
ORDER BY analysis_date DESC
LIMIT 1`, paperID).Scan(
		&a.ID, &a.PaperID, &a.Title, &a.Summary, &a.Problem, &a.Solution, &a.Limitations, &a.KeyContributions,
		&significance, &status, &errMsg, &a.PromptVersion, &a.ModelUsed,
		&a.AnalysisDate, &a.Metrics.ConfidenceScore, &a.Metrics.CompletenessScore, &a.Metrics.CoherenceScore,
		&a.Metrics.TechnicalDepthScore, &a.Metrics.ProcessingTime, &a.Metrics.TokenCount, &a.Metrics.WordCount,
	)
	if err != nil {
		return nil, fmt.Errorf("get latest analysis: %w", err)
	}
	a.Status = models.AnalysisStatus(status)
	if significance != "" {
		a.ResearchSignificance = &significance
	}
	if errMsg != "" {
		a.ErrorMessage = &errMsg
	}
	return &a, nil
}
