package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"paperlens/internal/config"
	"paperlens/internal/models"
	"paperlens/internal/prompts"
	"paperlens/internal/providers"
	"paperlens/internal/util"
)

// Engine analyzes one paper. Implementations return an error on failure; the
// orchestrator decides whether that becomes a failed-status result.
type Engine interface {
	AnalyzePaper(ctx context.Context, paper *models.Paper) (*models.PaperAnalysis, error)
	Name() string
}

// AIEngine runs the model-backed analysis pipeline: truncate, prompt,
// generate, normalize, score.
type AIEngine struct {
	adapter providers.Adapter
	cfg     config.AnalysisConfig
}

func NewAIEngine(adapter providers.Adapter, cfg config.AnalysisConfig) *AIEngine {
	return &AIEngine{adapter: adapter, cfg: cfg}
}

func (e *AIEngine) Name() string {
	info := e.adapter.Info()
	return info.Provider + "/" + info.Model
}

func (e *AIEngine) AnalyzePaper(ctx context.Context, paper *models.Paper) (*models.PaperAnalysis, error) {
	start := time.Now()
	version := e.cfg.PromptVersion

	analysis := models.NewAnalysis(paper.ID, version, e.adapter.Info().Model)
	analysis.Status = models.StatusInProgress

	content := prompts.TruncateContent(paper.Content, e.cfg.MaxPaperLength)
	prompt := prompts.AnalysisPrompt(version, content)

	raw, err := e.generate(ctx, prompt, version)
	if err != nil {
		return nil, err
	}

	n := ParseResult(raw, version)
	analysis.Title = n.Fields["title"]
	if n.Synthesized["title"] && paper.Metadata.Title != "" {
		analysis.Title = paper.Metadata.Title
	}
	analysis.Summary = n.Fields["summary"]
	analysis.Problem = n.Fields["problem"]
	analysis.Solution = n.Fields["solution"]
	analysis.Limitations = n.Fields["limitations"]
	analysis.KeyContributions = n.Fields["key_contributions"]
	if sig, ok := n.Fields["research_significance"]; ok {
		analysis.ResearchSignificance = &sig
	}
	if len(n.Synthesized) > 0 {
		analysis.SynthesizedFields = n.Synthesized
	}
	analysis.RawResponse = raw
	analysis.Status = models.StatusCompleted

	analysis.Metrics.ProcessingTime = time.Since(start).Seconds()
	analysis.Metrics.TokenCount = util.EstimateTokens(content + raw)
	analysis.Metrics.ConfidenceScore = ConfidenceScore(n.Fields)
	analysis.RecalculateMetrics()

	log.Printf("analyzed paper %s in %.2fs (confidence %.2f, degraded=%v)",
		paper.ID, analysis.Metrics.ProcessingTime, analysis.Metrics.ConfidenceScore, n.Degraded)
	return analysis, nil
}

// generate produces the raw response text. Structured generation is tried
// first when enabled; a free-text answer from the provider degrades to plain
// text, and a structured failure falls back to plain text generation.
func (e *AIEngine) generate(ctx context.Context, prompt, version string) (string, error) {
	if e.cfg.EnableFunctionCalling {
		out, err := e.adapter.GenerateStructured(ctx, prompt, prompts.ToolParameters(version))
		if err == nil {
			raw, mErr := json.Marshal(out)
			if mErr != nil {
				return "", fmt.Errorf("marshal structured result: %w", mErr)
			}
			return string(raw), nil
		}
		var freeText *providers.FreeTextError
		if errors.As(err, &freeText) {
			return freeText.Text, nil
		}
		log.Printf("structured generation failed, falling back to text generation: %v", err)
	}
	out, err := e.adapter.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate analysis: %w", err)
	}
	return out, nil
}
