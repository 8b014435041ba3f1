package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"paperlens/internal/models"
)

// Orchestrator runs a primary engine with an optional fallback. A paper gets
// at most two attempts, and every outcome is a PaperAnalysis: engine errors
// become failed-status results instead of propagating.
type Orchestrator struct {
	primary  Engine
	fallback Engine
}

func NewOrchestrator(primary, fallback Engine) *Orchestrator {
	return &Orchestrator{primary: primary, fallback: fallback}
}

func (o *Orchestrator) HasFallback() bool { return o.fallback != nil }

// Info describes the configured engines, for the CLI info command.
func (o *Orchestrator) Info() map[string]any {
	info := map[string]any{
		"primary_engine": o.primary.Name(),
		"has_fallback":   o.fallback != nil,
	}
	if o.fallback != nil {
		info["fallback_engine"] = o.fallback.Name()
	}
	return info
}

// AnalyzePaper analyzes one paper, degrading to the fallback engine when the
// primary fails. It never returns an error.
func (o *Orchestrator) AnalyzePaper(ctx context.Context, paper *models.Paper) *models.PaperAnalysis {
	start := time.Now()

	result, primaryErr := o.primary.AnalyzePaper(ctx, paper)
	if primaryErr == nil {
		return result
	}
	log.Printf("primary engine failed for paper %s: %v", paper.ID, primaryErr)

	if o.fallback == nil {
		return models.NewFailedAnalysis(paper.ID, primaryErr.Error(), time.Since(start).Seconds())
	}

	result, fallbackErr := o.fallback.AnalyzePaper(ctx, paper)
	if fallbackErr != nil {
		log.Printf("fallback engine failed for paper %s: %v", paper.ID, fallbackErr)
		msg := fmt.Sprintf("Primary: %v, Fallback: %v", primaryErr, fallbackErr)
		return models.NewFailedAnalysis(paper.ID, msg, time.Since(start).Seconds())
	}

	// Annotate so downstream consumers can tell which engine produced this.
	result.RawResponse = fmt.Sprintf("FALLBACK ANALYSIS (Primary failed: %v)\n\n%s", primaryErr, result.RawResponse)
	return result
}
