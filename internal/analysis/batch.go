package analysis

import (
	"context"
	"log"
	"sync"

	"paperlens/internal/models"
)

// BatchAnalyze analyzes papers concurrently, admitting at most concurrency
// papers into the pipeline at a time. The result slice is index-aligned with
// the input, and a failed paper never stops its neighbors.
func (o *Orchestrator) BatchAnalyze(ctx context.Context, papers []*models.Paper, concurrency int) []*models.PaperAnalysis {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]*models.PaperAnalysis, len(papers))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, paper := range papers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = o.AnalyzePaper(ctx, paper)
		}()
	}
	wg.Wait()

	completed := 0
	for _, r := range results {
		if r.Status == models.StatusCompleted {
			completed++
		}
	}
	log.Printf("batch complete: %d/%d papers analyzed successfully", completed, len(papers))
	return results
}

// Summarize counts batch outcomes for reporting.
func Summarize(results []*models.PaperAnalysis) (completed, failed int) {
	for _, r := range results {
		if r.Status == models.StatusCompleted {
			completed++
		} else {
			failed++
		}
	}
	return completed, failed
}
