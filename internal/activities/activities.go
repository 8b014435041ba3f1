package activities

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"paperlens/internal/analysis"
	"paperlens/internal/config"
	"paperlens/internal/ingest"
	"paperlens/internal/providers"
	"paperlens/internal/storage"
	"paperlens/internal/util"
)

type Activities struct {
	cfg          config.Config
	registry     *ingest.Registry
	orchestrator *analysis.Orchestrator
	paperRepo    *storage.PaperRepo
	analysisRepo *storage.AnalysisRepo
	runRepo      *storage.RunRepo
	llmAuditRepo *storage.LLMAuditRepo
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	primary, err := providers.New(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("build primary provider: %w", err)
	}
	var fallback analysis.Engine
	if cfg.HasFallback() {
		adapter, err := providers.New(cfg.Fallback)
		if err != nil {
			return nil, fmt.Errorf("build fallback provider: %w", err)
		}
		fallback = analysis.NewAIEngine(adapter, cfg.Analysis)
	}
	return &Activities{
		cfg:          cfg,
		registry:     ingest.NewRegistry(),
		orchestrator: analysis.NewOrchestrator(analysis.NewAIEngine(primary, cfg.Analysis), fallback),
		paperRepo:    storage.NewPaperRepo(db),
		analysisRepo: storage.NewAnalysisRepo(db),
		runRepo:      storage.NewRunRepo(db),
		llmAuditRepo: storage.NewLLMAuditRepo(db),
	}, nil
}

// ListPapersActivity lists supported papers under a directory, sorted so the
// batch order is deterministic.
func (a *Activities) ListPapersActivity(ctx context.Context, in ListPapersInput) (ListPapersOutput, error) {
	_ = ctx
	entries, err := os.ReadDir(in.InputDir)
	if err != nil {
		return ListPapersOutput{}, fmt.Errorf("read input dir: %w", err)
	}
	supported := make(map[string]bool)
	for _, ext := range a.registry.SupportedExtensions() {
		supported[ext] = true
	}
	paths := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supported[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(in.InputDir, e.Name()))
		}
	}
	sort.Strings(paths)
	return ListPapersOutput{Paths: paths}, nil
}

func (a *Activities) LoadPaperActivity(ctx context.Context, in LoadPaperInput) (LoadPaperOutput, error) {
	_ = ctx
	paper, err := a.registry.LoadPaper(in.PaperPath)
	if err != nil {
		return LoadPaperOutput{}, err
	}
	return LoadPaperOutput{Paper: *paper}, nil
}

func (a *Activities) RecordPaperActivity(ctx context.Context, in RecordPaperInput) error {
	return a.paperRepo.UpsertPaper(ctx, &in.Paper, in.RunID)
}

func (a *Activities) UpdatePaperStatusActivity(ctx context.Context, in UpdatePaperStatusInput) error {
	return a.paperRepo.UpdatePaperStatus(ctx, in.PaperID, in.Status, in.FailReason)
}

// AnalyzePaperActivity runs the full analysis pipeline for one paper. The
// orchestrator absorbs engine failures, so the returned analysis may carry
// failed status but the activity itself only fails on infrastructure errors.
func (a *Activities) AnalyzePaperActivity(ctx context.Context, in AnalyzePaperInput) (AnalyzePaperOutput, error) {
	result := a.orchestrator.AnalyzePaper(ctx, &in.Paper)
	return AnalyzePaperOutput{Analysis: *result}, nil
}

func (a *Activities) SaveAnalysisActivity(ctx context.Context, in SaveAnalysisInput) error {
	return a.analysisRepo.UpsertAnalysis(ctx, &in.Analysis)
}

func (a *Activities) WriteAnalysisArtifactActivity(ctx context.Context, in WriteAnalysisArtifactInput) (WriteAnalysisArtifactOutput, error) {
	_ = ctx
	runDir := util.SafeJoin(filepath.Join(a.cfg.OutDir, "runs"), in.RunID)
	path := util.SafeJoin(runDir, in.Analysis.PaperID+".json")
	if err := util.WriteJSONAtomic(path, in.Analysis.Export()); err != nil {
		return WriteAnalysisArtifactOutput{}, err
	}
	if in.Analysis.RawResponse != "" {
		rawPath := util.SafeJoin(runDir, in.Analysis.PaperID+"_raw.txt")
		if err := util.WriteTextAtomic(rawPath, in.Analysis.RawResponse); err != nil {
			return WriteAnalysisArtifactOutput{}, err
		}
	}
	return WriteAnalysisArtifactOutput{Path: path}, nil
}

func (a *Activities) CreateRunActivity(ctx context.Context, in CreateRunInput) (CreateRunOutput, error) {
	runID, err := a.runRepo.CreateRun(ctx, in.Name, in.Total)
	if err != nil {
		return CreateRunOutput{}, err
	}
	return CreateRunOutput{RunID: runID}, nil
}

func (a *Activities) FinishRunActivity(ctx context.Context, in FinishRunInput) error {
	return a.runRepo.FinishRun(ctx, in.RunID, in.Completed, in.Failed)
}

func (a *Activities) WriteRunSummaryActivity(ctx context.Context, in WriteRunSummaryInput) error {
	_ = ctx
	path := filepath.Join(a.cfg.OutDir, "runs", in.RunID, "run_summary.json")
	return util.WriteJSONAtomic(path, in.Summary)
}

func (a *Activities) LogLLMCallActivity(ctx context.Context, in LogLLMCallInput) error {
	return a.llmAuditRepo.Insert(ctx, storage.LLMCallRecord{
		Operation:    in.Operation,
		RunID:        in.RunID,
		PaperID:      in.PaperID,
		ProviderName: in.Provider,
		Model:        in.Model,
		Status:       in.Status,
		ErrorType:    in.ErrorType,
	})
}
