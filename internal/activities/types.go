package activities

import "paperlens/internal/models"

type ListPapersInput struct {
	InputDir string `json:"input_dir"`
}

type ListPapersOutput struct {
	Paths []string `json:"paths"`
}

type LoadPaperInput struct {
	PaperPath string `json:"paper_path"`
}

type LoadPaperOutput struct {
	Paper models.Paper `json:"paper"`
}

type RecordPaperInput struct {
	Paper models.Paper `json:"paper"`
	RunID string       `json:"run_id"`
}

type UpdatePaperStatusInput struct {
	PaperID    string `json:"paper_id"`
	Status     string `json:"status"`
	FailReason string `json:"fail_reason,omitempty"`
}

type AnalyzePaperInput struct {
	Paper models.Paper `json:"paper"`
}

type AnalyzePaperOutput struct {
	Analysis models.PaperAnalysis `json:"analysis"`
}

type SaveAnalysisInput struct {
	Analysis models.PaperAnalysis `json:"analysis"`
}

type WriteAnalysisArtifactInput struct {
	RunID    string               `json:"run_id"`
	Analysis models.PaperAnalysis `json:"analysis"`
}

type WriteAnalysisArtifactOutput struct {
	Path string `json:"path"`
}

type CreateRunInput struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

type CreateRunOutput struct {
	RunID string `json:"run_id"`
}

type FinishRunInput struct {
	RunID     string `json:"run_id"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
}

type WriteRunSummaryInput struct {
	RunID   string         `json:"run_id"`
	Summary map[string]any `json:"summary"`
}

type LogLLMCallInput struct {
	Operation string `json:"operation"`
	RunID     string `json:"run_id"`
	PaperID   string `json:"paper_id"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Status    string `json:"status"`
	ErrorType string `json:"error_type,omitempty"`
}
