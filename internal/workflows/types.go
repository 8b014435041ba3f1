package workflows

type AnalyzePaperInput struct {
	RunID     string `json:"run_id"`
	PaperPath string `json:"paper_path"`
}

type BatchAnalyzeInput struct {
	InputDir              string `json:"input_dir"`
	RunName               string `json:"run_name"`
	MaxConcurrentChildren int    `json:"max_concurrent_children"`
}

type PaperStatus struct {
	PaperID     string            `json:"paper_id"`
	PaperPath   string            `json:"paper_path"`
	CurrentStep string            `json:"current_step"`
	Status      string            `json:"status"`
	FailReason  string            `json:"fail_reason,omitempty"`
	Steps       map[string]string `json:"steps"`
}

type BatchProgress struct {
	RunID         string            `json:"run_id"`
	Total         int               `json:"total"`
	Done          int               `json:"done"`
	Failed        int               `json:"failed"`
	PerPaper      map[string]string `json:"per_paper_status"`
	ChildWorkflow map[string]string `json:"child_workflow_ids,omitempty"`
}
