package workflows

import (
	"path/filepath"
	"strings"
	"time"

	"paperlens/internal/activities"
	"paperlens/internal/models"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetPaperStatus = "GetPaperStatus"
	QueryGetProgress    = "GetProgress"
)

// BatchAnalyzeWorkflow analyzes every supported paper under a directory,
// running at most MaxConcurrentChildren child workflows at a time. Each
// paper's outcome is independent: a failed child only increments the failure
// count.
func BatchAnalyzeWorkflow(ctx workflow.Context, input BatchAnalyzeInput) (string, error) {
	progress := BatchProgress{
		PerPaper:      map[string]string{},
		ChildWorkflow: map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetProgress, func() (BatchProgress, error) {
		return progress, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var listOut activities.ListPapersOutput
	if err := workflow.ExecuteActivity(ctx, "ListPapersActivity", activities.ListPapersInput{InputDir: input.InputDir}).Get(ctx, &listOut); err != nil {
		return "", err
	}
	paths := listOut.Paths
	progress.Total = len(paths)

	var runOut activities.CreateRunOutput
	if err := workflow.ExecuteActivity(ctx, "CreateRunActivity", activities.CreateRunInput{Name: input.RunName, Total: len(paths)}).Get(ctx, &runOut); err != nil {
		return "", err
	}
	progress.RunID = runOut.RunID

	maxChildren := input.MaxConcurrentChildren
	if maxChildren <= 0 {
		maxChildren = 3
	}

	for i := 0; i < len(paths); i += maxChildren {
		end := i + maxChildren
		if end > len(paths) {
			end = len(paths)
		}
		futures := make([]workflow.ChildWorkflowFuture, 0, end-i)
		childPaths := make([]string, 0, end-i)
		for _, path := range paths[i:end] {
			progress.PerPaper[path] = "processing"
			workflowID := "paper-" + sanitizeID(runOut.RunID) + "-" + sanitizeID(filepath.Base(path))
			childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{WorkflowID: workflowID})
			f := workflow.ExecuteChildWorkflow(childCtx, AnalyzePaperWorkflow, AnalyzePaperInput{
				RunID:     runOut.RunID,
				PaperPath: path,
			})
			futures = append(futures, f)
			childPaths = append(childPaths, path)
			progress.ChildWorkflow[path] = workflowID
		}

		for idx, f := range futures {
			var childStatus string
			err := f.Get(ctx, &childStatus)
			path := childPaths[idx]
			if err != nil {
				progress.Failed++
				progress.PerPaper[path] = "failed"
				progress.Done++
				continue
			}
			if childStatus == string(models.StatusFailed) {
				progress.Failed++
			}
			progress.Done++
			progress.PerPaper[path] = childStatus
		}
	}

	completed := progress.Done - progress.Failed
	_ = workflow.ExecuteActivity(ctx, "FinishRunActivity", activities.FinishRunInput{
		RunID:     runOut.RunID,
		Completed: completed,
		Failed:    progress.Failed,
	}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "WriteRunSummaryActivity", activities.WriteRunSummaryInput{
		RunID: runOut.RunID,
		Summary: map[string]any{
			"run_id":           runOut.RunID,
			"total":            progress.Total,
			"completed":        completed,
			"failed":           progress.Failed,
			"per_paper_status": progress.PerPaper,
			"generated_at":     workflow.Now(ctx),
		},
	}).Get(ctx, nil)

	return "completed", nil
}

// AnalyzePaperWorkflow runs the per-paper pipeline: load, record, analyze,
// persist, artifact. Content problems (unreadable or unsupported files) end
// the workflow with a "failed" result instead of a workflow error.
func AnalyzePaperWorkflow(ctx workflow.Context, input AnalyzePaperInput) (string, error) {
	status := PaperStatus{
		PaperPath:   input.PaperPath,
		CurrentStep: "init",
		Status:      "processing",
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetPaperStatus, func() (PaperStatus, error) {
		return status, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	status.CurrentStep = "load_paper"
	status.Steps[status.CurrentStep] = "processing"
	var loadOut activities.LoadPaperOutput
	if err := workflow.ExecuteActivity(ctx, "LoadPaperActivity", activities.LoadPaperInput{PaperPath: input.PaperPath}).Get(ctx, &loadOut); err != nil {
		if isContentError(err) {
			status.Status = "failed"
			status.FailReason = err.Error()
			status.Steps[status.CurrentStep] = "failed"
			return status.Status, nil
		}
		return "", err
	}
	paper := loadOut.Paper
	status.PaperID = paper.ID
	status.Steps[status.CurrentStep] = "done"

	_ = workflow.ExecuteActivity(ctx, "RecordPaperActivity", activities.RecordPaperInput{Paper: paper, RunID: input.RunID}).Get(ctx, nil)
	_ = workflow.ExecuteActivity(ctx, "UpdatePaperStatusActivity", activities.UpdatePaperStatusInput{PaperID: paper.ID, Status: "processing"}).Get(ctx, nil)

	status.CurrentStep = "analyze"
	status.Steps[status.CurrentStep] = "processing"
	var analyzeOut activities.AnalyzePaperOutput
	if err := workflow.ExecuteActivity(ctx, "AnalyzePaperActivity", activities.AnalyzePaperInput{Paper: paper}).Get(ctx, &analyzeOut); err != nil {
		return "", err
	}
	result := analyzeOut.Analysis
	status.Steps[status.CurrentStep] = "done"

	llmStatus := "ok"
	errType := ""
	if result.Status == models.StatusFailed {
		llmStatus = "failed"
		if result.ErrorMessage != nil {
			errType = *result.ErrorMessage
		}
	}
	_ = workflow.ExecuteActivity(ctx, "LogLLMCallActivity", activities.LogLLMCallInput{
		Operation: "analyze_paper",
		RunID:     input.RunID,
		PaperID:   paper.ID,
		Provider:  result.ModelUsed,
		Model:     result.ModelUsed,
		Status:    llmStatus,
		ErrorType: errType,
	}).Get(ctx, nil)

	status.CurrentStep = "persist"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "SaveAnalysisActivity", activities.SaveAnalysisInput{Analysis: result}).Get(ctx, nil); err != nil {
		return "", err
	}
	if err := workflow.ExecuteActivity(ctx, "WriteAnalysisArtifactActivity", activities.WriteAnalysisArtifactInput{RunID: input.RunID, Analysis: result}).Get(ctx, nil); err != nil {
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	failReason := ""
	if result.ErrorMessage != nil {
		failReason = *result.ErrorMessage
	}
	_ = workflow.ExecuteActivity(ctx, "UpdatePaperStatusActivity", activities.UpdatePaperStatusInput{
		PaperID:    paper.ID,
		Status:     string(result.Status),
		FailReason: failReason,
	}).Get(ctx, nil)

	status.Status = string(result.Status)
	return status.Status, nil
}

func isContentError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no extractable text") || strings.Contains(msg, "unsupported paper file format")
}

func sanitizeID(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '-', ch == '_', ch == '.':
			b.WriteRune(ch)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
