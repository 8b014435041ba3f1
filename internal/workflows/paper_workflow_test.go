package workflows

import (
	"context"
	"errors"
	"testing"

	"paperlens/internal/activities"
	"paperlens/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func registerPaperActivities(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "LoadPaperActivity", func(context.Context, activities.LoadPaperInput) (activities.LoadPaperOutput, error) {
		return activities.LoadPaperOutput{}, nil
	})
	registerActivityName(env, "RecordPaperActivity", func(context.Context, activities.RecordPaperInput) error { return nil })
	registerActivityName(env, "UpdatePaperStatusActivity", func(context.Context, activities.UpdatePaperStatusInput) error { return nil })
	registerActivityName(env, "AnalyzePaperActivity", func(context.Context, activities.AnalyzePaperInput) (activities.AnalyzePaperOutput, error) {
		return activities.AnalyzePaperOutput{}, nil
	})
	registerActivityName(env, "SaveAnalysisActivity", func(context.Context, activities.SaveAnalysisInput) error { return nil })
	registerActivityName(env, "WriteAnalysisArtifactActivity", func(context.Context, activities.WriteAnalysisArtifactInput) (activities.WriteAnalysisArtifactOutput, error) {
		return activities.WriteAnalysisArtifactOutput{}, nil
	})
	registerActivityName(env, "LogLLMCallActivity", func(context.Context, activities.LogLLMCallInput) error { return nil })
}

func completedAnalysis(paperID string) models.PaperAnalysis {
	a := models.NewAnalysis(paperID, "EN_2_0", "mock-model")
	a.Title = "A Paper"
	a.Summary = "Summary of the paper for the test."
	a.Status = models.StatusCompleted
	return *a
}

func TestAnalyzePaperWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(AnalyzePaperWorkflow)
	registerPaperActivities(env)

	paper := *models.NewPaper("/tmp/p.pdf", "A Paper\n\nBody of the paper for analysis.", models.PaperTypePDF)
	env.OnActivity("LoadPaperActivity", mock.Anything, activities.LoadPaperInput{PaperPath: "/tmp/p.pdf"}).
		Return(activities.LoadPaperOutput{Paper: paper}, nil)
	env.OnActivity("RecordPaperActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("UpdatePaperStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("AnalyzePaperActivity", mock.Anything, mock.Anything).
		Return(activities.AnalyzePaperOutput{Analysis: completedAnalysis(paper.ID)}, nil)
	env.OnActivity("SaveAnalysisActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("WriteAnalysisArtifactActivity", mock.Anything, mock.Anything).
		Return(activities.WriteAnalysisArtifactOutput{Path: "/out/runs/r/p.json"}, nil)
	env.OnActivity("LogLLMCallActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(AnalyzePaperWorkflow, AnalyzePaperInput{RunID: "run1", PaperPath: "/tmp/p.pdf"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "completed", out)
}

func TestAnalyzePaperWorkflowNoTextFailsGracefully(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(AnalyzePaperWorkflow)
	registerPaperActivities(env)

	env.OnActivity("LoadPaperActivity", mock.Anything, mock.Anything).
		Return(activities.LoadPaperOutput{}, errors.New("scan.pdf: no extractable text found"))

	env.ExecuteWorkflow(AnalyzePaperWorkflow, AnalyzePaperInput{RunID: "run1", PaperPath: "/tmp/scan.pdf"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}

func TestAnalyzePaperWorkflowFailedAnalysisIsData(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(AnalyzePaperWorkflow)
	registerPaperActivities(env)

	paper := *models.NewPaper("/tmp/p.txt", "A Paper\n\nBody.", models.PaperTypeTxt)
	failed := *models.NewFailedAnalysis(paper.ID, "Primary: p-err, Fallback: f-err", 1.2)

	env.OnActivity("LoadPaperActivity", mock.Anything, mock.Anything).
		Return(activities.LoadPaperOutput{Paper: paper}, nil)
	env.OnActivity("RecordPaperActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("UpdatePaperStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("AnalyzePaperActivity", mock.Anything, mock.Anything).
		Return(activities.AnalyzePaperOutput{Analysis: failed}, nil)
	env.OnActivity("SaveAnalysisActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("WriteAnalysisArtifactActivity", mock.Anything, mock.Anything).
		Return(activities.WriteAnalysisArtifactOutput{}, nil)
	env.OnActivity("LogLLMCallActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(AnalyzePaperWorkflow, AnalyzePaperInput{RunID: "run1", PaperPath: "/tmp/p.txt"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}

func TestBatchAnalyzeWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(BatchAnalyzeWorkflow)
	env.RegisterWorkflow(AnalyzePaperWorkflow)
	registerPaperActivities(env)
	registerActivityName(env, "ListPapersActivity", func(context.Context, activities.ListPapersInput) (activities.ListPapersOutput, error) {
		return activities.ListPapersOutput{}, nil
	})
	registerActivityName(env, "CreateRunActivity", func(context.Context, activities.CreateRunInput) (activities.CreateRunOutput, error) {
		return activities.CreateRunOutput{}, nil
	})
	registerActivityName(env, "FinishRunActivity", func(context.Context, activities.FinishRunInput) error { return nil })
	registerActivityName(env, "WriteRunSummaryActivity", func(context.Context, activities.WriteRunSummaryInput) error { return nil })

	env.OnActivity("ListPapersActivity", mock.Anything, activities.ListPapersInput{InputDir: "/papers"}).
		Return(activities.ListPapersOutput{Paths: []string{"/papers/a.pdf", "/papers/b.pdf", "/papers/c.pdf"}}, nil)
	env.OnActivity("CreateRunActivity", mock.Anything, activities.CreateRunInput{Name: "nightly", Total: 3}).
		Return(activities.CreateRunOutput{RunID: "run-42"}, nil)
	env.OnActivity("LoadPaperActivity", mock.Anything, mock.Anything).Return(
		func(_ context.Context, in activities.LoadPaperInput) (activities.LoadPaperOutput, error) {
			if in.PaperPath == "/papers/b.pdf" {
				return activities.LoadPaperOutput{}, errors.New("b.pdf: no extractable text found")
			}
			paper := *models.NewPaper(in.PaperPath, "Paper at "+in.PaperPath+"\n\nBody.", models.PaperTypePDF)
			return activities.LoadPaperOutput{Paper: paper}, nil
		})
	env.OnActivity("RecordPaperActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("UpdatePaperStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("AnalyzePaperActivity", mock.Anything, mock.Anything).Return(
		func(_ context.Context, in activities.AnalyzePaperInput) (activities.AnalyzePaperOutput, error) {
			return activities.AnalyzePaperOutput{Analysis: completedAnalysis(in.Paper.ID)}, nil
		})
	env.OnActivity("SaveAnalysisActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("WriteAnalysisArtifactActivity", mock.Anything, mock.Anything).
		Return(activities.WriteAnalysisArtifactOutput{}, nil)
	env.OnActivity("LogLLMCallActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("FinishRunActivity", mock.Anything, activities.FinishRunInput{RunID: "run-42", Completed: 2, Failed: 1}).Return(nil)
	env.OnActivity("WriteRunSummaryActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(BatchAnalyzeWorkflow, BatchAnalyzeInput{InputDir: "/papers", RunName: "nightly", MaxConcurrentChildren: 2})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "completed", out)

	qr, err := env.QueryWorkflow(QueryGetProgress)
	require.NoError(t, err)
	var progress BatchProgress
	require.NoError(t, qr.Get(&progress))
	require.Equal(t, 3, progress.Total)
	require.Equal(t, 3, progress.Done)
	require.Equal(t, 1, progress.Failed)
	require.Equal(t, "failed", progress.PerPaper["/papers/b.pdf"])
}
