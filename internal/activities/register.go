package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ListPapersActivity)
	w.RegisterActivity(a.LoadPaperActivity)
	w.RegisterActivity(a.RecordPaperActivity)
	w.RegisterActivity(a.UpdatePaperStatusActivity)
	w.RegisterActivity(a.AnalyzePaperActivity)
	w.RegisterActivity(a.SaveAnalysisActivity)
	w.RegisterActivity(a.WriteAnalysisArtifactActivity)
	w.RegisterActivity(a.CreateRunActivity)
	w.RegisterActivity(a.FinishRunActivity)
	w.RegisterActivity(a.WriteRunSummaryActivity)
	w.RegisterActivity(a.LogLLMCallActivity)
}
