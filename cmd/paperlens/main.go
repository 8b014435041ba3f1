package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"paperlens/internal/analysis"
	"paperlens/internal/config"
	"paperlens/internal/ingest"
	"paperlens/internal/models"
	"paperlens/internal/providers"
	"paperlens/internal/prompts"
	"paperlens/internal/util"
	"paperlens/internal/workflows"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
)

func main() {
	_ = godotenv.Load(".env")
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "analyze":
		runAnalyze(os.Args[2:])
	case "batch-analyze":
		runBatchAnalyze(os.Args[2:])
	case "test-connection":
		runTestConnection(os.Args[2:])
	case "info":
		runInfo(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `paperlens - academic paper analysis

Usage:
  paperlens analyze [flags] <paper>        analyze a single paper
  paperlens batch-analyze [flags] <dir>    analyze every paper in a directory
  paperlens test-connection [flags]        check provider connectivity
  paperlens info [flags]                   show configured engines and formats

Run any command with -h for its flags.
`)
}

func fatal(err error) {
	log.Printf("error: %v", err)
	os.Exit(1)
}

type commonFlags struct {
	configFile    string
	model         string
	promptVersion string
	maxLength     int
}

func registerCommon(fs *flag.FlagSet) *commonFlags {
	cf := &commonFlags{}
	fs.StringVar(&cf.configFile, "config", "", "path to a YAML config file")
	fs.StringVar(&cf.model, "model", "", "override the primary model")
	fs.StringVar(&cf.promptVersion, "prompt-version", "", "prompt version (EN, EN_2_0, ZH, ZH_2_0)")
	fs.IntVar(&cf.maxLength, "max-length", 0, "maximum paper length in characters")
	return cf
}

func loadConfig(cf *commonFlags) config.Config {
	cfg, err := config.Load(cf.configFile)
	if err != nil {
		fatal(err)
	}
	if cf.model != "" {
		cfg.AI.Model = cf.model
	}
	if cf.promptVersion != "" {
		cfg.Analysis.PromptVersion = cf.promptVersion
	}
	if cf.maxLength > 0 {
		cfg.Analysis.MaxPaperLength = cf.maxLength
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	return cfg
}

func buildOrchestrator(cfg config.Config) *analysis.Orchestrator {
	primary, err := providers.New(cfg.AI)
	if err != nil {
		fatal(err)
	}
	var fallback analysis.Engine
	if cfg.HasFallback() {
		adapter, err := providers.New(cfg.Fallback)
		if err != nil {
			fatal(err)
		}
		fallback = analysis.NewAIEngine(adapter, cfg.Analysis)
	}
	return analysis.NewOrchestrator(analysis.NewAIEngine(primary, cfg.Analysis), fallback)
}

func runAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	cf := registerCommon(fs)
	output := fs.String("output", "", "write the analysis JSON to this file instead of stdout")
	remote := fs.Bool("remote", false, "submit to a paperlens worker via Temporal instead of analyzing locally")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fatal(fmt.Errorf("analyze expects exactly one paper path, got %d", fs.NArg()))
	}
	path := fs.Arg(0)
	cfg := loadConfig(cf)

	if *remote {
		status, err := submitPaper(cfg, path)
		if err != nil {
			fatal(err)
		}
		fmt.Println(status)
		if status != string(models.StatusCompleted) {
			os.Exit(1)
		}
		return
	}

	paper, err := ingest.NewRegistry().LoadPaper(path)
	if err != nil {
		fatal(err)
	}
	result := buildOrchestrator(cfg).AnalyzePaper(context.Background(), paper)
	if err := emitAnalysis(result, *output); err != nil {
		fatal(err)
	}
	if result.Status != models.StatusCompleted {
		os.Exit(1)
	}
}

func runBatchAnalyze(args []string) {
	fs := flag.NewFlagSet("batch-analyze", flag.ExitOnError)
	cf := registerCommon(fs)
	outputDir := fs.String("output-dir", "", "directory for per-paper analysis JSON files (defaults to out_dir)")
	concurrent := fs.Int("concurrent", 0, "number of papers analyzed concurrently")
	remote := fs.Bool("remote", false, "submit to a paperlens worker via Temporal instead of analyzing locally")
	runName := fs.String("run-name", "", "name recorded for this batch run")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fatal(fmt.Errorf("batch-analyze expects exactly one input directory, got %d", fs.NArg()))
	}
	dir := fs.Arg(0)
	cfg := loadConfig(cf)
	if *concurrent > 0 {
		cfg.Analysis.Concurrency = *concurrent
	}

	if *remote {
		status, err := submitBatch(cfg, dir, *runName)
		if err != nil {
			fatal(err)
		}
		fmt.Println(status)
		return
	}

	registry := ingest.NewRegistry()
	paths, err := listPapers(registry, dir)
	if err != nil {
		fatal(err)
	}
	if len(paths) == 0 {
		fatal(fmt.Errorf("no supported papers found in %s", dir))
	}

	results := analyzeAll(context.Background(), registry, buildOrchestrator(cfg), paths, cfg.Analysis.Concurrency)

	outDir := *outputDir
	if outDir == "" {
		outDir = filepath.Join(cfg.OutDir, "runs", uuid.NewString())
	}
	for _, r := range results {
		if err := util.WriteJSONAtomic(filepath.Join(outDir, r.PaperID+".json"), r.Export()); err != nil {
			fatal(err)
		}
	}

	completed, failed := analysis.Summarize(results)
	fmt.Printf("%d/%d papers analyzed successfully (results in %s)\n", completed, len(results), outDir)
	if failed > 0 {
		os.Exit(1)
	}
}

// analyzeAll loads and analyzes every path, keeping results index-aligned
// with the input so papers that fail to load hold their position.
func analyzeAll(ctx context.Context, registry *ingest.Registry, orch *analysis.Orchestrator, paths []string, concurrency int) []*models.PaperAnalysis {
	results := make([]*models.PaperAnalysis, len(paths))
	papers := make([]*models.Paper, 0, len(paths))
	loaded := make([]int, 0, len(paths))
	for i, p := range paths {
		paper, err := registry.LoadPaper(p)
		if err != nil {
			log.Printf("skipping %s: %v", p, err)
			results[i] = models.NewFailedAnalysis("paper_"+util.ShortHash(p), err.Error(), 0)
			continue
		}
		papers = append(papers, paper)
		loaded = append(loaded, i)
	}
	for j, r := range orch.BatchAnalyze(ctx, papers, concurrency) {
		results[loaded[j]] = r
	}
	return results
}

func runTestConnection(args []string) {
	fs := flag.NewFlagSet("test-connection", flag.ExitOnError)
	cf := registerCommon(fs)
	_ = fs.Parse(args)
	cfg := loadConfig(cf)

	adapter, err := providers.New(cfg.AI)
	if err != nil {
		fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.AI.Timeout())
	defer cancel()
	if err := adapter.TestConnection(ctx); err != nil {
		fatal(fmt.Errorf("connection test failed: %w", err))
	}
	info := adapter.Info()
	fmt.Printf("ok: %s (%s)\n", info.Provider, info.Model)
}

func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cf := registerCommon(fs)
	_ = fs.Parse(args)
	cfg := loadConfig(cf)

	exts := ingest.NewRegistry().SupportedExtensions()
	sort.Strings(exts)
	info := map[string]any{
		"orchestrator":      buildOrchestrator(cfg).Info(),
		"prompt_version":    cfg.Analysis.PromptVersion,
		"prompt_versions":   prompts.SupportedVersions(),
		"supported_formats": exts,
		"max_paper_length":  cfg.Analysis.MaxPaperLength,
		"concurrency":       cfg.Analysis.Concurrency,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		fatal(err)
	}
}

func emitAnalysis(a *models.PaperAnalysis, output string) error {
	if output != "" {
		return util.WriteJSONAtomic(output, a.Export())
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(a.Export())
}

func listPapers(registry *ingest.Registry, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	supported := make(map[string]bool)
	for _, ext := range registry.SupportedExtensions() {
		supported[ext] = true
	}
	paths := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supported[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func submitPaper(cfg config.Config, path string) (string, error) {
	c, err := client.Dial(client.Options{HostPort: cfg.Worker.TemporalAddress})
	if err != nil {
		return "", fmt.Errorf("connect temporal: %w", err)
	}
	defer c.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	run, err := c.ExecuteWorkflow(context.Background(), client.StartWorkflowOptions{
		ID:                    "paper-" + uuid.NewString(),
		TaskQueue:             cfg.Worker.TaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.AnalyzePaperWorkflow, workflows.AnalyzePaperInput{PaperPath: abs})
	if err != nil {
		return "", fmt.Errorf("start workflow: %w", err)
	}
	log.Printf("submitted workflow %s", run.GetID())

	var status string
	if err := run.Get(context.Background(), &status); err != nil {
		return "", fmt.Errorf("await workflow: %w", err)
	}
	return status, nil
}

func submitBatch(cfg config.Config, dir, runName string) (string, error) {
	c, err := client.Dial(client.Options{HostPort: cfg.Worker.TemporalAddress})
	if err != nil {
		return "", fmt.Errorf("connect temporal: %w", err)
	}
	defer c.Close()

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if runName == "" {
		runName = "batch-" + time.Now().Format("20060102-150405")
	}
	run, err := c.ExecuteWorkflow(context.Background(), client.StartWorkflowOptions{
		ID:                    "batch-" + uuid.NewString(),
		TaskQueue:             cfg.Worker.TaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.BatchAnalyzeWorkflow, workflows.BatchAnalyzeInput{
		InputDir:              abs,
		RunName:               runName,
		MaxConcurrentChildren: cfg.Worker.MaxChildren,
	})
	if err != nil {
		return "", fmt.Errorf("start workflow: %w", err)
	}
	log.Printf("submitted workflow %s", run.GetID())

	var status string
	if err := run.Get(context.Background(), &status); err != nil {
		return "", fmt.Errorf("await workflow: %w", err)
	}
	return status, nil
}
