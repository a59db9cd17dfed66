package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"gendata/config"
	"gendata/internal/adapter/analyzer"
	"gendata/internal/adapter/emitter"
	"gendata/internal/adapter/fs"
	"gendata/internal/adapter/memstore"
	"gendata/internal/adapter/store"
	"gendata/internal/port"
	"gendata/internal/usecase"
)

var commentsCmd = &cobra.Command{
	Use:   "comments [path]",
	Short: "Pair comments with the code they document",
	Long: `Scan implementation files for comments that document a declaration or the
statement below them and write one training record per pair.

Examples:
  gendata comments .
  gendata comments /path/to/project --workers 0`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMine(cmd, args, true, false)
	},
}

var testsCmd = &cobra.Command{
	Use:   "tests [path]",
	Short: "Pair test functions with the implementations they call",
	Long: `Scan test files, find the functions each test calls in its sibling
implementation file and write one training record per test function.

Examples:
  gendata tests .
  gendata tests /path/to/project`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMine(cmd, args, false, true)
	},
}

func init() {
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(testsCmd)
}

func runMine(cmd *cobra.Command, args []string, withComments, withTests bool) error {
	cfg := GetConfig()

	// Determine path to scan
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
		if cfgFile == "" && path != GetRootDir() {
			cfg, err = config.LoadFromDir(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	if cmd.Flags().Changed("workers") {
		cfg.Scan.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var names []string
	if withComments {
		names = append(names, usecase.PipelineComments)
	}
	if withTests {
		names = append(names, usecase.PipelineTests)
	}
	if len(names) == 0 {
		return fmt.Errorf("no pipeline enabled")
	}

	sinks, closeSinks, err := openSinks(cfg, path, names)
	if err != nil {
		return err
	}
	defer closeSinks()

	walker := fs.NewWalker(cfg.Scan.Includes, cfg.Scan.Excludes, cfg.Scan.Extension, cfg.Scan.TestSuffix, logger)

	var pipelines []usecase.Pipeline
	if withComments {
		pipelines = append(pipelines, usecase.Pipeline{
			Extractor: usecase.NewCommentPairer(cfg.Comments.SystemPrompt, logger),
			Sink:      sinks[usecase.PipelineComments],
		})
	}
	if withTests {
		pairer := usecase.NewTestPairer(usecase.TestPairerOptions{
			SystemPrompt:   cfg.Tests.SystemPrompt,
			PromptTemplate: cfg.Tests.PromptTemplate,
			Placeholder:    config.FunctionsPlaceholder,
			TestPrefix:     cfg.Tests.TestPrefix,
			Denylist:       buildDenylist(cfg.Tests),
			SiblingPath:    walker.SiblingPath,
		}, fs.Reader{}, logger)
		pipelines = append(pipelines, usecase.Pipeline{
			Extractor: pairer,
			Sink:      sinks[usecase.PipelineTests],
		})
	}

	mineUC := usecase.NewMineUseCase(walker, pipelines, cfg.Scan.Workers, logger)

	fmt.Printf("Scanning %s...\n", path)

	bar := newProgressBar(!quiet)
	result, err := mineUC.Mine(cmd.Context(), path, func(p usecase.MineProgress) {
		bar.Describe(fmt.Sprintf("[cyan]Mining[reset] %s", p.File))
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	if err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}

	fmt.Printf("\nMining complete:\n")
	fmt.Printf("  Files scanned:        %d\n", result.FilesScanned)
	fmt.Printf("  Implementation files: %d\n", result.ImplementationFiles)
	fmt.Printf("  Test files:           %d\n", result.TestFiles)

	for _, p := range pipelines {
		name := p.Extractor.Name()
		records, err := p.Sink.Records()
		if err != nil {
			return fmt.Errorf("failed to read %s records: %w", name, err)
		}

		out := config.OutputPath(path, outputName(cfg, name))
		n, err := emitter.WriteFile(out, records)
		if err != nil {
			return err
		}
		fmt.Printf("  %-20s  %d records -> %s\n", name+":", n, out)
	}

	return nil
}

func openSinks(cfg *config.Config, root string, names []string) (map[string]port.RecordSink, func(), error) {
	sinks := make(map[string]port.RecordSink, len(names))

	if cfg.Emit.Spool != config.SpoolBolt {
		for _, name := range names {
			sinks[name] = memstore.NewRecordStore()
		}
		return sinks, func() {}, nil
	}

	if err := config.EnsureDataDir(root); err != nil {
		return nil, nil, fmt.Errorf("failed to create .gendata directory: %w", err)
	}
	spool, err := store.OpenBoltSpool(config.SpoolPath(root))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open record spool: %w", err)
	}
	for _, name := range names {
		sink, err := spool.Sink(name)
		if err != nil {
			spool.Close()
			return nil, nil, err
		}
		sinks[name] = sink
	}
	return sinks, func() { spool.Close() }, nil
}

// buildDenylist applies the configured replacement and extension to the default list.
func buildDenylist(tc config.TestsConfig) *analyzer.Denylist {
	deny := analyzer.DefaultDenylist()
	if len(tc.Denylist) > 0 {
		deny = analyzer.NewDenylist(tc.Denylist...)
	}
	return deny.With(tc.ExtraDenylist...)
}

func outputName(cfg *config.Config, pipeline string) string {
	if pipeline == usecase.PipelineTests {
		return cfg.Tests.Output
	}
	return cfg.Comments.Output
}

func newProgressBar(visible bool) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[cyan]Mining[reset]"),
		progressbar.OptionClearOnFinish(),
	)
}
