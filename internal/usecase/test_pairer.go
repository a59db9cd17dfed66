package usecase

import (
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"

	"gendata/internal/adapter/analyzer"
	"gendata/internal/domain"
	"gendata/internal/port"
)

// TestPairerOptions configures a TestPairer.
type TestPairerOptions struct {
	SystemPrompt string
	// PromptTemplate must contain Placeholder, which is replaced by the
	// comma-separated names of the functions a test calls.
	PromptTemplate string
	Placeholder    string
	TestPrefix     string
	Denylist       *analyzer.Denylist
	// SiblingPath maps a test file path to its implementation file path.
	SiblingPath func(testPath string) string
}

// TestPairer pairs test functions with the implementations they call in the
// test file's sibling implementation file.
type TestPairer struct {
	opts   TestPairerOptions
	reader port.FileReader
	logger *zap.Logger
}

// NewTestPairer creates a new test pairer.
func NewTestPairer(opts TestPairerOptions, reader port.FileReader, logger *zap.Logger) *TestPairer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Denylist == nil {
		opts.Denylist = analyzer.DefaultDenylist()
	}
	return &TestPairer{
		opts:   opts,
		reader: reader,
		logger: logger,
	}
}

func (p *TestPairer) Name() string {
	return PipelineTests
}

func (p *TestPairer) Accepts(file domain.SourceFile) bool {
	return file.Role == domain.RoleTest
}

// Extract emits one record per test function that calls at least one function
// defined in the sibling file. A test file without a readable sibling yields nothing.
func (p *TestPairer) Extract(file domain.SourceFile) []domain.TrainingRecord {
	siblingPath := p.opts.SiblingPath(file.Path)
	impl, err := p.reader.ReadFile(siblingPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Debug("no implementation file for test file",
				zap.String("file", file.RelPath),
				zap.String("sibling", siblingPath))
		} else {
			p.logger.Warn("skipping test file, implementation file unreadable",
				zap.String("file", file.RelPath),
				zap.String("sibling", siblingPath),
				zap.Error(err))
		}
		return nil
	}

	funcs := analyzer.FuncIndex(impl)
	var records []domain.TrainingRecord

	for _, tc := range analyzer.FindTestCases(file.Content, p.opts.TestPrefix) {
		names := analyzer.FilterCalls(analyzer.ScanCallReferences(tc.BodyText), p.opts.Denylist)

		var impls []string
		for _, name := range names {
			if decl, ok := funcs[name]; ok {
				impls = append(impls, decl.Text)
			}
		}
		if len(impls) == 0 {
			continue
		}

		prompt := strings.ReplaceAll(p.opts.PromptTemplate, p.opts.Placeholder, strings.Join(names, ", "))
		response := strings.Join(impls, "\n\n")
		if !validUTF8(prompt, response) {
			p.logger.Debug("skipping test with invalid UTF-8",
				zap.String("file", file.RelPath),
				zap.String("test", tc.Name))
			continue
		}
		key := domain.RecordKey(file.RelPath, tc.Body.Start, tc.Name)
		records = append(records, domain.NewTrainingRecord(key, p.opts.SystemPrompt, prompt, response))
	}

	p.logger.Debug("paired tests",
		zap.String("file", file.RelPath),
		zap.Int("records", len(records)))
	return records
}
