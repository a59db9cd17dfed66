package usecase

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"gendata/internal/adapter/analyzer"
	"gendata/internal/domain"
)

const (
	PipelineComments = "comments"
	PipelineTests    = "tests"
)

// CommentPairer pairs comments in implementation files with the code they document.
type CommentPairer struct {
	systemPrompt string
	logger       *zap.Logger
}

// NewCommentPairer creates a new comment pairer.
func NewCommentPairer(systemPrompt string, logger *zap.Logger) *CommentPairer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentPairer{
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

func (p *CommentPairer) Name() string {
	return PipelineComments
}

func (p *CommentPairer) Accepts(file domain.SourceFile) bool {
	return file.Role == domain.RoleImplementation
}

// Extract emits one record per comment that documents a declaration or, for line
// comments, the statement right below them.
func (p *CommentPairer) Extract(file domain.SourceFile) []domain.TrainingRecord {
	src := file.Content
	var records []domain.TrainingRecord

	for _, comment := range analyzer.ScanComments(src) {
		prompt := analyzer.CleanComment(comment.Text)
		if prompt == "" {
			continue
		}

		response, ok := p.pair(src, comment)
		if !ok {
			continue
		}
		if !validUTF8(prompt, response) {
			p.logger.Debug("skipping comment with invalid UTF-8",
				zap.String("file", file.RelPath),
				zap.Int("offset", comment.Span.Start))
			continue
		}

		key := domain.RecordKey(file.RelPath, comment.Span.Start, PipelineComments)
		records = append(records, domain.NewTrainingRecord(key, p.systemPrompt, prompt, response))
	}

	p.logger.Debug("paired comments",
		zap.String("file", file.RelPath),
		zap.Int("records", len(records)))
	return records
}

func (p *CommentPairer) pair(src string, comment domain.CommentBlock) (string, bool) {
	if decl, ok := analyzer.FollowingDeclaration(src, comment); ok {
		return decl.Text, true
	}
	if comment.Style != domain.CommentLineStyle {
		return "", false
	}
	span, ok := analyzer.FollowingStatement(src, comment)
	if !ok {
		return "", false
	}
	return src[span.Start:span.End], true
}

// validUTF8 reports whether every text survives JSON encoding byte for byte.
func validUTF8(texts ...string) bool {
	for _, t := range texts {
		if !utf8.ValidString(t) {
			return false
		}
	}
	return true
}
