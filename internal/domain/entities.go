package domain

import "fmt"

type FileRole string

const (
	RoleImplementation FileRole = "implementation"
	RoleTest           FileRole = "test"
)

// SourceFile is one classified file read during a scan pass.
type SourceFile struct {
	Path    string
	RelPath string
	Content string
	Role    FileRole
}

// Span is a half-open byte range into a file's content.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

type DeclKind string

const (
	DeclFunction DeclKind = "function"
	DeclType     DeclKind = "type"
)

// Declaration is a func or type declaration. Span covers header and body; Body is
// the text strictly between the braces.
type Declaration struct {
	Kind     DeclKind
	Name     string
	Receiver string
	Span     Span
	Body     Span
	Text     string
}

type CommentStyle string

const (
	CommentBlockStyle CommentStyle = "block"
	CommentLineStyle  CommentStyle = "line"
)

// CommentBlock is a single /* */ comment or a maximal run of whole-line // comments.
type CommentBlock struct {
	Style CommentStyle
	Span  Span
	Text  string
}

type TestCase struct {
	Name     string
	Body     Span
	BodyText string
}

type CallReference struct {
	Name   string
	Offset int
	// Selector is set for calls written as x.Name(...).
	Selector bool
}

const (
	MessageSystem    = "system"
	MessageUser      = "user"
	MessageAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TrainingRecord is one fine-tuning example. Key only orders records in an artifact.
type TrainingRecord struct {
	Key      string    `json:"-"`
	Messages []Message `json:"messages"`
}

func NewTrainingRecord(key, system, user, assistant string) TrainingRecord {
	return TrainingRecord{
		Key: key,
		Messages: []Message{
			{Role: MessageSystem, Content: system},
			{Role: MessageUser, Content: user},
			{Role: MessageAssistant, Content: assistant},
		},
	}
}

// RecordKey orders records by file, then position, then a pipeline-local tag.
func RecordKey(relPath string, offset int, tag string) string {
	return fmt.Sprintf("%s\x00%012d\x00%s", relPath, offset, tag)
}

// Content returns the content of the first message with the given role.
func (r TrainingRecord) Content(role string) string {
	for _, m := range r.Messages {
		if m.Role == role {
			return m.Content
		}
	}
	return ""
}

// Validate checks the three-message system/user/assistant shape.
func (r TrainingRecord) Validate() error {
	want := []string{MessageSystem, MessageUser, MessageAssistant}
	if len(r.Messages) != len(want) {
		return fmt.Errorf("expected %d messages, got %d", len(want), len(r.Messages))
	}
	for i, role := range want {
		if r.Messages[i].Role != role {
			return fmt.Errorf("message %d: expected role %q, got %q", i, role, r.Messages[i].Role)
		}
	}
	return nil
}
