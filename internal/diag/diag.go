package diag

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/spantrack/internal/engine/buffer"
	"github.com/dshills/spantrack/internal/engine/span"
)

// DocumentID identifies a tracked document, typically its URI.
type DocumentID string

// Severity represents the severity of a diagnostic (LSP numbering:
// lower is more severe).
type Severity int

// Diagnostic severities.
const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// String returns a human-readable representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is one published diagnostic at its current document position.
type Diagnostic struct {
	Range    buffer.Range
	Severity Severity
	Code     string
	Source   string
	Message  string
}

// ErrInvalidPayload reports a publish payload that could not be interpreted.
var ErrInvalidPayload = errors.New("diag: invalid payload")

// ErrUnknownDocument reports a query against a document never published to.
var ErrUnknownDocument = errors.New("diag: unknown document")

// document is the per-document state: the position registry plus counts.
type document struct {
	session  uuid.UUID
	version  int64
	registry *span.Registry

	errorCount   int
	warningCount int
	infoCount    int
	hintCount    int
}

// Option configures a Service.
type Option func(*Service)

// WithMinSeverity sets the least severe level to keep; diagnostics below it
// are dropped at publish time.
func WithMinSeverity(s Severity) Option {
	return func(sv *Service) {
		sv.minSeverity = s
	}
}

// WithMaxPerDocument limits diagnostics kept per document; the most severe
// ones published first win.
func WithMaxPerDocument(n int) Option {
	return func(sv *Service) {
		sv.maxPerDoc = n
	}
}

// WithChangeHandler sets a callback invoked after each publish.
func WithChangeHandler(handler func(doc DocumentID, diagnostics []Diagnostic)) Option {
	return func(sv *Service) {
		sv.onChange = handler
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(sv *Service) {
		sv.logger = logger
	}
}

// Service tracks diagnostics for a set of documents. All operations are
// thread-safe; the underlying registries are serialized by the service lock.
type Service struct {
	mu   sync.RWMutex
	docs map[DocumentID]*document

	minSeverity Severity
	maxPerDoc   int
	onChange    func(DocumentID, []Diagnostic)
	logger      *zap.Logger
}

// NewService creates a diagnostics service.
func NewService(opts ...Option) *Service {
	sv := &Service{
		docs:        make(map[DocumentID]*document),
		minSeverity: SeverityHint,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(sv)
	}
	return sv
}

// Documents returns the IDs of every tracked document.
func (sv *Service) Documents() []DocumentID {
	sv.mu.RLock()
	defer sv.mu.RUnlock()

	ids := make([]DocumentID, 0, len(sv.docs))
	for id := range sv.docs {
		ids = append(ids, id)
	}
	return ids
}

// Session returns the stable session ID assigned to a document when it was
// first published to.
func (sv *Service) Session(doc DocumentID) (uuid.UUID, bool) {
	sv.mu.RLock()
	defer sv.mu.RUnlock()

	d, ok := sv.docs[doc]
	if !ok {
		return uuid.UUID{}, false
	}
	return d.session, true
}

// Remove forgets a document entirely.
func (sv *Service) Remove(doc DocumentID) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	delete(sv.docs, doc)
}

// ApplyEdit adjusts a document's diagnostics for an edit, keeping their
// positions consistent with the buffer the document owner just changed.
func (sv *Service) ApplyEdit(doc DocumentID, edit buffer.Edit) error {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	d, ok := sv.docs[doc]
	if !ok {
		return ErrUnknownDocument
	}
	d.registry.OnModification(edit.Pos(), edit.ErasedLen(), edit.InsertedLen())
	return nil
}

// At returns every diagnostic whose range contains pos (closed interval).
func (sv *Service) At(doc DocumentID, pos buffer.ByteOffset) ([]Diagnostic, error) {
	return sv.Between(doc, pos, pos)
}

// Between returns every diagnostic intersecting the closed window
// [begin, end], at current positions, in start order.
func (sv *Service) Between(doc DocumentID, begin, end buffer.ByteOffset) ([]Diagnostic, error) {
	sv.mu.RLock()
	defer sv.mu.RUnlock()

	d, ok := sv.docs[doc]
	if !ok {
		return nil, ErrUnknownDocument
	}

	var out []Diagnostic
	for c := d.registry.FindIntersectingRange(begin, end); c.Valid(); c.Next() {
		sp := c.Span()
		diag := sp.Value.(Diagnostic)
		diag.Range = sp.Range
		out = append(out, diag)
	}
	return out, nil
}

// All returns every diagnostic for a document at current positions.
func (sv *Service) All(doc DocumentID) ([]Diagnostic, error) {
	sv.mu.RLock()
	defer sv.mu.RUnlock()

	d, ok := sv.docs[doc]
	if !ok {
		return nil, ErrUnknownDocument
	}
	return collect(d.registry), nil
}

func collect(reg *span.Registry) []Diagnostic {
	spans := reg.All()
	out := make([]Diagnostic, 0, len(spans))
	for _, sp := range spans {
		diag := sp.Value.(Diagnostic)
		diag.Range = sp.Range
		out = append(out, diag)
	}
	return out
}
