package transform

import (
	"github.com/nerdneilsfield/go-docprep/internal/frontend/roles"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/structure"
	"go.uber.org/zap"
)

// CitationReference 指向引文条目的引用，输出 "[n]"
type CitationReference struct {
	Key      string
	TargetID string
}

// Spans 实现 document.Inline
func (r CitationReference) Spans(c document.Container) []document.Span {
	return document.Concat(
		document.NewText("["),
		document.NewReference(r.TargetID, document.NUMBER),
		document.NewText("]"),
	).Spans(c)
}

// CitationReferenceTransform 把引文域中已知键的待解析引用替换为 CitationReference
//
// 未知的键保持原样，输出为 "[key]"。
type CitationReferenceTransform struct {
	logger *zap.Logger
}

// NewCitationReferenceTransform 创建引文引用转换
func NewCitationReferenceTransform(logger *zap.Logger) *CitationReferenceTransform {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CitationReferenceTransform{logger: logger}
}

// Name 实现 Transform
func (t *CitationReferenceTransform) Name() string { return "citation-reference" }

// Apply 实现 Transform
func (t *CitationReferenceTransform) Apply(doc *document.Document) error {
	citations := make(map[string]string)
	document.Walk(doc.Flowables, func(f document.Flowable) bool {
		if c, ok := f.(*structure.Citation); ok {
			citations[c.Key] = c.TargetID()
		}
		return true
	})

	replaced := 0
	mapContent(doc, func(in document.Inline) document.Inline {
		xref, ok := in.(document.PendingXref)
		if !ok || xref.Domain != roles.CitationDomain {
			return in
		}
		id, known := citations[xref.Target]
		if !known {
			t.logger.Warn("unknown citation", zap.String("key", xref.Target))
			return in
		}
		replaced++
		return CitationReference{Key: xref.Target, TargetID: id}
	})

	t.logger.Debug("citation references resolved",
		zap.Int("citations", len(citations)),
		zap.Int("replaced", replaced))
	return nil
}
