package index

import (
	"github.com/nerdneilsfield/go-docprep/pkg/document"
)

// IndexRegistrable 能把自身的索引词条登记到注册表的目标
type IndexRegistrable interface {
	RegisterInto(reg *document.IndexRegistry, doc *document.Document)
}

// targetBase 持有索引词条的目标的公共部分
type targetBase struct {
	terms []document.IndexTerm
	id    string
}

// Terms 返回目标持有的词条
func (t *targetBase) Terms() []document.IndexTerm {
	return t.terms
}

// RegisterInto 按顺序为每个词条追加 (词条, 目标) 项
func (t *targetBase) RegisterInto(reg *document.IndexRegistry, doc *document.Document) {
	for _, term := range t.terms {
		reg.Register(term, t.id)
	}
}

func (t *targetBase) ensureID(doc *document.Document) {
	if t.id == "" {
		t.id = doc.NextID("index")
	}
}

// bindTerms 让词条指向持有它的目标
func bindTerms(target document.Referenceable, terms []document.IndexTerm) []document.IndexTerm {
	bound := make([]document.IndexTerm, len(terms))
	for i, term := range terms {
		term.Target = target
		bound[i] = term
	}
	return bound
}

// TextWithIndexTarget 带索引标记且保持可见的文本
type TextWithIndexTarget struct {
	targetBase
	Content document.Inline
	Style   string
}

// NewTextWithIndexTarget 创建可见的行内索引目标
func NewTextWithIndexTarget(terms []document.IndexTerm, content document.Inline, id string) *TextWithIndexTarget {
	t := &TextWithIndexTarget{Content: content}
	t.id = id
	t.terms = bindTerms(t, terms)
	return t
}

// ID 实现 document.Referenceable
func (t *TextWithIndexTarget) ID(*document.Document) string {
	return t.id
}

// Prepare 登记词条，然后 prepare 包裹的内容
func (t *TextWithIndexTarget) Prepare(doc *document.Document) error {
	t.ensureID(doc)
	t.RegisterInto(doc.Index, doc)
	return document.PrepareInline(doc, t.Content)
}

// Spans 在首个片段上放置命名锚点，页码在该片段落到页面上时记录
func (t *TextWithIndexTarget) Spans(c document.Container) []document.Span {
	spans := t.Content.Spans(c)
	dest := document.NamedDestination(t.id)
	if len(spans) == 0 {
		return []document.Span{{Style: t.Style, Destination: dest}}
	}
	out := make([]document.Span, len(spans))
	copy(out, spans)
	out[0].Destination = dest
	if t.Style != "" {
		for i := range out {
			if out[i].Style == "" {
				out[i].Style = t.Style
			}
		}
	}
	return out
}

// InlineIndexTarget 不可见的行内索引标记
type InlineIndexTarget struct {
	targetBase
}

// NewInlineIndexTarget 创建不可见的行内索引目标
func NewInlineIndexTarget(terms []document.IndexTerm, id string) *InlineIndexTarget {
	t := &InlineIndexTarget{}
	t.id = id
	t.terms = bindTerms(t, terms)
	return t
}

// ID 实现 document.Referenceable
func (t *InlineIndexTarget) ID(*document.Document) string {
	return t.id
}

// Prepare 登记词条
func (t *InlineIndexTarget) Prepare(doc *document.Document) error {
	t.ensureID(doc)
	t.RegisterInto(doc.Index, doc)
	return nil
}

// Spans 输出一个没有文字的锚点片段，由容器在它所在的行登记锚点和页码
func (t *InlineIndexTarget) Spans(document.Container) []document.Span {
	return []document.Span{{Destination: document.NamedDestination(t.id)}}
}

// IndexTarget 块级索引目标：不占高度，但占一个排版位置
type IndexTarget struct {
	targetBase
	document.DummyFlowable
}

// NewIndexTarget 创建块级索引目标；id 为空时在 prepare 阶段自动分配
func NewIndexTarget(terms []document.IndexTerm, id string) *IndexTarget {
	t := &IndexTarget{}
	t.id = id
	t.terms = bindTerms(t, terms)
	return t
}

// ID 实现 document.Referenceable
func (t *IndexTarget) ID(*document.Document) string {
	return t.id
}

// Prepare 分配标识并登记词条
func (t *IndexTarget) Prepare(doc *document.Document) error {
	t.ensureID(doc)
	t.RegisterInto(doc.Index, doc)
	return t.DummyFlowable.Prepare(doc)
}

// Flow 在光标处创建锚点、记录页码，然后按空内容排版
func (t *IndexTarget) Flow(c document.Container) error {
	c.Canvas().Annotate(document.NamedDestination(t.id), 0, c.Cursor(), c.Width(), document.Unbounded)
	c.Document().SetPageReference(t.id, c.Page().Number())
	return t.DummyFlowable.Flow(c)
}
