package document

import "strconv"

// ReferenceKind 引用类型
type ReferenceKind string

const (
	PAGE   ReferenceKind = "page"
	NUMBER ReferenceKind = "number"
	TITLE  ReferenceKind = "title"
)

// UnresolvedPlaceholder 未解析引用的占位文本
const UnresolvedPlaceholder = "??"

// Reference 延迟解析的引用
type Reference struct {
	TargetID string
	Kind     ReferenceKind
	Style    string
}

// NewReference 创建引用
func NewReference(targetID string, kind ReferenceKind) Reference {
	return Reference{TargetID: targetID, Kind: kind}
}

// Resolve 按当前的页码表、编号和标题解析引用
func (r Reference) Resolve(doc *Document) (string, error) {
	switch r.Kind {
	case PAGE:
		if page, ok := doc.PageReference(r.TargetID); ok {
			return strconv.Itoa(page), nil
		}
	case NUMBER:
		if number, ok := doc.Numbers[r.TargetID]; ok {
			return number, nil
		}
	case TITLE:
		if title, ok := doc.Titles[r.TargetID]; ok {
			return title, nil
		}
	}
	return "", ErrUnresolvedReference
}

// Spans 解析失败时输出占位文本并登记诊断，不会中断排版
func (r Reference) Spans(c Container) []Span {
	doc := c.Document()
	text, err := r.Resolve(doc)
	if err != nil {
		doc.NoteUnresolved(r.TargetID, r.Kind)
		text = UnresolvedPlaceholder
	}
	return []Span{{Text: text, Style: r.Style}}
}
