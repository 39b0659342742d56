package document

import "strings"

// Span 排版后的一段文本
type Span struct {
	Text        string
	Style       string
	Destination NamedDestination // 非空时该片段带命名锚点
}

// Inline 行内内容：在容器中产生文本片段
type Inline interface {
	Spans(c Container) []Span
}

// Preparer 需要参与 prepare 阶段的内容
type Preparer interface {
	Prepare(doc *Document) error
}

// PrepareInline 对需要 prepare 的行内内容执行 prepare
func PrepareInline(doc *Document, in Inline) error {
	if p, ok := in.(Preparer); ok {
		return p.Prepare(doc)
	}
	return nil
}

// Text 单一样式的文本
type Text struct {
	Value string
	Style string
}

// NewText 创建无样式文本
func NewText(value string) Text {
	return Text{Value: value}
}

// Spans 实现 Inline
func (t Text) Spans(Container) []Span {
	return []Span{{Text: t.Value, Style: t.Style}}
}

// Mixed 多段行内内容的组合
type Mixed []Inline

// Concat 组合行内内容，忽略 nil
func Concat(items ...Inline) Mixed {
	mixed := make(Mixed, 0, len(items))
	for _, item := range items {
		if item != nil {
			mixed = append(mixed, item)
		}
	}
	return mixed
}

// Spans 实现 Inline
func (m Mixed) Spans(c Container) []Span {
	var spans []Span
	for _, item := range m {
		spans = append(spans, item.Spans(c)...)
	}
	return spans
}

// Prepare 依次 prepare 各个子项
func (m Mixed) Prepare(doc *Document) error {
	for _, item := range m {
		if err := PrepareInline(doc, item); err != nil {
			return err
		}
	}
	return nil
}

// Intersperse 在相邻元素之间插入分隔符（首尾不插入）
func Intersperse[T any](items []T, sep T) []T {
	if len(items) == 0 {
		return nil
	}
	out := make([]T, 0, 2*len(items)-1)
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}

// MapInline 对行内内容做替换，递归进入 Mixed
func MapInline(in Inline, fn func(Inline) Inline) Inline {
	if mixed, ok := in.(Mixed); ok {
		out := make(Mixed, 0, len(mixed))
		for _, item := range mixed {
			if mapped := MapInline(item, fn); mapped != nil {
				out = append(out, mapped)
			}
		}
		return out
	}
	return fn(in)
}

// SpansText 拼接片段的文本
func SpansText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// PendingXref 尚未解析的交叉引用（例如引文键），由转换阶段替换
type PendingXref struct {
	Domain string
	Target string
}

// Spans 未被替换时按原样输出键
func (x PendingXref) Spans(Container) []Span {
	return []Span{{Text: "[" + x.Target + "]"}}
}
