package document

import "math"

// NamedDestination 命名锚点，可作为内部超链接的目标
type NamedDestination string

// Unbounded 不限高度的注解区域
var Unbounded = math.Inf(1)

// Style 段落样式（样式层叠由外部负责，这里只取排版需要的值）
type Style struct {
	Indent     int    `mapstructure:"indent"`      // 左缩进（列）
	SpaceAfter int    `mapstructure:"space_after"` // 段后空行数
	Prefix     string `mapstructure:"prefix"`      // 首行前缀
}

// Line 排版后的一行
type Line struct {
	Indent int
	Style  string
	Spans  []Span
}

// Text 返回行的纯文本
func (l Line) Text() string {
	return SpansText(l.Spans)
}

// Page 当前页
type Page interface {
	Number() int
}

// Canvas 绘制层，只暴露注解能力
type Canvas interface {
	// Annotate 在 (x, y, width, height) 区域登记命名锚点
	Annotate(dest NamedDestination, x, y, width, height float64)
}

// Container 排版容器，由排版层在渲染时提供
type Container interface {
	Document() *Document
	Page() Page
	Cursor() float64
	Width() float64
	Canvas() Canvas

	// Style 按名称查询样式
	Style(name string) Style

	// WriteLine 写入一行，空间不足时换页
	//
	// 片段上的锚点在这里记录页码。不含文字的锚点片段只登记位置，不占行。
	WriteLine(line Line)

	// Skip 留出空行
	Skip(lines int)
}

// Flowable 可排入页面内容区的内容单元
type Flowable interface {
	// Prepare 在 prepare 阶段调用，每次构建恰好一次
	Prepare(doc *Document) error

	// Flow 在渲染阶段调用，每一轮渲染都会调用
	Flow(c Container) error
}

// Referenceable 可被引用的目标
type Referenceable interface {
	ID(doc *Document) string
}

// GroupedFlowables 在渲染时才产生子内容的组合内容
type GroupedFlowables interface {
	Flowables(c Container) []Flowable
}

// FlowGroup 依次排版组合内容产生的子内容
func FlowGroup(c Container, g GroupedFlowables) error {
	for _, f := range g.Flowables(c) {
		if err := f.Flow(c); err != nil {
			return err
		}
	}
	return nil
}

// Parent 带有静态子内容的内容
type Parent interface {
	Children() []Flowable
}

// Walk 深度优先遍历内容树，fn 返回 false 时不再进入子内容
func Walk(flowables []Flowable, fn func(Flowable) bool) {
	for _, f := range flowables {
		if !fn(f) {
			continue
		}
		if p, ok := f.(Parent); ok {
			Walk(p.Children(), fn)
		}
	}
}

// DummyFlowable 不占高度的内容
type DummyFlowable struct{}

// Prepare 实现 Flowable
func (DummyFlowable) Prepare(*Document) error { return nil }

// Flow 实现 Flowable
func (DummyFlowable) Flow(Container) error { return nil }

// Paragraph 段落
type Paragraph struct {
	Content Inline
	Style   string
}

// NewParagraph 创建段落
func NewParagraph(content Inline, style string) *Paragraph {
	return &Paragraph{Content: content, Style: style}
}

// Prepare 实现 Flowable
func (p *Paragraph) Prepare(doc *Document) error {
	return PrepareInline(doc, p.Content)
}

// Flow 按容器宽度折行后写入
func (p *Paragraph) Flow(c Container) error {
	style := c.Style(p.Style)
	spans := p.Content.Spans(c)
	if style.Prefix != "" && SpansText(spans) != "" {
		spans = append([]Span{{Text: style.Prefix, Style: p.Style}}, spans...)
	}

	written := false
	for _, spans := range WrapSpans(spans, int(c.Width())-style.Indent) {
		c.WriteLine(Line{Indent: style.Indent, Style: p.Style, Spans: spans})
		written = written || SpansText(spans) != ""
	}
	if written {
		c.Skip(style.SpaceAfter)
	}
	return nil
}

// Group 静态的内容组合
type Group struct {
	Items []Flowable
}

// NewGroup 创建内容组合
func NewGroup(items ...Flowable) *Group {
	return &Group{Items: items}
}

// Children 实现 Parent
func (g *Group) Children() []Flowable {
	return g.Items
}

// Prepare 实现 Flowable
func (g *Group) Prepare(doc *Document) error {
	for _, f := range g.Items {
		if err := f.Prepare(doc); err != nil {
			return err
		}
	}
	return nil
}

// Flow 实现 Flowable
func (g *Group) Flow(c Container) error {
	for _, f := range g.Items {
		if err := f.Flow(c); err != nil {
			return err
		}
	}
	return nil
}

// PageBreaker 支持强制换页的容器
type PageBreaker interface {
	PageBreak()
}

// PageBreak 强制换页；容器不支持时不做任何事
type PageBreak struct {
	DummyFlowable
}

// Flow 实现 Flowable
func (PageBreak) Flow(c Container) error {
	if pb, ok := c.(PageBreaker); ok {
		pb.PageBreak()
	}
	return nil
}
