package layout

import (
	"github.com/nerdneilsfield/go-docprep/pkg/document"
)

// Annotation 页面上的命名锚点区域
type Annotation struct {
	Destination document.NamedDestination
	X, Y        float64
	Width       float64
	Height      float64
}

// Page 排版后的一页
type Page struct {
	number      int
	Lines       []document.Line
	Annotations []Annotation
}

// Number 实现 document.Page
func (p *Page) Number() int {
	return p.number
}

// Empty 页面上既没有行也没有锚点
func (p *Page) Empty() bool {
	return len(p.Lines) == 0 && len(p.Annotations) == 0
}

// Paginator 按行排版的容器，同时充当画布
type Paginator struct {
	doc    *document.Document
	opts   Options
	pages  []*Page
	cursor int
}

// NewPaginator 创建从第 1 页开始的容器
func NewPaginator(doc *document.Document, opts Options) *Paginator {
	p := &Paginator{doc: doc, opts: opts.withDefaults()}
	p.newPage()
	return p
}

func (p *Paginator) newPage() {
	p.pages = append(p.pages, &Page{number: len(p.pages) + 1})
	p.cursor = 0
}

func (p *Paginator) current() *Page {
	return p.pages[len(p.pages)-1]
}

// Document 实现 document.Container
func (p *Paginator) Document() *document.Document { return p.doc }

// Page 实现 document.Container
func (p *Paginator) Page() document.Page { return p.current() }

// Cursor 当前页已用行数
func (p *Paginator) Cursor() float64 { return float64(p.cursor) }

// Width 内容区宽度（列）
func (p *Paginator) Width() float64 { return float64(p.opts.PageWidth) }

// Canvas 实现 document.Container
func (p *Paginator) Canvas() document.Canvas { return p }

// Style 实现 document.Container
func (p *Paginator) Style(name string) document.Style {
	return p.opts.Stylesheet.Lookup(name)
}

// Annotate 实现 document.Canvas
func (p *Paginator) Annotate(dest document.NamedDestination, x, y, width, height float64) {
	page := p.current()
	page.Annotations = append(page.Annotations, Annotation{
		Destination: dest,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
	})
}

// WriteLine 写入一行，页满时立即换页
//
// 行内锚点按这一行落在的页记录页码。没有文字的锚点片段转成整行宽的页面锚点，
// 只剩这类片段的行不写入。
func (p *Paginator) WriteLine(line document.Line) {
	page := p.current()
	var kept []document.Span
	anchored := false
	for _, span := range line.Spans {
		if span.Destination == "" {
			kept = append(kept, span)
			continue
		}
		p.doc.SetPageReference(string(span.Destination), page.Number())
		if span.Text != "" {
			kept = append(kept, span)
			continue
		}
		p.Annotate(span.Destination, 0, p.Cursor(), p.Width(), document.Unbounded)
		anchored = true
	}
	if anchored {
		if document.SpansText(kept) == "" {
			return
		}
		line.Spans = kept
	}

	page.Lines = append(page.Lines, line)
	p.cursor++
	if p.cursor >= p.opts.PageHeight {
		p.newPage()
	}
}

// Skip 留出空行；页首不留空行，也不把空行带到下一页
func (p *Paginator) Skip(lines int) {
	for i := 0; i < lines && p.cursor > 0; i++ {
		p.WriteLine(document.Line{})
	}
}

// PageBreak 若当前页非空则换页
func (p *Paginator) PageBreak() {
	if !p.current().Empty() {
		p.newPage()
	}
}

// Pages 返回排版结果，去掉末尾的空页
func (p *Paginator) Pages() []*Page {
	pages := p.pages
	for len(pages) > 1 && pages[len(pages)-1].Empty() {
		pages = pages[:len(pages)-1]
	}
	return pages
}
