package render

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLRenderer HTML 渲染器：每页一个 section，命名锚点输出为元素 id
type HTMLRenderer struct{}

// NewHTMLRenderer 创建 HTML 渲染器
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Format 实现 Renderer
func (r *HTMLRenderer) Format() string { return "html" }

// Render 实现 Renderer
func (r *HTMLRenderer) Render(ctx context.Context, res *layout.Result, w io.Writer) error {
	if res == nil {
		return fmt.Errorf("result is nil")
	}

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	htmlNode := element(atom.Html)
	root.AppendChild(htmlNode)

	head := element(atom.Head)
	htmlNode.AppendChild(head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if res.Document != nil && res.Document.Metadata.Title != "" {
		title := element(atom.Title)
		title.AppendChild(textNode(res.Document.Metadata.Title))
		head.AppendChild(title)
	}

	body := element(atom.Body)
	htmlNode.AppendChild(body)
	for _, page := range res.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		body.AppendChild(r.renderPage(page))
	}

	return html.Render(w, root)
}

func (r *HTMLRenderer) renderPage(page *layout.Page) *html.Node {
	section := element(atom.Section)
	section.Attr = []html.Attribute{
		{Key: "class", Val: "page"},
		{Key: "data-page", Val: strconv.Itoa(page.Number())},
	}

	anchors := anchorsByLine(page)
	for i, line := range page.Lines {
		for _, dest := range anchors[i] {
			section.AppendChild(anchor(dest))
		}
		section.AppendChild(r.renderLine(line))
	}
	for _, dest := range anchors[len(page.Lines)] {
		section.AppendChild(anchor(dest))
	}
	return section
}

func (r *HTMLRenderer) renderLine(line document.Line) *html.Node {
	if len(line.Spans) == 0 {
		return element(atom.Br)
	}
	p := element(atom.P)
	if line.Style != "" {
		p.Attr = append(p.Attr, html.Attribute{Key: "class", Val: line.Style})
	}
	if line.Indent > 0 {
		p.Attr = append(p.Attr, html.Attribute{Key: "style", Val: fmt.Sprintf("margin-left:%dch", line.Indent)})
	}
	for _, span := range line.Spans {
		if span.Destination == "" && span.Style == "" {
			p.AppendChild(textNode(span.Text))
			continue
		}
		s := element(atom.Span)
		if span.Destination != "" {
			s.Attr = append(s.Attr, html.Attribute{Key: "id", Val: string(span.Destination)})
		}
		if span.Style != "" && span.Style != line.Style {
			s.Attr = append(s.Attr, html.Attribute{Key: "class", Val: span.Style})
		}
		s.AppendChild(textNode(span.Text))
		p.AppendChild(s)
	}
	return p
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func textNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func anchor(dest document.NamedDestination) *html.Node {
	a := element(atom.A)
	a.Attr = []html.Attribute{{Key: "id", Val: string(dest)}}
	return a
}
