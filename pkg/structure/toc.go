package structure

import (
	"fmt"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
)

// TableOfContents 目录：渲染时读取已登记的章节
type TableOfContents struct {
	Depth int
}

// NewTableOfContents 创建目录，depth <= 0 表示不限层级
func NewTableOfContents(depth int) *TableOfContents {
	return &TableOfContents{Depth: depth}
}

// Prepare 实现 document.Flowable
func (t *TableOfContents) Prepare(*document.Document) error {
	return nil
}

// Flow 实现 document.Flowable
func (t *TableOfContents) Flow(c document.Container) error {
	return document.FlowGroup(c, t)
}

// Flowables 每个章节一段："编号 标题, 页码"
func (t *TableOfContents) Flowables(c document.Container) []document.Flowable {
	doc := c.Document()
	var out []document.Flowable
	for _, s := range doc.Sections {
		if t.Depth > 0 && s.Level > t.Depth {
			continue
		}
		var content document.Mixed
		if _, numbered := doc.Numbers[s.ID]; numbered {
			content = append(content, document.NewReference(s.ID, document.NUMBER), document.NewText(" "))
		}
		content = append(content,
			document.NewReference(s.ID, document.TITLE),
			document.NewText(", "),
			document.NewReference(s.ID, document.PAGE),
		)
		out = append(out, document.NewParagraph(content, fmt.Sprintf("toc level %d", s.Level)))
	}
	return out
}
