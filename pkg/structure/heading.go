// Package structure 提供章节标题和目录
package structure

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
)

// Heading 章节标题，是可引用目标
type Heading struct {
	Level    int
	Title    string
	Content  document.Inline // 为空时使用 Title
	Numbered bool

	id string
}

// NewHeading 创建带编号的章节标题；id 为空时在 prepare 阶段自动分配
func NewHeading(level int, title, id string) *Heading {
	return &Heading{Level: level, Title: title, Numbered: true, id: id}
}

// ID 实现 document.Referenceable
func (h *Heading) ID(*document.Document) string {
	return h.id
}

// StyleName 标题样式名
func (h *Heading) StyleName() string {
	return fmt.Sprintf("heading %d", h.Level)
}

// Prepare 登记标题、编号和章节顺序
func (h *Heading) Prepare(doc *document.Document) error {
	if h.id == "" {
		h.id = doc.NextID("section")
	}
	doc.Titles[h.id] = h.Title
	if h.Numbered {
		doc.Numbers[h.id] = nextNumber(doc, h.Level)
	}
	doc.Sections = append(doc.Sections, document.SectionEntry{ID: h.id, Level: h.Level})
	if h.Content != nil {
		return document.PrepareInline(doc, h.Content)
	}
	return nil
}

// Flow 创建锚点、记录页码，然后按标题样式写入
func (h *Heading) Flow(c document.Container) error {
	doc := c.Document()
	c.Canvas().Annotate(document.NamedDestination(h.id), 0, c.Cursor(), c.Width(), document.Unbounded)
	doc.SetPageReference(h.id, c.Page().Number())

	var content document.Inline = document.NewText(h.Title)
	if h.Content != nil {
		content = h.Content
	}
	if number, ok := doc.Numbers[h.id]; ok && h.Numbered {
		content = document.Concat(document.NewText(number+" "), content)
	}
	return document.NewParagraph(content, h.StyleName()).Flow(c)
}

// nextNumber 根据已登记的带编号章节计算下一个编号，例如 "2.1"
func nextNumber(doc *document.Document, level int) string {
	counters := make([]int, 0, level)
	for _, s := range doc.Sections {
		if _, numbered := doc.Numbers[s.ID]; !numbered {
			continue
		}
		counters = bump(counters, s.Level)
	}
	counters = bump(counters, level)

	parts := make([]string, len(counters))
	for i, n := range counters {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

func bump(counters []int, level int) []int {
	if level < 1 {
		level = 1
	}
	for len(counters) < level {
		counters = append(counters, 0)
	}
	counters = counters[:level]
	counters[level-1]++
	return counters
}
