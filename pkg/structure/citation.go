package structure

import (
	"fmt"
	"strconv"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
)

// StyleCitation 引文条目样式
const StyleCitation = "citation"

// Citation 引文条目，prepare 时按出现顺序编号
type Citation struct {
	Key     string
	Content document.Inline

	id string
}

// NewCitation 创建引文条目
func NewCitation(key string, content document.Inline) *Citation {
	return &Citation{Key: key, Content: content}
}

// ID 实现 document.Referenceable
func (c *Citation) ID(*document.Document) string {
	return c.id
}

// TargetID 引文的稳定标识，prepare 之前也可用
func (c *Citation) TargetID() string {
	if c.id != "" {
		return c.id
	}
	return "citation-" + c.Key
}

// Prepare 分配编号并登记引文键
func (c *Citation) Prepare(doc *document.Document) error {
	if _, dup := doc.Citations[c.Key]; dup {
		return fmt.Errorf("duplicate citation: %s", c.Key)
	}
	c.id = c.TargetID()
	doc.Citations[c.Key] = c.id
	doc.Numbers[c.id] = strconv.Itoa(len(doc.Citations))
	doc.Titles[c.id] = c.Key
	return document.PrepareInline(doc, c.Content)
}

// Flow 创建锚点、记录页码，输出 "[n] 内容"
func (c *Citation) Flow(ct document.Container) error {
	doc := ct.Document()
	ct.Canvas().Annotate(document.NamedDestination(c.id), 0, ct.Cursor(), ct.Width(), document.Unbounded)
	doc.SetPageReference(c.id, ct.Page().Number())

	content := document.Concat(
		document.NewText("["),
		document.NewReference(c.id, document.NUMBER),
		document.NewText("] "),
		c.Content,
	)
	return document.NewParagraph(content, StyleCitation).Flow(ct)
}
