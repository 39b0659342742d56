// Package markdown 把 Markdown 文档解析为排版用的文档树
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/nerdneilsfield/go-docprep/internal/frontend/roles"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/index"
	"github.com/nerdneilsfield/go-docprep/pkg/structure"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

// 块级指令
const (
	directiveIndex    = ".. index::"
	directiveCitation = ".. citation::"
)

// 段落样式名
const (
	StyleBody     = "body"
	StyleListItem = "list item"
	StyleCode     = "code"
)

// Parser Markdown 解析器
type Parser struct {
	md     goldmark.Markdown
	logger *zap.Logger
}

// NewParser 创建 Markdown 解析器
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,   // GitHub Flavored Markdown
			mathjax.MathJax, // 数学公式
			meta.Meta,       // 元数据
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // 自动生成标题ID
		),
	)
	return &Parser{md: md, logger: logger}
}

// Format 返回解析器支持的格式
func (p *Parser) Format() document.Format {
	return document.FormatMarkdown
}

// Parse 解析 Markdown 输入
func (p *Parser) Parse(ctx context.Context, input io.Reader) (*document.Document, error) {
	source, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	pc := parser.NewContext()
	root := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	doc := document.NewDocument(document.FormatMarkdown)
	applyMetadata(doc, meta.Get(pc))

	b := &treeBuilder{source: source, logger: p.logger}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		flowables, err := b.block(n)
		if err != nil {
			return nil, err
		}
		doc.Append(flowables...)
	}

	p.logger.Debug("markdown parsed",
		zap.String("document", doc.ID),
		zap.Int("flowables", len(doc.Flowables)))
	return doc, nil
}

// applyMetadata 读取 front matter 中的标题、作者和摘要
func applyMetadata(doc *document.Document, values map[string]interface{}) {
	for key, value := range values {
		s := fmt.Sprint(value)
		switch strings.ToLower(key) {
		case "title":
			doc.Metadata.Title = s
		case "subtitle":
			doc.Metadata.Subtitle = s
		case "author":
			doc.Metadata.Author = s
		case "abstract":
			doc.Metadata.Abstract = strings.TrimSpace(s)
		case "language", "lang":
			doc.Metadata.Language = s
		default:
			doc.Metadata.CustomFields[key] = value
		}
	}
}

type treeBuilder struct {
	source []byte
	logger *zap.Logger
}

func (b *treeBuilder) block(n ast.Node) ([]document.Flowable, error) {
	switch node := n.(type) {
	case *ast.Heading:
		return b.heading(node)
	case *ast.Paragraph, *ast.TextBlock:
		return b.paragraph(b.inlineText(n), StyleBody)
	case *ast.List:
		var out []document.Flowable
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			for child := item.FirstChild(); child != nil; child = child.NextSibling() {
				var flowables []document.Flowable
				var err error
				switch child.(type) {
				case *ast.Paragraph, *ast.TextBlock:
					flowables, err = b.paragraph(b.inlineText(child), StyleListItem)
				default:
					flowables, err = b.block(child)
				}
				if err != nil {
					return nil, err
				}
				out = append(out, flowables...)
			}
		}
		return out, nil
	case *ast.FencedCodeBlock, *ast.CodeBlock, *mathjax.MathBlock:
		var out []document.Flowable
		for _, line := range b.rawLines(n) {
			out = append(out, document.NewParagraph(document.NewText(line), StyleCode))
		}
		return out, nil
	case *ast.HTMLBlock, *ast.ThematicBreak:
		return nil, nil
	}

	// 其他容器块（引用块、表格等）逐个处理子节点
	var out []document.Flowable
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Type() != ast.TypeBlock {
			return b.paragraph(b.inlineText(n), StyleBody)
		}
		flowables, err := b.block(child)
		if err != nil {
			return nil, err
		}
		out = append(out, flowables...)
	}
	return out, nil
}

func (b *treeBuilder) heading(h *ast.Heading) ([]document.Flowable, error) {
	raw := b.inlineText(h)
	content, err := roles.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("heading %q: %w", raw, err)
	}

	id := ""
	if value, ok := h.AttributeString("id"); ok {
		if bs, ok := value.([]byte); ok {
			id = string(bs)
		}
	}
	heading := structure.NewHeading(h.Level, roles.PlainText(content), id)
	heading.Content = content
	return []document.Flowable{heading}, nil
}

// paragraph 处理段落，识别 index 和 citation 指令
func (b *treeBuilder) paragraph(raw, style string) ([]document.Flowable, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(trimmed, directiveIndex):
		terms := index.ParseTerms(strings.TrimPrefix(trimmed, directiveIndex))
		if len(terms) == 0 {
			b.logger.Warn("index directive without terms", zap.String("text", trimmed))
			return nil, nil
		}
		return []document.Flowable{index.NewIndexTarget(terms, "")}, nil
	case strings.HasPrefix(trimmed, directiveCitation):
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, directiveCitation))
		key, body, _ := strings.Cut(rest, " ")
		if key == "" {
			return nil, fmt.Errorf("citation directive without key")
		}
		content, err := roles.Parse(strings.TrimSpace(body))
		if err != nil {
			return nil, fmt.Errorf("citation %s: %w", key, err)
		}
		return []document.Flowable{structure.NewCitation(key, content)}, nil
	case trimmed == "":
		return nil, nil
	}

	content, err := roles.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("paragraph %q: %w", trimmed, err)
	}
	return []document.Flowable{document.NewParagraph(content, style)}, nil
}

// inlineText 还原行内节点的文本，代码片段保留反引号以便识别行内标记
func (b *treeBuilder) inlineText(n ast.Node) string {
	var buf bytes.Buffer
	b.writeInline(&buf, n)
	return buf.String()
}

func (b *treeBuilder) writeInline(buf *bytes.Buffer, n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(b.source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.CodeSpan:
			buf.WriteByte('`')
			b.writeInline(buf, node)
			buf.WriteByte('`')
		case *mathjax.InlineMath:
			buf.WriteByte('$')
			b.writeInline(buf, node)
			buf.WriteByte('$')
		case *ast.AutoLink:
			buf.Write(node.Label(b.source))
		case *ast.RawHTML:
			// 忽略内嵌 HTML
		default:
			b.writeInline(buf, c)
		}
	}
}

func (b *treeBuilder) rawLines(n ast.Node) []string {
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(b.source)), "\r\n"))
	}
	return out
}
