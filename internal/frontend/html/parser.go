// Package html 把带索引标注的 HTML 文档解析为排版用的文档树
//
// 支持的标注：
//
//	<span data-index="entry!sub; other">word</span>  可见的行内索引目标
//	<a data-index-target="entry"></a>                 不可见的行内索引目标
//	<div data-index="entry"></div>                    块级索引目标
//	<a data-ref="id" data-kind="page"></a>            引用（page、number、title）
//	<div data-citation="key">...</div>                引文条目
package html

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nerdneilsfield/go-docprep/internal/frontend/roles"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/index"
	"github.com/nerdneilsfield/go-docprep/pkg/structure"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Parser HTML 解析器
type Parser struct {
	logger *zap.Logger
}

// NewParser 创建 HTML 解析器
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Format 返回解析器支持的格式
func (p *Parser) Format() document.Format {
	return document.FormatHTML
}

// Parse 解析 HTML 输入
func (p *Parser) Parse(ctx context.Context, input io.Reader) (*document.Document, error) {
	dom, err := goquery.NewDocumentFromReader(input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc := document.NewDocument(document.FormatHTML)
	doc.Metadata.Title = strings.TrimSpace(dom.Find("head > title").First().Text())
	if author, ok := dom.Find(`meta[name="author"]`).Attr("content"); ok {
		doc.Metadata.Author = author
	}
	if abstract, ok := dom.Find(`meta[name="description"]`).Attr("content"); ok {
		doc.Metadata.Abstract = abstract
	}
	if lang, ok := dom.Find("html").Attr("lang"); ok {
		doc.Metadata.Language = lang
	}

	body := dom.Find("body")
	if body.Length() == 0 {
		body = dom.Selection
	}

	var walkErr error
	body.Children().EachWithBreak(func(i int, s *goquery.Selection) bool {
		if err := ctx.Err(); err != nil {
			walkErr = err
			return false
		}
		flowables, err := p.block(s)
		if err != nil {
			walkErr = err
			return false
		}
		doc.Append(flowables...)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	p.logger.Debug("html parsed",
		zap.String("document", doc.ID),
		zap.Int("flowables", len(doc.Flowables)))
	return doc, nil
}

func (p *Parser) block(s *goquery.Selection) ([]document.Flowable, error) {
	tag := goquery.NodeName(s)
	id, _ := s.Attr("id")

	if terms, ok := s.Attr("data-index"); ok && tag != "span" {
		parsed := index.ParseTerms(terms)
		if len(parsed) == 0 {
			p.logger.Warn("index target without terms", zap.String("tag", tag))
			return nil, nil
		}
		return []document.Flowable{index.NewIndexTarget(parsed, id)}, nil
	}
	if key, ok := s.Attr("data-citation"); ok {
		content, err := p.inline(s)
		if err != nil {
			return nil, err
		}
		return []document.Flowable{structure.NewCitation(key, content)}, nil
	}

	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		content, err := p.inline(s)
		if err != nil {
			return nil, err
		}
		heading := structure.NewHeading(int(tag[1]-'0'), roles.PlainText(content), id)
		heading.Content = content
		return []document.Flowable{heading}, nil
	case "p", "dt", "dd", "figcaption", "caption":
		return p.paragraph(s, "body")
	case "li":
		return p.paragraph(s, "list item")
	case "pre":
		var out []document.Flowable
		for _, line := range strings.Split(strings.TrimRight(s.Text(), "\n"), "\n") {
			out = append(out, document.NewParagraph(document.NewText(line), "code"))
		}
		return out, nil
	case "script", "style", "template", "head", "hr":
		return nil, nil
	}

	// 容器元素：有子元素时逐个处理，否则当作段落
	if s.Children().Length() == 0 {
		return p.paragraph(s, "body")
	}
	var out []document.Flowable
	var err error
	s.Children().EachWithBreak(func(i int, child *goquery.Selection) bool {
		var flowables []document.Flowable
		flowables, err = p.block(child)
		if err != nil {
			return false
		}
		out = append(out, flowables...)
		return true
	})
	return out, err
}

func (p *Parser) paragraph(s *goquery.Selection, style string) ([]document.Flowable, error) {
	content, err := p.inline(s)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(roles.PlainText(content)) == "" && !hasTargets(content) {
		return nil, nil
	}
	return []document.Flowable{document.NewParagraph(content, style)}, nil
}

// inline 把元素内容转换为行内内容
func (p *Parser) inline(s *goquery.Selection) (document.Inline, error) {
	var out document.Mixed
	var err error
	s.Contents().EachWithBreak(func(i int, child *goquery.Selection) bool {
		node := child.Nodes[0]
		switch node.Type {
		case html.TextNode:
			text := whitespaceRegex.ReplaceAllString(node.Data, " ")
			if text == "" {
				return true
			}
			var parsed document.Inline
			parsed, err = roles.Parse(text)
			if err != nil {
				return false
			}
			out = append(out, parsed)
		case html.ElementNode:
			var parsed document.Inline
			parsed, err = p.inlineElement(child)
			if err != nil {
				return false
			}
			if parsed != nil {
				out = append(out, parsed)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) inlineElement(s *goquery.Selection) (document.Inline, error) {
	id, _ := s.Attr("id")
	if terms, ok := s.Attr("data-index"); ok {
		content, err := p.inline(s)
		if err != nil {
			return nil, err
		}
		return index.NewTextWithIndexTarget(index.ParseTerms(terms), content, id), nil
	}
	if terms, ok := s.Attr("data-index-target"); ok {
		return index.NewInlineIndexTarget(index.ParseTerms(terms), id), nil
	}
	if target, ok := s.Attr("data-ref"); ok {
		kind := document.PAGE
		if k, ok := s.Attr("data-kind"); ok {
			kind = document.ReferenceKind(strings.ToLower(k))
		}
		return document.NewReference(target, kind), nil
	}

	switch goquery.NodeName(s) {
	case "br":
		return document.NewText(" "), nil
	case "script", "style":
		return nil, nil
	}
	return p.inline(s)
}

// hasTargets 内容中是否含有索引目标或引用
func hasTargets(in document.Inline) bool {
	switch v := in.(type) {
	case document.Mixed:
		for _, item := range v {
			if hasTargets(item) {
				return true
			}
		}
		return false
	case document.Text:
		return false
	}
	return in != nil
}
