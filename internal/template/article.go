// Package template 把文档内容组装为标题页、前置部分、正文和索引
package template

import (
	"fmt"
	"strings"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/index"
	"github.com/nerdneilsfield/go-docprep/pkg/structure"
)

// AbstractLocation 摘要的位置
type AbstractLocation string

const (
	AbstractTitle       AbstractLocation = "title"
	AbstractFrontMatter AbstractLocation = "front_matter"
)

// ParseAbstractLocation 解析摘要位置选项
func ParseAbstractLocation(s string) (AbstractLocation, error) {
	switch loc := AbstractLocation(strings.ToLower(strings.TrimSpace(s))); loc {
	case AbstractTitle, AbstractFrontMatter:
		return loc, nil
	case "":
		return AbstractFrontMatter, nil
	}
	return "", fmt.Errorf("invalid abstract location: %q (expected title or front_matter)", s)
}

// ArticleOptions 文章模板选项
type ArticleOptions struct {
	TableOfContents  bool
	TOCDepth         int
	AbstractLocation AbstractLocation
	Index            bool
	ContentsTitle    string
	IndexTitle       string
}

// DefaultArticleOptions 默认选项：有目录和索引，摘要放在前置部分
func DefaultArticleOptions() ArticleOptions {
	return ArticleOptions{
		TableOfContents:  true,
		TOCDepth:         2,
		AbstractLocation: AbstractFrontMatter,
		Index:            true,
		ContentsTitle:    "Contents",
		IndexTitle:       "Index",
	}
}

// Article 文章模板
type Article struct {
	opts ArticleOptions
}

// NewArticle 创建文章模板
func NewArticle(opts ArticleOptions) *Article {
	return &Article{opts: opts}
}

// Assemble 重排文档内容；必须在 prepare 阶段之前调用
func (a *Article) Assemble(doc *document.Document) {
	contents := doc.Flowables
	var parts []document.Flowable

	if title := a.titlePart(doc); len(title) > 0 {
		parts = append(parts, title...)
		parts = append(parts, document.PageBreak{})
	}
	if front := a.frontMatter(doc); len(front) > 0 {
		parts = append(parts, front...)
		parts = append(parts, document.PageBreak{})
	}
	parts = append(parts, contents...)
	if a.opts.Index {
		parts = append(parts, IndexSection(a.opts.IndexTitle)...)
	}
	doc.Flowables = parts
}

func (a *Article) titlePart(doc *document.Document) []document.Flowable {
	meta := doc.Metadata
	var out []document.Flowable
	add := func(value, style string) {
		if value != "" {
			out = append(out, document.NewParagraph(document.NewText(value), style))
		}
	}
	add(meta.Title, "title")
	add(meta.Subtitle, "subtitle")
	add(meta.Author, "author")
	if a.opts.AbstractLocation == AbstractTitle {
		add(meta.Abstract, "abstract")
	}
	return out
}

func (a *Article) frontMatter(doc *document.Document) []document.Flowable {
	var out []document.Flowable
	if doc.Metadata.Abstract != "" && a.opts.AbstractLocation == AbstractFrontMatter {
		out = append(out, document.NewParagraph(document.NewText(doc.Metadata.Abstract), "abstract"))
	}
	if a.opts.TableOfContents {
		out = append(out,
			document.NewParagraph(document.NewText(a.opts.ContentsTitle), "heading 1"),
			structure.NewTableOfContents(a.opts.TOCDepth),
		)
	}
	return out
}

// IndexSection 索引部分：新起一页，一个不编号的标题，然后是索引
func IndexSection(title string) []document.Flowable {
	if title == "" {
		title = "Index"
	}
	heading := structure.NewHeading(1, title, "genindex")
	heading.Numbered = false
	return []document.Flowable{document.PageBreak{}, heading, index.New()}
}
