package template

import (
	"context"
	"testing"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/index"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"github.com/nerdneilsfield/go-docprep/pkg/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func describe(flowables []document.Flowable) []string {
	var out []string
	for _, f := range flowables {
		switch v := f.(type) {
		case *document.Paragraph:
			out = append(out, v.Style)
		case document.PageBreak:
			out = append(out, "break")
		case *structure.TableOfContents:
			out = append(out, "toc")
		case *structure.Heading:
			out = append(out, "heading:"+v.Title)
		case *index.Index:
			out = append(out, "index")
		default:
			out = append(out, "other")
		}
	}
	return out
}

func newDoc() *document.Document {
	doc := document.NewDocument(document.FormatMarkdown,
		structure.NewHeading(1, "Body", ""),
		document.NewParagraph(index.NewTextWithIndexTarget(
			[]document.IndexTerm{{Name: "term"}}, document.NewText("term"), ""), "body"),
	)
	doc.Metadata.Title = "Title"
	doc.Metadata.Author = "Author"
	doc.Metadata.Abstract = "Abstract"
	return doc
}

func TestParseAbstractLocation(t *testing.T) {
	loc, err := ParseAbstractLocation(" Title ")
	require.NoError(t, err)
	assert.Equal(t, AbstractTitle, loc)

	loc, err = ParseAbstractLocation("")
	require.NoError(t, err)
	assert.Equal(t, AbstractFrontMatter, loc)

	_, err = ParseAbstractLocation("appendix")
	assert.Error(t, err)
}

func TestAssembleDefault(t *testing.T) {
	doc := newDoc()
	NewArticle(DefaultArticleOptions()).Assemble(doc)

	assert.Equal(t, []string{
		"title", "author", "break",
		"abstract", "heading 1", "toc", "break",
		"heading:Body", "body",
		"break", "heading:Index", "index",
	}, describe(doc.Flowables))
}

func TestAssembleAbstractOnTitlePage(t *testing.T) {
	doc := newDoc()
	opts := DefaultArticleOptions()
	opts.AbstractLocation = AbstractTitle
	opts.TableOfContents = false
	opts.Index = false
	NewArticle(opts).Assemble(doc)

	// 前置部分为空时不输出，也不换页
	assert.Equal(t, []string{
		"title", "author", "abstract", "break",
		"heading:Body", "body",
	}, describe(doc.Flowables))
}

func TestAssembleWithoutMetadata(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown, document.NewParagraph(document.NewText("x"), "body"))
	opts := DefaultArticleOptions()
	opts.TableOfContents = false
	opts.Index = false
	NewArticle(opts).Assemble(doc)

	assert.Equal(t, []string{"body"}, describe(doc.Flowables))
}

func TestIndexSection(t *testing.T) {
	section := IndexSection("")
	require.Len(t, section, 3)
	heading := section[1].(*structure.Heading)
	assert.Equal(t, "Index", heading.Title)
	assert.False(t, heading.Numbered)
}

func TestArticleBuild(t *testing.T) {
	doc := newDoc()
	NewArticle(DefaultArticleOptions()).Assemble(doc)

	res, err := layout.NewBuilder(layout.DefaultOptions(), nil).Build(context.Background(), doc)
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.Empty(t, res.Unresolved)
	require.Len(t, res.Pages, 4)

	var toc, entries []string
	for _, page := range res.Pages {
		for _, line := range page.Lines {
			switch line.Style {
			case "toc level 1":
				toc = append(toc, line.Text())
			case index.StyleEntry:
				entries = append(entries, line.Text())
			}
		}
	}
	assert.Equal(t, []string{"1 Body, 3", "Index, 4"}, toc)
	assert.Equal(t, []string{"term, 3"}, entries)
	assert.Equal(t, 4, doc.PageReferences["genindex"])
}
