package html

import (
	"context"
	"strings"
	"testing"

	"github.com/nerdneilsfield/go-docprep/internal/frontend/roles"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/index"
	"github.com/nerdneilsfield/go-docprep/pkg/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <title> Annotated </title>
  <meta name="author" content="B. Author">
  <meta name="description" content="About indexes.">
  <style>p { color: red }</style>
</head>
<body>
  <h1 id="intro">Intro</h1>
  <p>The <span data-index="fruit!apple; apple">apple</span>
     falls.<a data-index-target="gravity"></a> See page <a data-ref="intro"></a>
     and section <a data-ref="intro" data-kind="NUMBER"></a>.</p>
  <div data-index="tree" id="tree-anchor"></div>
  <section>
    <h2>Details</h2>
    <ul><li>one</li><li>two :page:` + "`intro`" + `</li></ul>
    <pre>line 1
line 2
</pre>
  </section>
  <div data-citation="newton">Principia.</div>
  <p>   </p>
  <script>ignored()</script>
</body>
</html>`

func TestHTMLParser(t *testing.T) {
	parser := NewParser(nil)
	assert.Equal(t, document.FormatHTML, parser.Format())

	doc, err := parser.Parse(context.Background(), strings.NewReader(sampleHTML))
	require.NoError(t, err)

	t.Run("Metadata", func(t *testing.T) {
		assert.Equal(t, "Annotated", doc.Metadata.Title)
		assert.Equal(t, "B. Author", doc.Metadata.Author)
		assert.Equal(t, "About indexes.", doc.Metadata.Abstract)
		assert.Equal(t, "en", doc.Metadata.Language)
	})

	t.Run("Blocks", func(t *testing.T) {
		var kinds []string
		for _, f := range doc.Flowables {
			switch v := f.(type) {
			case *structure.Heading:
				kinds = append(kinds, "heading")
			case *index.IndexTarget:
				kinds = append(kinds, "index-target:"+v.ID(doc))
			case *structure.Citation:
				kinds = append(kinds, "citation:"+v.Key)
			case *document.Paragraph:
				kinds = append(kinds, v.Style)
			}
		}
		assert.Equal(t, []string{
			"heading",
			"body",
			"index-target:tree-anchor",
			"heading",
			"list item",
			"list item",
			"code",
			"code",
			"citation:newton",
		}, kinds)
	})

	t.Run("Inline", func(t *testing.T) {
		p := doc.Flowables[1].(*document.Paragraph)
		assert.Equal(t, "The apple falls. See page  and section .", roles.PlainText(p.Content))

		var refs []document.Reference
		var targets int
		var walk func(document.Inline)
		walk = func(in document.Inline) {
			switch v := in.(type) {
			case document.Mixed:
				for _, item := range v {
					walk(item)
				}
			case document.Reference:
				refs = append(refs, v)
			case *index.TextWithIndexTarget, *index.InlineIndexTarget:
				targets++
			}
		}
		walk(p.Content)
		assert.Equal(t, 2, targets)
		assert.Equal(t, []document.Reference{
			document.NewReference("intro", document.PAGE),
			document.NewReference("intro", document.NUMBER),
		}, refs)
	})

	t.Run("Prepare", func(t *testing.T) {
		require.NoError(t, doc.Prepare())
		assert.True(t, doc.Index.Has("fruit", "apple"))
		assert.True(t, doc.Index.Has("apple", ""))
		assert.True(t, doc.Index.Has("gravity", ""))
		assert.Equal(t, "tree-anchor", doc.Index.Lookup("tree", "")[0].TargetID)
		assert.Equal(t, "1.1", doc.Numbers["section-1"])
	})
}

func TestHasTargets(t *testing.T) {
	assert.False(t, hasTargets(document.Mixed{document.NewText(" ")}))
	assert.True(t, hasTargets(document.Mixed{index.NewInlineIndexTarget(nil, "x")}))
	assert.False(t, hasTargets(nil))
}

func TestHTMLParserTargetOnlyParagraph(t *testing.T) {
	doc, err := NewParser(nil).Parse(context.Background(),
		strings.NewReader(`<p><a data-index-target="hidden"></a></p>`))
	require.NoError(t, err)
	require.Len(t, doc.Flowables, 1)
}
