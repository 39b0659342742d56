package index

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetsBindTerms(t *testing.T) {
	text := NewTextWithIndexTarget(terms("a", "b"), document.NewText("word"), "x")
	inline := NewInlineIndexTarget(terms("a"), "y")
	block := NewIndexTarget(terms("a"), "z")

	for _, term := range text.Terms() {
		assert.Same(t, text, term.Target)
	}
	assert.Same(t, inline, inline.Terms()[0].Target)
	assert.Same(t, block, block.Terms()[0].Target)

	var _ IndexRegistrable = text
	var _ IndexRegistrable = inline
	var _ IndexRegistrable = block
}

func TestTextWithIndexTargetPrepare(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	target := NewTextWithIndexTarget(
		[]document.IndexTerm{{Name: "fruit", Subentry: "apple"}, {Name: "apple"}},
		document.NewText("apple"), "")

	require.NoError(t, target.Prepare(doc))
	assert.Equal(t, "index-1", target.ID(doc))

	entries := doc.Index.Lookup("fruit", "apple")
	require.Len(t, entries, 1)
	assert.Equal(t, "index-1", entries[0].TargetID)
	assert.Len(t, doc.Index.Lookup("apple", ""), 1)
}

func TestTextWithIndexTargetSpans(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	c := layout.NewPaginator(doc, layout.DefaultOptions())

	target := NewTextWithIndexTarget(terms("w"),
		document.Concat(document.NewText("two"), document.NewText(" words")), "tw")
	target.Style = "em"

	spans := target.Spans(c)
	require.Len(t, spans, 2)
	assert.Equal(t, document.NamedDestination("tw"), spans[0].Destination)
	assert.Empty(t, spans[1].Destination)
	assert.Equal(t, "em", spans[1].Style)
	assert.Equal(t, "two words", document.SpansText(spans))

	_, ok := doc.PageReference("tw")
	assert.False(t, ok, "the page is known only once the line is placed")
	c.WriteLine(document.Line{Spans: spans})
	page, ok := doc.PageReference("tw")
	require.True(t, ok)
	assert.Equal(t, 1, page)

	empty := NewTextWithIndexTarget(terms("w"), document.Mixed{}, "empty")
	spans = empty.Spans(c)
	require.Len(t, spans, 1)
	assert.Equal(t, document.NamedDestination("empty"), spans[0].Destination)
	assert.Empty(t, spans[0].Text)
}

func TestInlineIndexTargetAnnotates(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	c := layout.NewPaginator(doc, layout.Options{PageWidth: 30, PageHeight: 10})
	c.WriteLine(document.Line{})
	c.WriteLine(document.Line{})

	target := NewInlineIndexTarget(terms("mark"), "")
	require.NoError(t, target.Prepare(doc))
	spans := target.Spans(c)
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Text)
	assert.Equal(t, document.NamedDestination(target.ID(doc)), spans[0].Destination)

	c.WriteLine(document.Line{Spans: spans})
	assert.Equal(t, 2.0, c.Cursor(), "an anchor-only line takes no height")

	pages := c.Pages()
	require.Len(t, pages, 1)
	assert.Len(t, pages[0].Lines, 2)
	require.Len(t, pages[0].Annotations, 1)
	a := pages[0].Annotations[0]
	assert.Equal(t, document.NamedDestination(target.ID(doc)), a.Destination)
	assert.Equal(t, 2.0, a.Y)
	assert.Equal(t, 30.0, a.Width)
	assert.Equal(t, document.Unbounded, a.Height)

	page, ok := doc.PageReference(target.ID(doc))
	require.True(t, ok)
	assert.Equal(t, 1, page)
}

// pageOf 返回含有该锚点的页码
func pageOf(res *layout.Result, dest document.NamedDestination) int {
	for _, page := range res.Pages {
		for _, a := range page.Annotations {
			if a.Destination == dest {
				return page.Number()
			}
		}
		for _, line := range page.Lines {
			for _, span := range line.Spans {
				if span.Destination == dest {
					return page.Number()
				}
			}
		}
	}
	return 0
}

func TestTargetsInLongParagraphUseTheirOwnPage(t *testing.T) {
	filler := document.NewText(strings.Repeat("filler ", 60))

	tests := []struct {
		name   string
		target document.Inline
	}{
		{"text", NewTextWithIndexTarget(terms("late"), document.NewText("late"), "late")},
		{"inline", NewInlineIndexTarget(terms("late"), "late")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.NewDocument(document.FormatMarkdown,
				document.NewParagraph(document.Concat(filler, tt.target), "body"),
				document.PageBreak{},
				New(),
			)
			res, err := layout.NewBuilder(layout.Options{PageWidth: 40, PageHeight: 3}, nil).
				Build(context.Background(), doc)
			require.NoError(t, err)

			page := pageOf(res, "late")
			assert.Greater(t, page, 1, "the paragraph spans several pages")
			ref, ok := doc.PageReference("late")
			require.True(t, ok)
			assert.Equal(t, page, ref)
			assert.Equal(t, []string{fmt.Sprintf("late, %d", page)}, entryLines(res, StyleEntry))
		})
	}
}

func TestIndexTargetFlow(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	c := layout.NewPaginator(doc, layout.Options{PageHeight: 2})
	c.WriteLine(document.Line{})
	c.WriteLine(document.Line{}) // 第 2 页

	target := NewIndexTarget(terms("block"), "blk")
	require.NoError(t, target.Prepare(doc))
	require.NoError(t, target.Flow(c))

	page, ok := doc.PageReference("blk")
	require.True(t, ok)
	assert.Equal(t, 2, page)
	assert.Equal(t, 0.0, c.Cursor(), "index target takes no height")
	assert.True(t, doc.Index.Has("block", ""))
}

func TestRegistrationIsOrdered(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown,
		NewIndexTarget(terms("x"), "first"),
		document.NewParagraph(NewTextWithIndexTarget(terms("x"), document.NewText("x"), "second"), "body"),
		NewIndexTarget(terms("x"), "third"),
	)
	require.NoError(t, doc.Prepare())

	var ids []string
	for _, entry := range doc.Index.Lookup("x", "") {
		ids = append(ids, entry.TargetID)
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids)
}

func TestParseTerms(t *testing.T) {
	tests := []struct {
		input string
		want  []document.IndexTerm
	}{
		{"apple", []document.IndexTerm{{Name: "apple"}}},
		{"fruit!apple; pear", []document.IndexTerm{{Name: "fruit", Subentry: "apple"}, {Name: "pear"}}},
		{" a ! b ;; ;c", []document.IndexTerm{{Name: "a", Subentry: "b"}, {Name: "c"}}},
		{"!orphan", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTerms(tt.input))
		})
	}
}
