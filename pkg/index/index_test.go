package index

import (
	"context"
	"testing"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func terms(names ...string) []document.IndexTerm {
	out := make([]document.IndexTerm, len(names))
	for i, name := range names {
		out[i] = document.IndexTerm{Name: name}
	}
	return out
}

// paragraphTexts 在一个新容器中解析索引段落的文本
func paragraphTexts(t *testing.T, doc *document.Document) []string {
	t.Helper()
	c := layout.NewPaginator(doc, layout.DefaultOptions())
	var out []string
	for _, f := range New().Flowables(c) {
		p, ok := f.(*document.Paragraph)
		require.True(t, ok)
		out = append(out, document.SpansText(p.Content.Spans(c)))
	}
	return out
}

func entryLines(res *layout.Result, style string) []string {
	var out []string
	for _, page := range res.Pages {
		for _, line := range page.Lines {
			if line.Style == style {
				out = append(out, line.Text())
			}
		}
	}
	return out
}

func TestIndexSortIsStableAndCaseInsensitive(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	for i, name := range []string{"cherry", "apple", "Banana", "Apple"} {
		doc.Index.Register(document.IndexTerm{Name: name}, string(rune('a'+i)))
		doc.SetPageReference(string(rune('a'+i)), 1)
	}

	var names []string
	for _, text := range paragraphTexts(t, doc) {
		names = append(names, text[:len(text)-len(", 1")])
	}
	assert.Equal(t, []string{"apple", "Apple", "Banana", "cherry"}, names)
}

func TestSortedIgnoresCase(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty", nil, nil},
		{"ties keep order", []string{"B", "a", "b", "A"}, []string{"a", "A", "B", "b"}},
		{"unicode", []string{"Éclair", "zeta", "éclair"}, []string{"zeta", "Éclair", "éclair"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var groups []document.EntryGroup
			for _, name := range tt.input {
				groups = append(groups, document.EntryGroup{Name: name})
			}
			var got []string
			for _, group := range Sorted(groups) {
				got = append(got, group.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortedOrdersSubentries(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	doc.Index.Register(document.IndexTerm{Name: "fruit", Subentry: "Pear"}, "t1")
	doc.Index.Register(document.IndexTerm{Name: "fruit", Subentry: "apple"}, "t2")
	doc.Index.Register(document.IndexTerm{Name: "fruit"}, "t3")
	doc.Index.Register(document.IndexTerm{Name: "Apple"}, "t4")

	sorted := Sorted(doc.Index.Snapshot())
	require.Len(t, sorted, 2)
	assert.Equal(t, "Apple", sorted[0].Name)
	assert.Equal(t, "fruit", sorted[1].Name)

	var subs []string
	for _, sub := range sorted[1].Subentries {
		subs = append(subs, sub.Name)
	}
	assert.Equal(t, []string{"", "apple", "Pear"}, subs, "the top level comes first")
	assert.Equal(t, "t3", sorted[1].Subentries[0].Entries[0].TargetID)
}

func TestIndexPageReferencesJoined(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	for _, id := range []string{"t1", "t2", "t3"} {
		doc.Index.Register(document.IndexTerm{Name: "name"}, id)
	}
	doc.SetPageReference("t1", 2)
	doc.SetPageReference("t2", 5)
	doc.SetPageReference("t3", 2)

	assert.Equal(t, []string{"name, 2, 5, 2"}, paragraphTexts(t, doc))
}

func TestIndexSubentriesFollowEntry(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	doc.Index.Register(document.IndexTerm{Name: "fruit", Subentry: "pear"}, "t1")
	doc.Index.Register(document.IndexTerm{Name: "fruit"}, "t2")
	doc.Index.Register(document.IndexTerm{Name: "fruit", Subentry: "Apple"}, "t3")
	doc.Index.Register(document.IndexTerm{Name: "fruit", Subentry: "apple"}, "t4")
	for i, id := range []string{"t1", "t2", "t3", "t4"} {
		doc.SetPageReference(id, i+1)
	}

	c := layout.NewPaginator(doc, layout.DefaultOptions())
	flowables := New().Flowables(c)
	require.Len(t, flowables, 4)

	styles := make([]string, len(flowables))
	texts := make([]string, len(flowables))
	for i, f := range flowables {
		p := f.(*document.Paragraph)
		styles[i] = p.Style
		texts[i] = document.SpansText(p.Content.Spans(c))
	}
	assert.Equal(t, []string{StyleEntry, StyleSubentry, StyleSubentry, StyleSubentry}, styles)
	assert.Equal(t, []string{"fruit, 2", "Apple, 3", "apple, 4", "pear, 1"}, texts)
}

func TestIndexMissingTopLevelEntry(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	doc.Index.Register(document.IndexTerm{Name: "veg", Subentry: "leek"}, "t1")
	doc.SetPageReference("t1", 4)

	assert.Equal(t, []string{"veg", "leek, 4"}, paragraphTexts(t, doc))
}

func TestPageRefsEmpty(t *testing.T) {
	assert.Empty(t, pageRefs(nil))

	refs := pageRefs([]document.IndexEntry{{TargetID: "a"}, {TargetID: "b"}})
	require.Len(t, refs, 3)
	assert.Equal(t, document.NewText(", "), refs[1])
	assert.Equal(t, document.NewReference("b", document.PAGE), refs[2])
}

func TestIndexUnregisteredTarget(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	doc.Index.Register(document.IndexTerm{Name: "ghost"}, "never-rendered")

	assert.NotPanics(t, func() {
		assert.Equal(t, []string{"ghost, ??"}, paragraphTexts(t, doc))
	})
	assert.Equal(t, []document.UnresolvedReference{
		{TargetID: "never-rendered", Kind: document.PAGE},
	}, doc.Unresolved())
}

func TestIndexReadsRegistryOnEveryCall(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown)
	c := layout.NewPaginator(doc, layout.DefaultOptions())
	x := New()

	assert.Empty(t, x.Flowables(c))
	doc.Index.Register(document.IndexTerm{Name: "late"}, "t1")
	assert.Len(t, x.Flowables(c), 1)
}

func TestIndexEndToEnd(t *testing.T) {
	doc := document.NewDocument(document.FormatMarkdown,
		document.NewParagraph(document.Concat(
			document.NewText("The "),
			NewTextWithIndexTarget(terms("alpha"), document.NewText("alpha"), ""),
			document.NewText(" method."),
		), "body"),
		NewIndexTarget(terms("alpha"), ""),
		document.PageBreak{},
		document.NewParagraph(document.NewText("Filler."), "body"),
		document.PageBreak{},
		document.NewParagraph(document.Concat(
			document.NewText("Later."),
			NewInlineIndexTarget(terms("alpha"), ""),
		), "body"),
		New(),
	)

	res, err := layout.NewBuilder(layout.Options{PageHeight: 20}, nil).Build(context.Background(), doc)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Len(t, res.Pages, 3)
	assert.Empty(t, res.Unresolved)
	assert.Equal(t, []string{"alpha, 1, 1, 3"}, entryLines(res, StyleEntry))
}
