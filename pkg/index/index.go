// Package index 实现索引目标的登记与绑定，以及在渲染时生成索引的 Index 内容
package index

import (
	"sort"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 索引段落使用的样式名
const (
	StyleEntry    = "index entry"
	StyleSubentry = "index subentry"
)

// pageRefSeparator 页码之间以及名称与页码之间的分隔符
const pageRefSeparator = ", "

// Index 在渲染时读取注册表，逐条生成索引段落
//
// 必须在整篇文档的 prepare 阶段完成后才能排版，否则生成的索引不完整。
type Index struct {
	EntryStyle    string
	SubentryStyle string
}

// New 创建索引
func New() *Index {
	return &Index{EntryStyle: StyleEntry, SubentryStyle: StyleSubentry}
}

// Prepare 索引本身不登记任何内容
func (x *Index) Prepare(*document.Document) error {
	return nil
}

// Flow 排版 Flowables 产生的段落
func (x *Index) Flow(c document.Container) error {
	return document.FlowGroup(c, x)
}

// Flowables 每次调用都重新读取注册表，返回每个条目和子条目各一个段落
func (x *Index) Flowables(c document.Container) []document.Flowable {
	return x.Paragraphs(c.Document())
}

// Paragraphs 按当前注册表状态生成索引段落
func (x *Index) Paragraphs(doc *document.Document) []document.Flowable {
	var out []document.Flowable
	for _, group := range Sorted(doc.Index.Snapshot()) {
		content := document.Concat(document.NewText(group.Name))
		subentries := group.Subentries
		if len(subentries) > 0 && subentries[0].Name == "" {
			if refs := pageRefs(subentries[0].Entries); len(refs) > 0 {
				content = append(content, document.NewText(pageRefSeparator))
				content = append(content, refs...)
			}
			subentries = subentries[1:]
		}
		out = append(out, document.NewParagraph(content, x.EntryStyle))

		for _, sub := range subentries {
			content := document.Concat(document.NewText(sub.Name))
			if refs := pageRefs(sub.Entries); len(refs) > 0 {
				content = append(content, document.NewText(pageRefSeparator))
				content = append(content, refs...)
			}
			out = append(out, document.NewParagraph(content, x.SubentryStyle))
		}
	}
	return out
}

// pageRefs 按注册顺序生成页码引用，引用之间插入分隔符
func pageRefs(entries []document.IndexEntry) []document.Inline {
	refs := make([]document.Inline, 0, len(entries))
	for _, entry := range entries {
		refs = append(refs, document.NewReference(entry.TargetID, document.PAGE))
	}
	return document.Intersperse(refs, document.Inline(document.NewText(pageRefSeparator)))
}

// Sorted 按条目名排序快照，每个条目下的子条目同样排序，顶层（空名称）排在最前
func Sorted(groups []document.EntryGroup) []document.EntryGroup {
	out := sortFoldBy(groups, func(g document.EntryGroup) string { return g.Name })
	for i := range out {
		out[i].Subentries = sortFoldBy(out[i].Subentries, func(s document.SubentryGroup) string { return s.Name })
	}
	return out
}

// SortFold 不区分大小写的稳定排序，忽略大小写后相等的名称保持原有顺序
func SortFold(names []string) []string {
	return sortFoldBy(names, func(name string) string { return name })
}

func sortFoldBy[T any](items []T, name func(T) string) []T {
	caser := cases.Lower(language.Und)
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = caser.String(name(item))
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]] < keys[order[b]]
	})

	sorted := make([]T, len(items))
	for i, idx := range order {
		sorted[i] = items[idx]
	}
	return sorted
}
