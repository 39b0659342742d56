// Package transform 在 prepare 阶段之前对文档树做整体改写
package transform

import (
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/structure"
)

// Transform 文档树转换
type Transform interface {
	Name() string
	Apply(doc *document.Document) error
}

// Apply 依次执行转换
func Apply(doc *document.Document, transforms ...Transform) error {
	for _, t := range transforms {
		if err := t.Apply(doc); err != nil {
			return err
		}
	}
	return nil
}

// mapContent 对文档中所有带行内内容的节点执行替换
func mapContent(doc *document.Document, fn func(document.Inline) document.Inline) {
	document.Walk(doc.Flowables, func(f document.Flowable) bool {
		switch node := f.(type) {
		case *document.Paragraph:
			node.Content = document.MapInline(node.Content, fn)
		case *structure.Heading:
			if node.Content != nil {
				node.Content = document.MapInline(node.Content, fn)
			}
		case *structure.Citation:
			if node.Content != nil {
				node.Content = document.MapInline(node.Content, fn)
			}
		}
		return true
	})
}
