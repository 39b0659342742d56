package layout

import (
	"strings"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
)

// Stylesheet 样式名到样式的映射
type Stylesheet map[string]document.Style

// DefaultStylesheet 默认样式表
func DefaultStylesheet() Stylesheet {
	return Stylesheet{
		"body":           {SpaceAfter: 1},
		"title":          {SpaceAfter: 1},
		"subtitle":       {SpaceAfter: 1},
		"author":         {SpaceAfter: 1},
		"abstract":       {Indent: 4, SpaceAfter: 1},
		"list item":      {Indent: 2, Prefix: "- "},
		"citation":       {SpaceAfter: 0},
		"code":           {Indent: 4, SpaceAfter: 1},
		"heading 1":      {SpaceAfter: 1},
		"heading 2":      {SpaceAfter: 1},
		"heading 3":      {SpaceAfter: 1},
		"toc level 1":    {},
		"toc level 2":    {Indent: 2},
		"toc level 3":    {Indent: 4},
		"index entry":    {},
		"index subentry": {Indent: 4},
	}
}

// Merge 用 overrides 覆盖同名样式，返回新的样式表
func (s Stylesheet) Merge(overrides Stylesheet) Stylesheet {
	merged := make(Stylesheet, len(s)+len(overrides))
	for name, style := range s {
		merged[name] = style
	}
	for name, style := range overrides {
		merged[strings.ToLower(name)] = style
	}
	return merged
}

// Lookup 查询样式，未定义的样式回退到 body
func (s Stylesheet) Lookup(name string) document.Style {
	if style, ok := s[strings.ToLower(name)]; ok {
		return style
	}
	return s["body"]
}
