// Package roles 解析正文中的行内标记，例如 :index:`word` 和 :page:`id`
package roles

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/index"
)

// 支持的行内标记
const (
	RoleIndex       = "index"
	RoleIndexTarget = "index-target"
	RolePage        = "page"
	RoleRef         = "ref"
	RoleNumRef      = "numref"
)

// CitationDomain 引文交叉引用所属的域
const CitationDomain = "citation"

var (
	// 引文引用后面不能紧跟冒号，否则是引文定义
	rolePattern = regexp2.MustCompile(
		"(?::(?<role>index-target|index|page|ref|numref):`(?<body>[^`]+)`)"+
			`|(?:\[@(?<cite>[^\]\s]+)\](?!:))`, 0)
	explicitTermsPattern = regexp2.MustCompile(`^(?<text>.*?)\s*<(?<terms>[^<>]+)>$`, regexp2.Singleline)
)

// HasRoles 文本中是否包含行内标记
func HasRoles(text string) bool {
	ok, err := rolePattern.MatchString(text)
	return err == nil && ok
}

// Parse 把带行内标记的文本解析为行内内容
func Parse(text string) (document.Inline, error) {
	var out document.Mixed
	pos := 0
	runes := []rune(text)

	m, err := rolePattern.FindStringMatch(text)
	if err != nil {
		return nil, fmt.Errorf("failed to match roles: %w", err)
	}
	for m != nil {
		// regexp2 的位置以 rune 计
		if m.Index > pos {
			out = append(out, document.NewText(string(runes[pos:m.Index])))
		}
		inline, err := roleInline(m)
		if err != nil {
			return nil, err
		}
		out = append(out, inline)
		pos = m.Index + m.Length

		m, err = rolePattern.FindNextMatch(m)
		if err != nil {
			return nil, fmt.Errorf("failed to match roles: %w", err)
		}
	}
	if pos < len(runes) {
		out = append(out, document.NewText(string(runes[pos:])))
	}

	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}

func roleInline(m *regexp2.Match) (document.Inline, error) {
	if cite := m.GroupByName("cite"); cite.Length > 0 {
		return document.PendingXref{Domain: CitationDomain, Target: cite.String()}, nil
	}

	role := m.GroupByName("role").String()
	body := strings.TrimSpace(m.GroupByName("body").String())
	switch role {
	case RoleIndex:
		visible, terms := splitExplicitTerms(body)
		if len(terms) == 0 {
			return nil, fmt.Errorf("index role without terms: %q", body)
		}
		return index.NewTextWithIndexTarget(terms, document.NewText(visible), ""), nil
	case RoleIndexTarget:
		terms := index.ParseTerms(body)
		if len(terms) == 0 {
			return nil, fmt.Errorf("index-target role without terms: %q", body)
		}
		return index.NewInlineIndexTarget(terms, ""), nil
	case RolePage:
		return document.NewReference(body, document.PAGE), nil
	case RoleRef:
		return document.NewReference(body, document.TITLE), nil
	case RoleNumRef:
		return document.NewReference(body, document.NUMBER), nil
	}
	return nil, fmt.Errorf("unknown role: %s", role)
}

// splitExplicitTerms 处理 "word <entry!sub; other>"；没有尖括号时用可见文本本身作条目
func splitExplicitTerms(body string) (string, []document.IndexTerm) {
	if m, err := explicitTermsPattern.FindStringMatch(body); err == nil && m != nil {
		visible := strings.TrimSpace(m.GroupByName("text").String())
		terms := index.ParseTerms(m.GroupByName("terms").String())
		if visible == "" && len(terms) > 0 {
			visible = terms[0].Name
		}
		return visible, terms
	}
	return body, []document.IndexTerm{{Name: body}}
}

// PlainText 行内内容的可见文本（不解析引用）
func PlainText(in document.Inline) string {
	switch v := in.(type) {
	case document.Text:
		return v.Value
	case document.Mixed:
		var sb strings.Builder
		for _, item := range v {
			sb.WriteString(PlainText(item))
		}
		return sb.String()
	case *index.TextWithIndexTarget:
		return PlainText(v.Content)
	case document.PendingXref:
		return "[" + v.Target + "]"
	}
	return ""
}
