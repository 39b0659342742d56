package index

import (
	"strings"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
)

// ParseTerms 解析词条说明，例如 "fruit!citrus; lemon"
//
// 分号分隔多个词条，感叹号分隔条目和子条目。空白会被裁掉，空词条被忽略。
func ParseTerms(text string) []document.IndexTerm {
	var terms []document.IndexTerm
	for _, part := range strings.Split(text, ";") {
		name, sub, _ := strings.Cut(part, "!")
		name = strings.TrimSpace(name)
		sub = strings.TrimSpace(sub)
		if name == "" {
			continue
		}
		terms = append(terms, document.IndexTerm{Name: name, Subentry: sub})
	}
	return terms
}
