package transform

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/nerdneilsfield/go-docprep/internal/config"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/index"
	"go.uber.org/zap"
)

type glossaryMatcher struct {
	pattern *regexp2.Regexp
	term    config.GlossaryTerm
}

// GlossaryTransform 把正文中出现的词表词语包装为可见的索引目标
type GlossaryTransform struct {
	matchers []glossaryMatcher
	logger   *zap.Logger
}

// NewGlossaryTransform 根据词表创建转换
func NewGlossaryTransform(glossary *config.Glossary, logger *zap.Logger) (*GlossaryTransform, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &GlossaryTransform{logger: logger}
	if glossary == nil {
		return t, nil
	}
	for _, term := range glossary.Terms {
		opts := regexp2.RegexOptions(0)
		if !term.CaseSensitive {
			opts |= regexp2.IgnoreCase
		}
		pattern, err := regexp2.Compile(`(?<!\w)`+regexp2.Escape(term.Word)+`(?!\w)`, opts)
		if err != nil {
			return nil, fmt.Errorf("glossary word %q: %w", term.Word, err)
		}
		t.matchers = append(t.matchers, glossaryMatcher{pattern: pattern, term: term})
	}
	return t, nil
}

// Name 实现 Transform
func (t *GlossaryTransform) Name() string { return "glossary" }

// Apply 实现 Transform
func (t *GlossaryTransform) Apply(doc *document.Document) error {
	if len(t.matchers) == 0 {
		return nil
	}
	wrapped := 0
	var applyErr error
	mapContent(doc, func(in document.Inline) document.Inline {
		text, ok := in.(document.Text)
		if !ok || applyErr != nil {
			return in
		}
		out, n, err := t.wrap(text)
		if err != nil {
			applyErr = err
			return in
		}
		wrapped += n
		return out
	})
	if applyErr != nil {
		return applyErr
	}
	t.logger.Debug("glossary applied", zap.Int("wrapped", wrapped))
	return nil
}

// wrap 依次用每个词语切分文本，已包装的片段不再参与后续匹配
func (t *GlossaryTransform) wrap(text document.Text) (document.Inline, int, error) {
	parts := []document.Inline{text}
	count := 0
	for _, m := range t.matchers {
		var next []document.Inline
		for _, part := range parts {
			plain, ok := part.(document.Text)
			if !ok {
				next = append(next, part)
				continue
			}
			split, n, err := splitMatches(plain, m)
			if err != nil {
				return nil, 0, err
			}
			count += n
			next = append(next, split...)
		}
		parts = next
	}
	if count == 0 {
		return text, 0, nil
	}
	return document.Mixed(parts), count, nil
}

func splitMatches(text document.Text, m glossaryMatcher) ([]document.Inline, int, error) {
	runes := []rune(text.Value)
	var out []document.Inline
	pos, count := 0, 0

	match, err := m.pattern.FindStringMatch(text.Value)
	for ; match != nil && err == nil; match, err = m.pattern.FindNextMatch(match) {
		if match.Index > pos {
			out = append(out, document.Text{Value: string(runes[pos:match.Index]), Style: text.Style})
		}
		term := document.IndexTerm{Name: m.term.Entry, Subentry: m.term.Subentry}
		word := document.Text{Value: match.String(), Style: text.Style}
		out = append(out, index.NewTextWithIndexTarget([]document.IndexTerm{term}, word, ""))
		pos = match.Index + match.Length
		count++
	}
	if err != nil {
		return nil, 0, fmt.Errorf("glossary word %q: %w", m.term.Word, err)
	}
	if pos < len(runes) {
		out = append(out, document.Text{Value: string(runes[pos:]), Style: text.Style})
	}
	return out, count, nil
}
