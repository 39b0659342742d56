package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/Kunde21/markdownfmt/v3"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
)

// MarkdownRenderer Markdown 渲染器，输出经 markdownfmt 规范化
type MarkdownRenderer struct{}

// NewMarkdownRenderer 创建 Markdown 渲染器
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Format 实现 Renderer
func (r *MarkdownRenderer) Format() string { return "markdown" }

// Render 实现 Renderer
func (r *MarkdownRenderer) Render(ctx context.Context, res *layout.Result, w io.Writer) error {
	var buf bytes.Buffer
	for i, page := range res.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			buf.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&buf, "<!-- page %d -->\n\n", page.Number())

		anchors := anchorsByLine(page)
		var block []string
		flush := func() {
			if len(block) > 0 {
				buf.WriteString(strings.Join(block, "\\\n"))
				buf.WriteString("\n\n")
				block = nil
			}
		}

		for li, line := range page.Lines {
			prefix := anchorsHTML(anchors[li])
			if len(line.Spans) == 0 {
				flush()
				if prefix != "" {
					buf.WriteString(prefix + "\n\n")
				}
				continue
			}
			if level := headingLevel(line.Style); level > 0 {
				flush()
				fmt.Fprintf(&buf, "%s %s%s\n\n", strings.Repeat("#", level), prefix, spansMarkdown(line.Spans))
				continue
			}
			indent := strings.Repeat("&nbsp;", line.Indent)
			block = append(block, prefix+indent+spansMarkdown(line.Spans))
		}
		flush()
		if tail := anchorsHTML(anchors[len(page.Lines)]); tail != "" {
			buf.WriteString(tail + "\n\n")
		}
	}

	formatted, err := markdownfmt.Process("", buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format markdown: %w", err)
	}
	_, err = w.Write(formatted)
	return err
}

func headingLevel(style string) int {
	var level int
	if _, err := fmt.Sscanf(style, "heading %d", &level); err != nil || level < 1 {
		return 0
	}
	if level > 6 {
		level = 6
	}
	return level
}

func anchorsHTML(dests []document.NamedDestination) string {
	var sb strings.Builder
	for _, dest := range dests {
		fmt.Fprintf(&sb, `<a id="%s"></a>`, html.EscapeString(string(dest)))
	}
	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", "#", `\#`,
)

func spansMarkdown(spans []document.Span) string {
	var sb strings.Builder
	for _, span := range spans {
		if span.Destination != "" {
			sb.WriteString(anchorsHTML([]document.NamedDestination{span.Destination}))
		}
		sb.WriteString(markdownEscaper.Replace(span.Text))
	}
	return sb.String()
}
