package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
)

// TextRenderer 纯文本渲染器，页与页之间用换页符分隔
type TextRenderer struct {
	footer bool
}

// NewTextRenderer 创建带页脚的纯文本渲染器
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{footer: true}
}

// Format 实现 Renderer
func (r *TextRenderer) Format() string { return "text" }

// Render 实现 Renderer
func (r *TextRenderer) Render(ctx context.Context, res *layout.Result, w io.Writer) error {
	bw := bufio.NewWriter(w)
	width := 0
	for _, page := range res.Pages {
		for _, line := range page.Lines {
			if lw := line.Indent + runewidth.StringWidth(line.Text()); lw > width {
				width = lw
			}
		}
	}

	for i, page := range res.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			bw.WriteString("\f")
		}
		for _, line := range page.Lines {
			text := line.Text()
			if text != "" {
				bw.WriteString(strings.Repeat(" ", line.Indent))
				bw.WriteString(text)
			}
			bw.WriteString("\n")
		}
		if r.footer {
			footer := fmt.Sprintf("- %d -", page.Number())
			pad := (width - runewidth.StringWidth(footer)) / 2
			if pad < 0 {
				pad = 0
			}
			fmt.Fprintf(bw, "\n%s%s\n", strings.Repeat(" ", pad), footer)
		}
	}
	return bw.Flush()
}
