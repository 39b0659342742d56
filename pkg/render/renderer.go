// Package render 把排版结果写成文本、HTML 或 Markdown
package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
)

// Renderer 输出渲染器接口
type Renderer interface {
	// Render 将排版结果写入输出
	Render(ctx context.Context, res *layout.Result, w io.Writer) error

	// Format 返回输出格式名
	Format() string
}

// ForFormat 根据格式名获取渲染器
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt", "":
		return NewTextRenderer(), nil
	case "html", "htm":
		return NewHTMLRenderer(), nil
	case "markdown", "md":
		return NewMarkdownRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
}

// ForFile 根据输出文件扩展名获取渲染器
func ForFile(path string) (Renderer, error) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return NewTextRenderer(), nil
	}
	return ForFormat(path[idx+1:])
}

// anchorsByLine 按行号归类页面上的锚点，超出行数的锚点归到最后
func anchorsByLine(page *layout.Page) map[int][]document.NamedDestination {
	out := make(map[int][]document.NamedDestination)
	for _, a := range page.Annotations {
		line := int(a.Y)
		if line > len(page.Lines) {
			line = len(page.Lines)
		}
		out[line] = append(out[line], a.Destination)
	}
	return out
}
