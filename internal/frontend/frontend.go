// Package frontend 根据输入文件选择前端解析器
package frontend

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nerdneilsfield/go-docprep/internal/frontend/html"
	"github.com/nerdneilsfield/go-docprep/internal/frontend/markdown"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"go.uber.org/zap"
)

// Parser 前端解析器接口
type Parser interface {
	// Parse 解析输入流为文档树
	Parse(ctx context.Context, input io.Reader) (*document.Document, error)

	// Format 返回解析器支持的格式
	Format() document.Format
}

var extensions = map[string]document.Format{
	"md":       document.FormatMarkdown,
	"markdown": document.FormatMarkdown,
	"mdown":    document.FormatMarkdown,
	"mkd":      document.FormatMarkdown,
	"html":     document.FormatHTML,
	"htm":      document.FormatHTML,
	"xhtml":    document.FormatHTML,
}

// FormatForFile 根据扩展名判断输入格式
func FormatForFile(path string) document.Format {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format, ok := extensions[ext]; ok {
		return format
	}
	return document.FormatUnknown
}

// ForFormat 获取指定格式的解析器
func ForFormat(format document.Format, logger *zap.Logger) (Parser, error) {
	switch format {
	case document.FormatMarkdown:
		return markdown.NewParser(logger), nil
	case document.FormatHTML:
		return html.NewParser(logger), nil
	}
	return nil, fmt.Errorf("no parser registered for format: %s", format)
}

// ForFile 根据文件扩展名获取解析器
func ForFile(path string, logger *zap.Logger) (Parser, error) {
	format := FormatForFile(path)
	if format == document.FormatUnknown {
		return nil, fmt.Errorf("no parser registered for extension: %s", filepath.Ext(path))
	}
	return ForFormat(format, logger)
}
