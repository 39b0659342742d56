// Package layout 提供按行分页的排版容器，以及多轮渲染直到页码稳定的构建器
package layout

import (
	"context"
	"time"

	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"go.uber.org/zap"
)

// 默认排版参数
const (
	DefaultPageWidth  = 72
	DefaultPageHeight = 54
	DefaultMaxPasses  = 5
)

// Options 排版选项
type Options struct {
	PageWidth  int
	PageHeight int
	MaxPasses  int
	Stylesheet Stylesheet
}

// DefaultOptions 返回默认选项
func DefaultOptions() Options {
	return Options{
		PageWidth:  DefaultPageWidth,
		PageHeight: DefaultPageHeight,
		MaxPasses:  DefaultMaxPasses,
		Stylesheet: DefaultStylesheet(),
	}
}

func (o Options) withDefaults() Options {
	if o.PageWidth <= 0 {
		o.PageWidth = DefaultPageWidth
	}
	if o.PageHeight <= 0 {
		o.PageHeight = DefaultPageHeight
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	if o.Stylesheet == nil {
		o.Stylesheet = DefaultStylesheet()
	}
	return o
}

// Result 构建结果
type Result struct {
	Document   *document.Document
	Pages      []*Page
	Passes     int
	Converged  bool
	Unresolved []document.UnresolvedReference
	Duration   time.Duration
}

// PassObserver 每轮渲染结束后的回调
type PassObserver func(pass int, pages int, changed bool)

// Builder 执行 prepare 阶段和多轮渲染
type Builder struct {
	opts     Options
	logger   *zap.Logger
	observer PassObserver
}

// NewBuilder 创建构建器，logger 为 nil 时不输出日志
func NewBuilder(opts Options, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{opts: opts.withDefaults(), logger: logger}
}

// OnPass 设置每轮渲染的回调
func (b *Builder) OnPass(observer PassObserver) {
	b.observer = observer
}

// Build 先完成 prepare 阶段，再反复渲染直到页码表不再变化或达到轮数上限
func (b *Builder) Build(ctx context.Context, doc *document.Document) (*Result, error) {
	startTime := time.Now()

	if !doc.Prepared() {
		if err := doc.Prepare(); err != nil {
			return nil, document.NewBuildError(document.ErrCodePrepare, "prepare pass failed", 0, err)
		}
	}
	b.logger.Debug("prepare pass finished",
		zap.String("document", doc.ID),
		zap.Int("indexEntries", doc.Index.Len()),
		zap.Int("indexTargets", doc.Index.Count()),
		zap.Int("sections", len(doc.Sections)))

	result := &Result{Document: doc}
	for pass := 1; pass <= b.opts.MaxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		previous := doc.BeginPass()
		pages, err := b.renderPass(doc)
		if err != nil {
			return nil, document.NewBuildError(document.ErrCodeLayout, "render pass failed", pass, err)
		}

		changed := !doc.PageReferences.Equal(previous)
		result.Pages = pages
		result.Passes = pass

		b.logger.Debug("render pass finished",
			zap.Int("pass", pass),
			zap.Int("pages", len(pages)),
			zap.Bool("changed", changed))
		if b.observer != nil {
			b.observer(pass, len(pages), changed)
		}

		if !changed {
			result.Converged = true
			break
		}
	}

	if !result.Converged {
		b.logger.Warn("page references did not converge",
			zap.Int("passes", result.Passes))
	}

	result.Unresolved = doc.Unresolved()
	for _, ref := range result.Unresolved {
		b.logger.Warn("unresolved reference",
			zap.String("target", ref.TargetID),
			zap.String("kind", string(ref.Kind)))
	}

	result.Duration = time.Since(startTime)
	b.logger.Info("document built",
		zap.String("document", doc.ID),
		zap.Int("pages", len(result.Pages)),
		zap.Int("passes", result.Passes),
		zap.Bool("converged", result.Converged),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// renderPass 在新的容器中排版整篇文档
func (b *Builder) renderPass(doc *document.Document) ([]*Page, error) {
	p := NewPaginator(doc, b.opts)
	for _, f := range doc.Flowables {
		if err := f.Flow(p); err != nil {
			return nil, err
		}
	}
	return p.Pages(), nil
}
