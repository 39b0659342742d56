package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nerdneilsfield/go-docprep/internal/config"
	"github.com/nerdneilsfield/go-docprep/internal/frontend"
	"github.com/nerdneilsfield/go-docprep/internal/stats"
	"github.com/nerdneilsfield/go-docprep/internal/template"
	"github.com/nerdneilsfield/go-docprep/internal/transform"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"github.com/nerdneilsfield/go-docprep/pkg/render"
	"go.uber.org/zap"
)

// Pipeline 串联解析、变换、模板、排版和输出
type Pipeline struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPipeline 创建处理流水线
func NewPipeline(cfg *config.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Load 解析输入文件，执行变换并套用文章模板
func (p *Pipeline) Load(ctx context.Context, inputPath string) (*document.Document, error) {
	parser, err := frontend.ForFile(inputPath, p.logger)
	if err != nil {
		return nil, document.NewBuildError(document.ErrCodeInput, "unsupported input", 0, err)
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return nil, document.NewBuildError(document.ErrCodeInput, "failed to open input", 0, err)
	}
	defer file.Close()

	doc, err := parser.Parse(ctx, file)
	if err != nil {
		return nil, document.NewBuildError(document.ErrCodeInput, "failed to parse input", 0, err)
	}
	transforms, err := p.transforms()
	if err != nil {
		return nil, err
	}
	if err := transform.Apply(doc, transforms...); err != nil {
		return nil, err
	}

	template.NewArticle(p.cfg.ArticleOptions()).Assemble(doc)
	p.logger.Debug("document loaded",
		zap.String("input", inputPath),
		zap.String("format", string(doc.Format)),
		zap.Int("flowables", len(doc.Flowables)))
	return doc, nil
}

// transforms 根据配置组装文档变换
func (p *Pipeline) transforms() ([]transform.Transform, error) {
	var out []transform.Transform
	if p.cfg.GlossaryPath != "" {
		glossary, err := config.LoadGlossary(p.cfg.GlossaryPath)
		if err != nil {
			return nil, err
		}
		gt, err := transform.NewGlossaryTransform(glossary, p.logger)
		if err != nil {
			return nil, err
		}
		out = append(out, gt)
	}
	out = append(out, transform.NewCitationReferenceTransform(p.logger))
	return out, nil
}

// Layout 排版文档
func (p *Pipeline) Layout(ctx context.Context, doc *document.Document, observer layout.PassObserver) (*layout.Result, error) {
	builder := layout.NewBuilder(p.cfg.LayoutOptions(), p.logger)
	if observer != nil {
		builder.OnPass(observer)
	}
	return builder.Build(ctx, doc)
}

// Write 把排版结果写入输出文件
func (p *Pipeline) Write(ctx context.Context, res *layout.Result, outputPath string) error {
	renderer, err := p.renderer(outputPath)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := renderer.Render(ctx, res, file); err != nil {
		file.Close()
		return document.NewBuildError(document.ErrCodeRender, "render failed", res.Passes, err)
	}
	return file.Close()
}

func (p *Pipeline) renderer(outputPath string) (render.Renderer, error) {
	if p.cfg.OutputFormat != "" {
		return render.ForFormat(p.cfg.OutputFormat)
	}
	return render.ForFile(outputPath)
}

// OutputFormat 输出文件对应的格式名，无法识别时返回空字符串
func (p *Pipeline) OutputFormat(outputPath string) string {
	renderer, err := p.renderer(outputPath)
	if err != nil {
		return ""
	}
	return renderer.Format()
}

// Record 把构建记录写入统计文件；失败只记日志，不影响构建结果
func (p *Pipeline) Record(record *stats.BuildRecord) {
	if !p.cfg.RecordStats {
		return
	}
	db, err := openStats(p.cfg, p.logger)
	if err != nil {
		p.logger.Warn("failed to open stats database", zap.Error(err))
		return
	}
	if err := db.AddBuildRecord(record); err != nil {
		p.logger.Warn("failed to record build", zap.Error(err))
	}
}
