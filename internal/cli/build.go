package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/nerdneilsfield/go-docprep/internal/stats"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewBuildCommand 创建 build 命令
func NewBuildCommand() *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build input_file output_file",
		Short: "排版文档并写入输出文件",
		Long: `排版文档并写入输出文件。

输出格式由 --format 指定，未指定时按输出文件扩展名选择:
  .txt  纯文本，页之间用换页符分隔
  .html HTML，每页一个 section
  .md   Markdown

Examples:
  docprep build paper.md paper.txt
  docprep build --glossary terms.toml paper.md paper.html`,
		Args: cobra.ExactArgs(2),
		RunE: runBuildCommand,
	}

	buildCmd.Flags().StringVar(&outputFormat, "format", "", "输出格式 (text, html, markdown)")
	buildCmd.Flags().BoolVar(&noStats, "no-stats", false, "不记录本次构建的统计")

	return buildCmd
}

// runBuildCommand 执行 build 命令
func runBuildCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	inputPath, outputPath := args[0], args[1]
	ctx := cmd.Context()
	pipeline := NewPipeline(cfg, log)
	start := time.Now()

	doc, err := pipeline.Load(ctx, inputPath)
	if err != nil {
		pipeline.Record(stats.NewFailedRecord(inputPath, outputPath, time.Since(start), err))
		return err
	}

	res, err := pipeline.Layout(ctx, doc, passProgress())
	if err == nil {
		err = pipeline.Write(ctx, res, outputPath)
	}
	if err != nil {
		pipeline.Record(stats.NewFailedRecord(inputPath, outputPath, time.Since(start), err))
		return err
	}
	pipeline.Record(stats.NewBuildRecord(res, inputPath, outputPath, pipeline.OutputFormat(outputPath)))

	log.Info("构建完成",
		zap.String("输入文件", inputPath),
		zap.String("输出文件", outputPath),
		zap.Int("页数", len(res.Pages)),
		zap.Int("轮数", res.Passes),
		zap.Duration("耗时", res.Duration))

	reportResult(cmd.OutOrStdout(), res)
	return nil
}

// passProgress 每轮排版后打印进度
func passProgress() layout.PassObserver {
	return func(pass, pages int, changed bool) {
		state := "页码已稳定"
		if changed {
			state = "页码有变化"
		}
		pterm.Info.Printfln("第 %d 轮排版: %d 页, %s", pass, pages, state)
	}
}

// reportResult 输出构建摘要和未解析的引用
func reportResult(w io.Writer, res *layout.Result) {
	if res.Converged {
		pterm.Success.Printfln("共 %d 页, %d 轮后稳定", len(res.Pages), res.Passes)
	} else {
		pterm.Warning.Printfln("共 %d 页, %d 轮后页码仍未稳定", len(res.Pages), res.Passes)
	}
	printUnresolved(w, res.Unresolved)
}

// printUnresolved 用颜色标出未解析的引用
func printUnresolved(w io.Writer, refs []document.UnresolvedReference) {
	if len(refs) == 0 {
		return
	}
	warn := color.New(color.FgYellow, color.Bold)
	warn.Fprintf(w, "⚠️  %d 个引用未能解析 (显示为 %s):\n", len(refs), document.UnresolvedPlaceholder)
	target := color.New(color.FgRed)
	for _, ref := range refs {
		fmt.Fprintf(w, "  - %s (%s)\n", target.Sprint(ref.TargetID), ref.Kind)
	}
}
