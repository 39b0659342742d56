package cli

import (
	"fmt"

	"github.com/nerdneilsfield/go-docprep/internal/config"
	"github.com/nerdneilsfield/go-docprep/internal/logger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// 命令行标志变量
	cfgFile      string
	debugMode    bool
	verboseMode  bool // 显示详细日志
	quietMode    bool // 不显示进度
	outputFormat string
	glossaryPath string
	pageWidth    int
	pageHeight   int
	maxPasses    int
	noIndex      bool
	noTOC        bool
	noStats      bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docprep",
		Short: "docprep 把 Markdown 或 HTML 排版成带目录和索引的分页文档",
		Long: `docprep 把 Markdown 或 HTML 排版成带目录和索引的分页文档。

文档先经过一次 prepare 阶段登记所有索引词条和引用目标，
然后反复排版，直到所有页码引用稳定下来。

支持的角色:
  :index:` + "`word <entry!sub; other>`" + `  标记文本并登记索引词条
  :index-target:` + "`entry`" + `      在当前位置登记索引词条
  :page:` + "`id`" + ` :ref:` + "`id`" + ` :numref:` + "`id`" + `  引用目标的页码、标题、编号`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if quietMode {
				pterm.DisableOutput()
			} else {
				pterm.EnableOutput()
			}
		},
	}

	// 添加全局标志
	addGlobalFlags(rootCmd)

	// 添加子命令
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewIndexCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewStatsCommand())

	return rootCmd
}

// addGlobalFlags 添加全局标志
func addGlobalFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "配置文件路径 (默认为 $HOME/.docprep.yaml)")
	flags.BoolVar(&debugMode, "debug", false, "启用调试日志")
	flags.BoolVar(&verboseMode, "verbose", false, "使用控制台格式输出日志")
	flags.BoolVarP(&quietMode, "quiet", "q", false, "不显示排版进度")
	flags.StringVar(&glossaryPath, "glossary", "", "索引词表文件 (TOML)")
	flags.IntVar(&pageWidth, "page-width", 0, "每行列数")
	flags.IntVar(&pageHeight, "page-height", 0, "每页行数")
	flags.IntVar(&maxPasses, "max-passes", 0, "最多排版轮数")
	flags.BoolVar(&noIndex, "no-index", false, "不生成索引")
	flags.BoolVar(&noTOC, "no-toc", false, "不生成目录")
}

// loadConfig 加载配置并用命令行参数覆盖
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	updateConfigFromFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// updateConfigFromFlags 使用命令行参数更新配置
func updateConfigFromFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = debugMode
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verboseMode
	}
	if flags.Changed("glossary") {
		cfg.GlossaryPath = glossaryPath
	}
	if flags.Changed("page-width") {
		cfg.PageWidth = pageWidth
	}
	if flags.Changed("page-height") {
		cfg.PageHeight = pageHeight
	}
	if flags.Changed("max-passes") {
		cfg.MaxPasses = maxPasses
	}
	if flags.Changed("format") {
		cfg.OutputFormat = outputFormat
	}
	if flags.Changed("no-index") {
		cfg.Template.Index = !noIndex
	}
	if flags.Changed("no-toc") {
		cfg.Template.TableOfContents = !noTOC
	}
	if flags.Changed("no-stats") {
		cfg.RecordStats = !noStats
	}
}

// newLogger 根据配置创建日志
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Debug:   cfg.Debug,
		Verbose: cfg.Verbose,
		File:    cfg.LogFile,
	})
}
