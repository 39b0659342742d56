package cli

import (
	"github.com/nerdneilsfield/go-docprep/internal/config"
	"github.com/nerdneilsfield/go-docprep/internal/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// stats 命令的标志
	statsRecent  int
	statsFormats bool
)

// NewStatsCommand 创建 stats 命令
func NewStatsCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "显示构建统计",
		Long: `显示历次构建的统计数据：页数、排版轮数、未解析的引用和耗时。

统计文件默认位于 ~/.docprep/stats.json，可以用配置项 stats_file 修改，
record_stats: false 关闭记录。`,
		Args: cobra.NoArgs,
		RunE: runStatsCommand,
	}

	statsCmd.Flags().IntVar(&statsRecent, "recent", 10, "显示最近的构建数，0 表示不显示")
	statsCmd.Flags().BoolVar(&statsFormats, "formats", false, "按输出格式显示统计")

	return statsCmd
}

func runStatsCommand(cmd *cobra.Command, args []string) error {
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

	db, err := openStats(cfg, log)
	if err != nil {
		return err
	}

	visualizer := stats.NewVisualizer(db, cmd.OutOrStdout())
	visualizer.ShowOverview()
	if statsFormats {
		visualizer.ShowFormatStats()
	}
	if statsRecent > 0 {
		visualizer.ShowRecentBuilds(statsRecent)
	}
	return nil
}

// openStats 打开配置指定的统计文件
func openStats(cfg *config.Config, log *zap.Logger) (*stats.Database, error) {
	path := cfg.StatsFile
	if path == "" {
		var err error
		if path, err = stats.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return stats.NewDatabase(path, log)
}
