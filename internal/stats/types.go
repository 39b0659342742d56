package stats

import (
	"time"
)

// BuildStatus 构建状态
type BuildStatus string

const (
	StatusCompleted BuildStatus = "completed"
	StatusUnstable  BuildStatus = "unstable" // 达到最大轮数时页码仍在变化
	StatusFailed    BuildStatus = "failed"
)

// StatisticsDB 统计数据库结构
type StatisticsDB struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// 总体统计
	TotalBuilds     int64         `json:"total_builds"`
	TotalPages      int64         `json:"total_pages"`
	TotalPasses     int64         `json:"total_passes"`
	TotalUnresolved int64         `json:"total_unresolved"`
	TotalErrors     int64         `json:"total_errors"`
	TotalDuration   time.Duration `json:"total_duration"`

	// 输出格式统计
	FormatStats map[string]*FormatStats `json:"format_stats"`

	// 最近的构建记录
	RecentBuilds []*BuildRecord `json:"recent_builds"`

	// 性能统计
	PerformanceStats PerformanceStatistics `json:"performance_stats"`
}

// FormatStats 输出格式统计
type FormatStats struct {
	Format          string        `json:"format"`
	BuildCount      int64         `json:"build_count"`
	PageCount       int64         `json:"page_count"`
	AveragePasses   float64       `json:"average_passes"`
	AverageDuration time.Duration `json:"average_duration"`
	ConvergenceRate float64       `json:"convergence_rate"`
	LastUsed        time.Time     `json:"last_used"`
}

// BuildRecord 一次构建的记录
type BuildRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	InputFile    string    `json:"input_file"`
	OutputFile   string    `json:"output_file"`
	InputFormat  string    `json:"input_format"`
	OutputFormat string    `json:"output_format"`

	// 排版结果
	Pages        int           `json:"pages"`
	Passes       int           `json:"passes"`
	IndexEntries int           `json:"index_entries"`
	Unresolved   int           `json:"unresolved"`
	Duration     time.Duration `json:"duration"`
	Status       BuildStatus   `json:"status"`

	// 错误信息
	ErrorMessage string `json:"error_message,omitempty"`
}

// PerformanceStatistics 性能统计
type PerformanceStatistics struct {
	AveragePagesPerSecond float64       `json:"average_pages_per_second"`
	FastestBuild          time.Duration `json:"fastest_build"`
	SlowestBuild          time.Duration `json:"slowest_build"`
	MostPasses            int           `json:"most_passes"`
}
