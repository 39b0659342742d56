// Package stats 记录每次构建的结果，并汇总成统计数据
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nerdneilsfield/go-docprep/pkg/layout"
	"go.uber.org/zap"
)

const (
	StatsDBVersion   = "1.0.0"
	MaxRecentRecords = 100
)

// DefaultPath 默认统计文件位置 (~/.docprep/stats.json)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docprep", "stats.json"), nil
}

// NewBuildRecord 从排版结果生成构建记录
func NewBuildRecord(res *layout.Result, inputFile, outputFile, outputFormat string) *BuildRecord {
	record := &BuildRecord{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		InputFile:    inputFile,
		OutputFile:   outputFile,
		OutputFormat: outputFormat,
		Pages:        len(res.Pages),
		Passes:       res.Passes,
		Unresolved:   len(res.Unresolved),
		Duration:     res.Duration,
		Status:       StatusCompleted,
	}
	if res.Document != nil {
		record.InputFormat = string(res.Document.Format)
		record.IndexEntries = res.Document.Index.Len()
	}
	if !res.Converged {
		record.Status = StatusUnstable
	}
	return record
}

// NewFailedRecord 生成失败的构建记录
func NewFailedRecord(inputFile, outputFile string, duration time.Duration, err error) *BuildRecord {
	return &BuildRecord{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		InputFile:    inputFile,
		OutputFile:   outputFile,
		Duration:     duration,
		Status:       StatusFailed,
		ErrorMessage: err.Error(),
	}
}

// Database 统计数据库
type Database struct {
	filePath string
	data     *StatisticsDB
	mutex    sync.RWMutex
	logger   *zap.Logger
}

// NewDatabase 创建统计数据库
func NewDatabase(filePath string, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := &Database{
		filePath: filePath,
		logger:   logger,
	}

	// 确保目录存在
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}

	// 加载或创建数据
	if err := db.load(); err != nil {
		return nil, fmt.Errorf("failed to load stats database: %w", err)
	}

	return db, nil
}

// load 加载统计数据
func (db *Database) load() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, err := os.Stat(db.filePath); os.IsNotExist(err) {
		db.data = &StatisticsDB{
			Version:      StatsDBVersion,
			CreatedAt:    time.Now(),
			LastUpdated:  time.Now(),
			FormatStats:  make(map[string]*FormatStats),
			RecentBuilds: make([]*BuildRecord, 0),
		}
		return db.saveUnsafe()
	}

	data, err := os.ReadFile(db.filePath)
	if err != nil {
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var statsDB StatisticsDB
	if err := json.Unmarshal(data, &statsDB); err != nil {
		return fmt.Errorf("failed to parse stats file: %w", err)
	}

	// 初始化可能为 nil 的字段
	if statsDB.FormatStats == nil {
		statsDB.FormatStats = make(map[string]*FormatStats)
	}
	if statsDB.RecentBuilds == nil {
		statsDB.RecentBuilds = make([]*BuildRecord, 0)
	}

	db.data = &statsDB
	db.logger.Debug("loaded statistics database",
		zap.String("version", statsDB.Version),
		zap.Time("created_at", statsDB.CreatedAt),
		zap.Int64("total_builds", statsDB.TotalBuilds))

	return nil
}

// Save 保存统计数据
func (db *Database) Save() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.saveUnsafe()
}

// saveUnsafe 需要已持有锁
func (db *Database) saveUnsafe() error {
	db.data.LastUpdated = time.Now()

	data, err := json.MarshalIndent(db.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	// 原子写入
	tempFile := db.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp stats file: %w", err)
	}

	if err := os.Rename(tempFile, db.filePath); err != nil {
		return fmt.Errorf("failed to rename stats file: %w", err)
	}

	return nil
}

// AddBuildRecord 添加构建记录并更新汇总
func (db *Database) AddBuildRecord(record *BuildRecord) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.data.TotalBuilds++
	db.data.TotalDuration += record.Duration

	if record.Status == StatusFailed {
		db.data.TotalErrors++
	} else {
		db.data.TotalPages += int64(record.Pages)
		db.data.TotalPasses += int64(record.Passes)
		db.data.TotalUnresolved += int64(record.Unresolved)
		db.updateFormatStats(record)
		db.updatePerformanceStats(record)
	}

	db.data.RecentBuilds = append(db.data.RecentBuilds, record)

	// 保持最近记录数量限制
	if len(db.data.RecentBuilds) > MaxRecentRecords {
		sort.Slice(db.data.RecentBuilds, func(i, j int) bool {
			return db.data.RecentBuilds[i].Timestamp.After(db.data.RecentBuilds[j].Timestamp)
		})
		db.data.RecentBuilds = db.data.RecentBuilds[:MaxRecentRecords]
	}

	return db.saveUnsafe()
}

// updateFormatStats 按输出格式累计平均值
func (db *Database) updateFormatStats(record *BuildRecord) {
	formatStats, exists := db.data.FormatStats[record.OutputFormat]
	if !exists {
		formatStats = &FormatStats{Format: record.OutputFormat}
		db.data.FormatStats[record.OutputFormat] = formatStats
	}

	formatStats.BuildCount++
	formatStats.PageCount += int64(record.Pages)
	formatStats.LastUsed = record.Timestamp

	n := formatStats.BuildCount
	formatStats.AveragePasses = (formatStats.AveragePasses*float64(n-1) + float64(record.Passes)) / float64(n)

	converged := int64(formatStats.ConvergenceRate*float64(n-1) + 0.5)
	if record.Status == StatusCompleted {
		converged++
	}
	formatStats.ConvergenceRate = float64(converged) / float64(n)

	totalDuration := time.Duration(int64(formatStats.AverageDuration) * (n - 1))
	formatStats.AverageDuration = (totalDuration + record.Duration) / time.Duration(n)
}

// updatePerformanceStats 更新性能统计
func (db *Database) updatePerformanceStats(record *BuildRecord) {
	perf := &db.data.PerformanceStats
	if record.Passes > perf.MostPasses {
		perf.MostPasses = record.Passes
	}
	if record.Duration <= 0 {
		return
	}

	if perf.FastestBuild == 0 || record.Duration < perf.FastestBuild {
		perf.FastestBuild = record.Duration
	}
	if record.Duration > perf.SlowestBuild {
		perf.SlowestBuild = record.Duration
	}

	speed := float64(record.Pages) / record.Duration.Seconds()
	succeeded := db.data.TotalBuilds - db.data.TotalErrors
	if succeeded > 1 {
		perf.AveragePagesPerSecond = (perf.AveragePagesPerSecond*float64(succeeded-1) + speed) / float64(succeeded)
	} else {
		perf.AveragePagesPerSecond = speed
	}
}

// GetStats 获取统计数据（只读副本）
func (db *Database) GetStats() *StatisticsDB {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	data, _ := json.Marshal(db.data)
	var copy StatisticsDB
	_ = json.Unmarshal(data, &copy)

	return &copy
}

// GetRecentBuilds 获取最近的构建记录，最新的在前
func (db *Database) GetRecentBuilds(limit int) []*BuildRecord {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if limit <= 0 || limit > len(db.data.RecentBuilds) {
		limit = len(db.data.RecentBuilds)
	}

	sorted := make([]*BuildRecord, len(db.data.RecentBuilds))
	copy(sorted, db.data.RecentBuilds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	return sorted[:limit]
}
