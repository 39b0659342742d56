package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Visualizer 统计数据可视化器
type Visualizer struct {
	db *Database
	w  io.Writer
}

// NewVisualizer 创建可视化器，输出到 w
func NewVisualizer(db *Database, w io.Writer) *Visualizer {
	return &Visualizer{db: db, w: w}
}

// ShowOverview 显示总览
func (v *Visualizer) ShowOverview() {
	stats := v.db.GetStats()

	v.printTitle(color.New(color.FgCyan, color.Bold), "📊 Build Statistics Overview")

	v.printSection("🎯 Overall Statistics", [][]string{
		{"Total Builds", formatNumber(stats.TotalBuilds)},
		{"Total Pages", formatNumber(stats.TotalPages)},
		{"Total Passes", formatNumber(stats.TotalPasses)},
		{"Unresolved References", formatNumber(stats.TotalUnresolved)},
		{"Failed Builds", formatNumber(stats.TotalErrors)},
		{"Total Duration", formatDuration(stats.TotalDuration)},
		{"Database Created", formatTime(stats.CreatedAt)},
		{"Last Updated", formatTime(stats.LastUpdated)},
	})

	v.printSection("⚡ Performance Statistics", [][]string{
		{"Avg Pages/Second", fmt.Sprintf("%.2f pages/sec", stats.PerformanceStats.AveragePagesPerSecond)},
		{"Fastest Build", formatDuration(stats.PerformanceStats.FastestBuild)},
		{"Slowest Build", formatDuration(stats.PerformanceStats.SlowestBuild)},
		{"Most Passes", strconv.Itoa(stats.PerformanceStats.MostPasses)},
	})
}

// ShowFormatStats 显示输出格式统计
func (v *Visualizer) ShowFormatStats() {
	stats := v.db.GetStats()

	v.printTitle(color.New(color.FgGreen, color.Bold), "📄 Output Format Statistics")

	if len(stats.FormatStats) == 0 {
		fmt.Fprintln(v.w, "No format data available.")
		return
	}

	// 按构建次数排序
	formats := make([]*FormatStats, 0, len(stats.FormatStats))
	for _, format := range stats.FormatStats {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool {
		if formats[i].BuildCount != formats[j].BuildCount {
			return formats[i].BuildCount > formats[j].BuildCount
		}
		return formats[i].Format < formats[j].Format
	})

	t := v.newTable()
	t.AppendHeader(table.Row{"Format", "Builds", "Pages", "Avg Passes", "Converged", "Avg Duration", "Last Used"})
	for _, format := range formats {
		t.AppendRow(table.Row{
			strings.ToUpper(format.Format),
			formatNumber(format.BuildCount),
			formatNumber(format.PageCount),
			fmt.Sprintf("%.1f", format.AveragePasses),
			fmt.Sprintf("%.1f%%", format.ConvergenceRate*100),
			formatDuration(format.AverageDuration),
			formatTime(format.LastUsed),
		})
	}
	t.Render()
}

// ShowRecentBuilds 显示最近的构建
func (v *Visualizer) ShowRecentBuilds(limit int) {
	records := v.db.GetRecentBuilds(limit)

	v.printTitle(color.New(color.FgBlue, color.Bold), fmt.Sprintf("🕒 Recent Builds (Last %d)", len(records)))

	if len(records) == 0 {
		fmt.Fprintln(v.w, "No recent builds found.")
		return
	}

	t := v.newTable()
	t.AppendHeader(table.Row{"", "Input", "Output", "Pages", "Passes", "Index", "Unresolved", "Duration", "Time"})
	for _, record := range records {
		t.AppendRow(table.Row{
			statusIcon(record.Status),
			truncate(record.InputFile, 40),
			truncate(record.OutputFile, 40),
			record.Pages,
			record.Passes,
			record.IndexEntries,
			record.Unresolved,
			formatDuration(record.Duration),
			formatTime(record.Timestamp),
		})
	}
	t.Render()

	errorColor := color.New(color.FgRed)
	for _, record := range records {
		if record.ErrorMessage != "" {
			errorColor.Fprintf(v.w, "❌ %s: %s\n", record.InputFile, record.ErrorMessage)
		}
	}
}

func (v *Visualizer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(v.w)
	t.SetStyle(table.StyleLight)
	return t
}

func (v *Visualizer) printTitle(c *color.Color, title string) {
	c.Fprintln(v.w, title)
	c.Fprintln(v.w, strings.Repeat("=", 50))
}

// printSection 打印一个统计部分
func (v *Visualizer) printSection(title string, data [][]string) {
	sectionColor := color.New(color.FgYellow, color.Bold)
	sectionColor.Fprintf(v.w, "%s\n", title)

	// 计算最大标签长度
	maxLabelLen := 0
	for _, row := range data {
		if len(row[0]) > maxLabelLen {
			maxLabelLen = len(row[0])
		}
	}

	labelColor := color.New(color.FgCyan)
	valueColor := color.New(color.FgWhite, color.Bold)
	for _, row := range data {
		labelColor.Fprintf(v.w, "  %-*s: ", maxLabelLen, row[0])
		valueColor.Fprintln(v.w, row[1])
	}
	fmt.Fprintln(v.w)
}

func statusIcon(status BuildStatus) string {
	switch status {
	case StatusCompleted:
		return "✅"
	case StatusUnstable:
		return "⚠️"
	}
	return "❌"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}

// formatNumber 格式化数字（添加千位分隔符）
func formatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(char)
	}
	return result.String()
}

// formatDuration 格式化持续时间
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}

	return fmt.Sprintf("%.1fh", d.Hours())
}

// formatTime 格式化时间
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}

	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04:05")
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 02 15:04")
	}

	return t.Format("2006-01-02 15:04")
}
