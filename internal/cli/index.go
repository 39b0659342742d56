package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/nerdneilsfield/go-docprep/pkg/document"
	"github.com/nerdneilsfield/go-docprep/pkg/index"
	"github.com/spf13/cobra"
)

var (
	// search 命令的标志
	searchLimit int
)

// NewIndexCommand 创建 index 命令
func NewIndexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "index input_file",
		Short: "排版文档并列出索引词条及其页码",
		Args:  cobra.ExactArgs(1),
		RunE:  runIndexCommand,
	}
}

// NewSearchCommand 创建 search 命令
func NewSearchCommand() *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search input_file query",
		Short: "模糊查找索引词条",
		Long: `模糊查找索引词条（不区分大小写），按匹配距离排序。

Examples:
  docprep search paper.md algo`,
		Args: cobra.ExactArgs(2),
		RunE: runSearchCommand,
	}

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "最多显示的结果数")

	return searchCmd
}

// IndexRow 索引表格中的一行
type IndexRow struct {
	Entry    string
	Subentry string
	Pages    []string
}

// buildIndex 排版文档后按索引顺序整理词条
func buildIndex(cmd *cobra.Command, inputPath string) ([]IndexRow, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = log.Sync()
	}()

	pipeline := NewPipeline(cfg, log)
	doc, err := pipeline.Load(cmd.Context(), inputPath)
	if err != nil {
		return nil, err
	}
	res, err := pipeline.Layout(cmd.Context(), doc, nil)
	if err != nil {
		return nil, err
	}
	printUnresolved(cmd.ErrOrStderr(), res.Unresolved)
	return IndexRows(doc), nil
}

// IndexRows 按索引的排序规则整理注册表
func IndexRows(doc *document.Document) []IndexRow {
	var rows []IndexRow
	for _, group := range index.Sorted(doc.Index.Snapshot()) {
		for _, sub := range group.Subentries {
			row := IndexRow{Entry: group.Name, Subentry: sub.Name}
			for _, entry := range sub.Entries {
				row.Pages = append(row.Pages, pageLabel(doc, entry.TargetID))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func pageLabel(doc *document.Document, id string) string {
	if page, ok := doc.PageReference(id); ok {
		return strconv.Itoa(page)
	}
	return document.UnresolvedPlaceholder
}

// runIndexCommand 执行 index 命令
func runIndexCommand(cmd *cobra.Command, args []string) error {
	rows, err := buildIndex(cmd, args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "文档中没有索引词条。")
		return nil
	}
	renderIndexTable(cmd.OutOrStdout(), rows)
	return nil
}

// renderIndexTable 以表格形式输出索引
func renderIndexTable(w io.Writer, rows []IndexRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"词条", "子词条", "页码"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Entry, row.Subentry, strings.Join(row.Pages, ", ")})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// runSearchCommand 执行 search 命令
func runSearchCommand(cmd *cobra.Command, args []string) error {
	rows, err := buildIndex(cmd, args[0])
	if err != nil {
		return err
	}

	matches := SearchRows(rows, args[1], searchLimit)
	if len(matches) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "没有与 %q 匹配的词条。\n", args[1])
		return nil
	}
	renderIndexTable(cmd.OutOrStdout(), matches)
	return nil
}

// SearchRows 对 "词条!子词条" 做不区分大小写的模糊匹配，按距离排序
func SearchRows(rows []IndexRow, query string, limit int) []IndexRow {
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = document.IndexTerm{Name: row.Entry, Subentry: row.Subentry}.String()
	}

	ranks := fuzzy.RankFindFold(query, labels)
	sort.Stable(ranks)

	var out []IndexRow
	for _, rank := range ranks {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, rows[rank.OriginalIndex])
	}
	return out
}
