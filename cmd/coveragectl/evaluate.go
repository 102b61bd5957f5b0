package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"schichtpilot/backend/internal/coverage"
	"schichtpilot/backend/internal/dto"
	"schichtpilot/backend/internal/service"
)

type evaluateOptions struct {
	snapshot string
	from     string
	to       string
	shifts   []string
	format   string
}

func newEvaluateCmd() *cobra.Command {
	opts := &evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "基于快照文件离线计算覆盖（不访问数据库）",
		Long: `读取 JSON 或 YAML 快照文件（结构同 POST /api/v1/coverage/evaluate 请求体），
计算区间内每个单元格的覆盖状态。--from/--to/--shifts 覆盖文件中的同名字段。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.snapshot, "snapshot", "s", "", "快照文件（.json / .yaml / .yml）")
	cmd.Flags().StringVar(&opts.from, "from", "", "开始日期 YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.to, "to", "", "结束日期 YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&opts.shifts, "shifts", nil, "班次，如 F,S（默认全部）")
	cmd.Flags().StringVarP(&opts.format, "output", "o", "table", "输出格式：table | json")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func runEvaluate(cmd *cobra.Command, opts *evaluateOptions) error {
	req, err := readEvaluateRequest(opts.snapshot)
	if err != nil {
		return err
	}
	if opts.from != "" {
		req.From = opts.from
	}
	if opts.to != "" {
		req.To = opts.to
	}
	if len(opts.shifts) > 0 {
		req.Shifts = opts.shifts
	}

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync()

	// 仅使用 Evaluate，无需仓库与缓存
	svc := service.NewCoverageService(cfg.Coverage, nil, nil, logger)
	grid, err := svc.Evaluate(cmd.Context(), req)
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(grid)
	case "table":
		return writeTable(cmd.OutOrStdout(), grid)
	default:
		return fmt.Errorf("不支持的输出格式 %q", opts.format)
	}
}

// readEvaluateRequest 读取快照文件。YAML 先转为通用结构再按 JSON 字段名解码，
// 两种格式共用 dto 上的 json 标签。
func readEvaluateRequest(path string) (*dto.EvaluateRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取快照文件失败: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("解析 YAML 失败: %w", err)
		}
		if raw, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("转换 YAML 失败: %w", err)
		}
	case ".json", "":
	default:
		return nil, fmt.Errorf("不支持的快照文件类型 %q", filepath.Ext(path))
	}

	var req dto.EvaluateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}
	return &req, nil
}

func writeTable(out io.Writer, grid *dto.CoverageGridResponse) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSHIFT\tSTATUS\tHEAD/REQ\tMISSING\tTIME ISSUES")
	for _, c := range grid.Cells {
		issues := make([]string, 0, len(c.TimeIssues))
		for _, ti := range c.TimeIssues {
			issues = append(issues, fmt.Sprintf("%s-%s %s", ti.From, ti.To, ti.MissingCode))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			c.Date, c.Shift, c.Status, c.Headcount, c.Required,
			strings.Join(c.MissingQualCodes, ","), strings.Join(issues, "; "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, st := range []coverage.Status{coverage.StatusDeficit, coverage.StatusExact, coverage.StatusSurplus1, coverage.StatusSurplus2Plus, coverage.StatusNone} {
		fmt.Fprintf(out, "%s=%d ", st, grid.Summary[st])
	}
	fmt.Fprintln(out)
	for _, w := range grid.Warnings {
		fmt.Fprintf(out, "warning: %s %s\n", w.Kind, w.Detail)
	}
	return nil
}
