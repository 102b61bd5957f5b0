package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"schichtpilot/backend/internal/coverage"
	"schichtpilot/backend/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRequirements = errors.New("所选区间内没有任何人员需求")
	ErrExportGenerateFail   = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
// Excel 格式：
//   - Sheet "覆盖概览"：日期行 × 班次列，按状态着色
//   - Sheet "时间问题"：整班满足但部分时段缺员的明细
type ExportService interface {
	// ExportCoverage 导出区间覆盖结果为 Excel
	ExportCoverage(ctx context.Context, req *dto.ExportCoverageRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	coverage CoverageService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(coverage CoverageService, logger *zap.Logger) ExportService {
	return &exportService{coverage: coverage, logger: logger}
}

const (
	sheetOverview   = "覆盖概览"
	sheetTimeIssues = "时间问题"
)

var weekdayNames = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// statusLabels 单元格文字与底色
var statusLabels = map[coverage.Status]struct {
	text  string
	color string
}{
	coverage.StatusNone:         {"无需求", "#D9D9D9"},
	coverage.StatusDeficit:      {"缺员", "#F4B183"},
	coverage.StatusExact:        {"满足", "#C6E0B4"},
	coverage.StatusSurplus1:     {"富余 1", "#9BC2E6"},
	coverage.StatusSurplus2Plus: {"富余 2+", "#5B9BD5"},
}

// ═══════════════════════════════════════════════════════════
// ExportCoverage
// ═══════════════════════════════════════════════════════════
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportCoverage(ctx context.Context, req *dto.ExportCoverageRequest) (*bytes.Buffer, string, error) {
	// 1. 复用网格查询（含缓存）
	grid, err := s.coverage.GetGrid(ctx, &dto.CoverageGridRequest{From: req.From, To: req.To})
	if err != nil {
		return nil, "", err
	}

	hasRequirement := false
	for _, c := range grid.Cells {
		if c.Status != coverage.StatusNone {
			hasRequirement = true
			break
		}
	}
	if !hasRequirement {
		return nil, "", ErrExportNoRequirements
	}

	// 2. 按日期分组
	var dates []string
	byDate := make(map[string]map[string]coverage.CoverageResult)
	for _, c := range grid.Cells {
		if _, ok := byDate[c.Date]; !ok {
			dates = append(dates, c.Date)
			byDate[c.Date] = make(map[string]coverage.CoverageResult, len(coverage.AllShifts))
		}
		byDate[c.Date][c.Shift] = c
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(sheetOverview)
	f.SetActiveSheet(idx)
	f.NewSheet(sheetTimeIssues)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	statusStyles := make(map[coverage.Status]int, len(statusLabels))
	for st, l := range statusLabels {
		statusStyles[st], _ = f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{l.color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		})
	}

	// ── Sheet 1：覆盖概览 ──
	lastCol := colName(1 + len(coverage.AllShifts))
	f.SetColWidth(sheetOverview, "A", "A", 12)
	f.SetColWidth(sheetOverview, "B", "B", 6)
	f.SetColWidth(sheetOverview, "C", lastCol, 24)

	f.SetCellValue(sheetOverview, "A1", fmt.Sprintf("人员覆盖 %s ~ %s", grid.From, grid.To))
	f.MergeCell(sheetOverview, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetOverview, "A1", "A1", headerStyle)

	row := 2
	f.SetCellValue(sheetOverview, cell("A", row), "日期")
	f.SetCellValue(sheetOverview, cell("B", row), "星期")
	for i, shift := range coverage.AllShifts {
		f.SetCellValue(sheetOverview, cell(colName(2+i), row), shift.Code())
	}
	f.SetCellStyle(sheetOverview, cell("A", row), cell(lastCol, row), headerStyle)

	row = 3
	for _, date := range dates {
		f.SetCellValue(sheetOverview, cell("A", row), date)
		if d, err := coverage.ParseDay(date); err == nil {
			f.SetCellValue(sheetOverview, cell("B", row), weekdayNames[d.Weekday()])
		}
		for i, shift := range coverage.AllShifts {
			c, ok := byDate[date][shift.Code()]
			if !ok {
				continue
			}
			ref := cell(colName(2+i), row)
			f.SetCellValue(sheetOverview, ref, cellText(c))
			f.SetCellStyle(sheetOverview, ref, ref, statusStyles[c.Status])
		}
		row++
	}

	// ── Sheet 2：时间问题 ──
	f.SetColWidth(sheetTimeIssues, "A", "A", 12)
	f.SetColWidth(sheetTimeIssues, "B", "E", 12)
	headers := []string{"日期", "班次", "开始", "结束", "缺少资质"}
	for i, h := range headers {
		f.SetCellValue(sheetTimeIssues, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetTimeIssues, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row = 2
	for _, c := range grid.Cells {
		for _, ti := range c.TimeIssues {
			f.SetCellValue(sheetTimeIssues, cell("A", row), c.Date)
			f.SetCellValue(sheetTimeIssues, cell("B", row), c.Shift)
			f.SetCellValue(sheetTimeIssues, cell("C", row), ti.From)
			f.SetCellValue(sheetTimeIssues, cell("D", row), ti.To)
			f.SetCellValue(sheetTimeIssues, cell("E", row), fmt.Sprintf("%s (-%d)", ti.MissingCode, ti.MissingTotal))
			row++
		}
	}

	// 4. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("人员覆盖_%s_%s.xlsx", grid.From, grid.To)
	return buf, filename, nil
}

// cellText 概览单元格文字，如 "缺员 3/5\nSAN, ELEK"
func cellText(c coverage.CoverageResult) string {
	text := statusLabels[c.Status].text
	if c.Status == coverage.StatusNone {
		return text
	}
	text = fmt.Sprintf("%s %d/%d", text, c.Headcount, c.Required)
	if len(c.MissingQualCodes) > 0 {
		text += "\n" + strings.Join(c.MissingQualCodes, ", ")
	}
	if c.TimeIssue {
		text += "\n⚠ 时段缺员"
	}
	return text
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
