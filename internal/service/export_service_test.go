package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"schichtpilot/backend/internal/dto"
	"schichtpilot/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService(store *mockStore) ExportService {
	cov := setupTestCoverageService(store, nil)
	return NewExportService(cov, zap.NewNop())
}

// ── ExportCoverage 测试 ──

func TestExportService_ExportCoverage_Success(t *testing.T) {
	svc := setupTestExportService(newTestStore())

	buf, filename, err := svc.ExportCoverage(context.Background(), &dto.ExportCoverageRequest{From: "2025-03-10", To: "2025-03-11"})
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if filename != "人员覆盖_2025-03-10_2025-03-11.xlsx" {
		t.Errorf("文件名错误: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件无法解析: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != sheetOverview || sheets[1] != sheetTimeIssues {
		t.Fatalf("Sheet 列表错误: %v", sheets)
	}

	// 第 3 行为 03-10，C 列为早班
	if v, _ := f.GetCellValue(sheetOverview, "A3"); v != "2025-03-10" {
		t.Errorf("A3 期望 2025-03-10，实际 %q", v)
	}
	if v, _ := f.GetCellValue(sheetOverview, "B3"); v != "周一" {
		t.Errorf("B3 期望 周一，实际 %q", v)
	}
	if v, _ := f.GetCellValue(sheetOverview, "C3"); v != "满足 3/3" {
		t.Errorf("C3 期望 满足 3/3，实际 %q", v)
	}
	if v, _ := f.GetCellValue(sheetOverview, "D3"); v != "无需求" {
		t.Errorf("D3 期望 无需求，实际 %q", v)
	}
	if v, _ := f.GetCellValue(sheetOverview, "C4"); !strings.HasPrefix(v, "缺员 0/3") {
		t.Errorf("C4 期望缺员，实际 %q", v)
	}
}

func TestExportService_ExportCoverage_TimeIssueSheet(t *testing.T) {
	store := newTestStore()
	// w3 (ELEK) 只上前半班，后半班 09:00-13:00 缺 ELEK
	store.overrides = []model.DailyOverride{
		{WorkerID: "w3", OverrideDate: day("2025-03-10"), ShiftCode: "F", ActualStart: strPtr("05:00"), ActualEnd: strPtr("09:00"), Changed: true},
	}
	svc := setupTestExportService(store)

	buf, _, err := svc.ExportCoverage(context.Background(), &dto.ExportCoverageRequest{From: "2025-03-10", To: "2025-03-10"})
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件无法解析: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetTimeIssues)
	if err != nil {
		t.Fatalf("读取时间问题 Sheet 失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望表头 + 1 条时间问题，实际 %d 行", len(rows))
	}
	want := []string{"2025-03-10", "F", "09:00", "13:00", "ELEK (-1)"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Errorf("第 %d 列期望 %q，实际 %q", i+1, v, rows[1][i])
		}
	}
}

func TestExportService_ExportCoverage_NoRequirements(t *testing.T) {
	store := newTestStore()
	store.reqs = nil
	svc := setupTestExportService(store)

	_, _, err := svc.ExportCoverage(context.Background(), &dto.ExportCoverageRequest{From: "2025-03-10", To: "2025-03-10"})
	if !errors.Is(err, ErrExportNoRequirements) {
		t.Errorf("期望 ErrExportNoRequirements，实际 %v", err)
	}
}

func TestExportService_ExportCoverage_InvalidRange(t *testing.T) {
	svc := setupTestExportService(newTestStore())

	_, _, err := svc.ExportCoverage(context.Background(), &dto.ExportCoverageRequest{From: "2025-03-10", To: "2025-03-01"})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("期望 ErrInvalidRange，实际 %v", err)
	}
}
