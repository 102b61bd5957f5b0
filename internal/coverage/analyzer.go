package coverage

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelism 区间分析默认并发度
const DefaultParallelism = 4

// Analyzer 覆盖分析引擎。构建后只读，可被多个 goroutine 并发调用。
type Analyzer struct {
	catalog      *Catalog
	quals        *QualificationIndex
	requirements *RequirementResolver
	roster       *RosterResolver
	warnings     []Warning
}

// NewAnalyzer 基于快照建立全部索引
func NewAnalyzer(snap Snapshot) *Analyzer {
	catalog, warnings := NewCatalog(snap.Windows)
	quals := NewQualificationIndex(snap.Qualifications, snap.Grants)
	return &Analyzer{
		catalog:      catalog,
		quals:        quals,
		requirements: NewRequirementResolver(snap.Rules, quals.Matrix()),
		roster:       NewRosterResolver(catalog, snap.Memberships, snap.Plans, snap.Overrides, snap.Absences),
		warnings:     warnings,
	}
}

// Catalog 班次时间目录
func (a *Analyzer) Catalog() *Catalog { return a.catalog }

// Qualifications 资质索引
func (a *Analyzer) Qualifications() *QualificationIndex { return a.quals }

// Warnings 快照级别告警（如班次时间配置无效）
func (a *Analyzer) Warnings() []Warning { return a.warnings }

// Evaluate 计算单个 (date, shift) 单元格。纯函数，相同快照下结果逐字节一致。
func (a *Analyzer) Evaluate(date time.Time, shift Shift) CoverageResult {
	d := Day(date)
	res := newResult(d.Format(DateLayout), shift.Code())

	resolution := a.requirements.Resolve(d, shift)
	duty, rosterWarnings := a.roster.Resolve(d, shift)
	res.OverrideMode = resolution.Override
	res.Warnings = append(res.Warnings, resolution.Warnings...)
	res.Warnings = append(res.Warnings, rosterWarnings...)

	win, hasWin := a.catalog.ResolveWindow(shift)
	if !hasWin && len(duty) > 0 {
		res.Warnings = append(res.Warnings, newWarning(WarnMissingCatalogEntry,
			"班次 %s 无时间配置，按全程在岗计且不做分段分析", shift.Code()))
	}

	// 单次调用内的资质查询缓存，用完即弃
	memo := make(map[string][]string, len(duty))
	candidates := make([]Candidate, 0, len(duty))
	for _, o := range duty {
		ids, ok := memo[o.WorkerID]
		if !ok {
			ids = a.quals.ValidQualifications(o.WorkerID, d)
			memo[o.WorkerID] = ids
		}
		candidates = append(candidates, Candidate{WorkerID: o.WorkerID, Quals: ids})
		res.OnDuty = append(res.OnDuty, toDutyInterval(o))
	}

	matrix := a.quals.Matrix()
	if resolution.Empty() {
		res.Warnings = append(res.Warnings, newWarning(WarnEmptyInputs, "%s %s 无需求规则", res.Date, res.Shift))
		res.Headcount = countQualified(rankWorkers(candidates, matrix))
		res.Unassigned = a.unassigned(candidates)
		return res
	}

	whole := Match(candidates, resolution.Relevant, matrix)
	res.SecondaryShortage = SecondaryShortage(candidates, resolution.Secondary)

	var seg segmentOutcome
	if hasWin && needsSegmentation(duty) {
		seg = analyzeSegments(win, duty, candidates, resolution.Relevant, matrix)
	}

	aggregate(&res, whole, seg)
	res.Unassigned = a.unassigned(whole.Unassigned)
	return res
}

func (a *Analyzer) unassigned(cs []Candidate) []UnassignedWorker {
	out := make([]UnassignedWorker, 0, len(cs))
	for _, c := range cs {
		out = append(out, UnassignedWorker{WorkerID: c.WorkerID, Quals: a.quals.Codes(c.Quals)})
	}
	return out
}

func toDutyInterval(o OnDuty) DutyInterval {
	di := DutyInterval{WorkerID: o.WorkerID, Team: o.Team, Adjusted: o.Adjusted, Helper: o.Helper}
	if o.Interval != nil {
		di.From = FormatClock(o.Interval.Start)
		di.To = FormatClock(o.Interval.End)
	}
	return di
}

// Requirements 返回 date/shift 解析后的需求（明细展示用）
func (a *Analyzer) Requirements(date time.Time, shift Shift) Resolution {
	return a.requirements.Resolve(Day(date), shift)
}

// ── 区间分析 ──

// Cell 一个待计算的 (日期, 班次) 单元格
type Cell struct {
	Date  time.Time
	Shift Shift
}

// Cells 展开 [from, to] 闭区间内的全部单元格，按日期、班次顺序
func Cells(from, to time.Time, shifts []Shift) []Cell {
	if len(shifts) == 0 {
		shifts = AllShifts
	}
	var cells []Cell
	for d := Day(from); !d.After(Day(to)); d = d.AddDate(0, 0, 1) {
		for _, s := range shifts {
			cells = append(cells, Cell{Date: d, Shift: s})
		}
	}
	return cells
}

// EvaluateRange 计算 [from, to] 闭区间内每天每个班次的覆盖结果，按日期、班次顺序返回
func (a *Analyzer) EvaluateRange(ctx context.Context, from, to time.Time, shifts []Shift, parallelism int) ([]CoverageResult, error) {
	if Day(to).Before(Day(from)) {
		return nil, fmt.Errorf("结束日期 %s 早于开始日期 %s", Day(to).Format(DateLayout), Day(from).Format(DateLayout))
	}
	return a.EvaluateCells(ctx, Cells(from, to, shifts), parallelism)
}

// EvaluateCells 并发计算给定单元格。单元格之间互不依赖，
// 按 parallelism 限制并发；ctx 取消时返回 ctx.Err()。
func (a *Analyzer) EvaluateCells(ctx context.Context, cells []Cell, parallelism int) ([]CoverageResult, error) {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	results := make([]CoverageResult, len(cells))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, c := range cells {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Evaluate(c.Date, c.Shift)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortResults(results)
	return results, nil
}
