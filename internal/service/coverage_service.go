package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"schichtpilot/backend/config"
	"schichtpilot/backend/internal/coverage"
	"schichtpilot/backend/internal/dto"
	"schichtpilot/backend/internal/repository"
	pkgerrors "schichtpilot/backend/pkg/errors"
	"schichtpilot/backend/pkg/redis"
)

// ── 覆盖分析业务错误 ──

var (
	ErrInvalidDate     = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidRange    = errors.New("结束日期不能早于开始日期")
	ErrRangeTooLarge   = errors.New("查询区间超过允许的最大天数")
	ErrInvalidShift    = errors.New("班次代码无效，仅支持 F/S/N")
	ErrInvalidSnapshot = errors.New("快照数据无效")
)

// CellCache 单元格结果缓存（*redis.Client 实现；nil 客户端返回 ErrCacheDisabled）
type CellCache interface {
	GetCells(ctx context.Context, keys []string) (map[string][]byte, error)
	SetCells(ctx context.Context, cells map[string][]byte, ttl time.Duration) error
}

// CoverageService 覆盖分析业务接口
type CoverageService interface {
	// GetGrid 区间内每天每个班次的覆盖状态（排班网格着色用）
	GetGrid(ctx context.Context, req *dto.CoverageGridRequest) (*dto.CoverageGridResponse, error)
	// GetCell 单个单元格明细，附需求列表与员工姓名
	GetCell(ctx context.Context, req *dto.CoverageCellRequest) (*dto.CoverageCellResponse, error)
	// Evaluate 基于调用方提交的快照计算，不读数据库也不走缓存
	Evaluate(ctx context.Context, req *dto.EvaluateRequest) (*dto.CoverageGridResponse, error)
	// ListShiftWindows 班次标准时间图例
	ListShiftWindows(ctx context.Context) ([]dto.ShiftWindowResponse, error)
}

type coverageService struct {
	repo   *repository.Repository
	cache  CellCache
	cfg    config.CoverageConfig
	logger *zap.Logger
}

// NewCoverageService 创建 CoverageService 实例
func NewCoverageService(cfg config.CoverageConfig, repo *repository.Repository, cache CellCache, logger *zap.Logger) CoverageService {
	return &coverageService{repo: repo, cache: cache, cfg: cfg, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// GetGrid
// ═══════════════════════════════════════════════════════════
//
// 流程：
//  1. 校验区间与班次
//  2. 一次批量读缓存，命中的直接使用
//  3. 未命中的单元格一次性加载快照并发计算，结果回写缓存
//  4. 合并、排序、汇总

func (s *coverageService) GetGrid(ctx context.Context, req *dto.CoverageGridRequest) (*dto.CoverageGridResponse, error) {
	from, to, err := s.parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	shifts, err := parseShiftList(splitShifts(req.Shifts))
	if err != nil {
		return nil, err
	}

	cells := coverage.Cells(from, to, shifts)
	results := make([]coverage.CoverageResult, 0, len(cells))
	var misses []coverage.Cell
	hits := s.cachedCells(ctx, cells)
	for _, c := range cells {
		if r, ok := hits[cellKey(c)]; ok {
			results = append(results, r)
			continue
		}
		misses = append(misses, c)
	}
	cached := len(results)

	warnings := make([]coverage.Warning, 0)
	if len(misses) > 0 {
		snap, err := loadSnapshot(ctx, s.repo, from, to)
		if err != nil {
			s.logger.Error("加载覆盖快照失败", zap.Error(err))
			return nil, err
		}
		analyzer := coverage.NewAnalyzer(snap)
		fresh, err := analyzer.EvaluateCells(ctx, misses, s.cfg.Parallelism)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, analyzer.Warnings()...)
		s.storeCells(ctx, fresh)
		results = append(results, fresh...)
	}

	coverage.SortResults(results)
	s.logger.Debug("覆盖网格计算完成",
		zap.String("from", req.From), zap.String("to", req.To),
		zap.Int("cells", len(results)), zap.Int("cached", cached), zap.Int("warnings", len(warnings)))

	return &dto.CoverageGridResponse{
		From:     from.Format(coverage.DateLayout),
		To:       to.Format(coverage.DateLayout),
		Cells:    results,
		Summary:  summarize(results),
		Warnings: warnings,
		Cached:   cached,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// GetCell
// ═══════════════════════════════════════════════════════════

func (s *coverageService) GetCell(ctx context.Context, req *dto.CoverageCellRequest) (*dto.CoverageCellResponse, error) {
	date, err := coverage.ParseDay(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	shift, ok := coverage.ParseShift(strings.TrimSpace(req.Shift))
	if !ok {
		return nil, ErrInvalidShift
	}

	snap, err := loadSnapshot(ctx, s.repo, date, date)
	if err != nil {
		s.logger.Error("加载覆盖快照失败", zap.Error(err))
		return nil, err
	}
	analyzer := coverage.NewAnalyzer(snap)
	result := analyzer.Evaluate(date, shift)
	s.storeCells(ctx, []coverage.CoverageResult{result})

	resolution := analyzer.Requirements(date, shift)
	reqs := make([]coverage.Requirement, 0, len(resolution.Relevant)+len(resolution.Secondary))
	reqs = append(reqs, resolution.Relevant...)
	reqs = append(reqs, resolution.Secondary...)

	workers, err := s.workerBriefs(ctx, result)
	if err != nil {
		// 姓名仅用于展示，查询失败不影响覆盖结果
		s.logger.Warn("查询员工信息失败", zap.Error(err))
	}

	return &dto.CoverageCellResponse{
		CoverageResult: result,
		Requirements:   reqs,
		Workers:        workers,
	}, nil
}

func (s *coverageService) workerBriefs(ctx context.Context, result coverage.CoverageResult) (map[string]dto.WorkerBrief, error) {
	briefs := make(map[string]dto.WorkerBrief, len(result.OnDuty))
	ids := make([]string, 0, len(result.OnDuty))
	for _, d := range result.OnDuty {
		ids = append(ids, d.WorkerID)
	}
	workers, err := s.repo.Worker.ListByIDs(ctx, ids)
	if err != nil {
		return briefs, err
	}
	for _, w := range workers {
		briefs[w.WorkerID] = dto.WorkerBrief{ID: w.WorkerID, PersonnelNo: w.PersonnelNo, Name: w.Name}
	}
	return briefs, nil
}

// ═══════════════════════════════════════════════════════════
// Evaluate
// ═══════════════════════════════════════════════════════════

func (s *coverageService) Evaluate(ctx context.Context, req *dto.EvaluateRequest) (*dto.CoverageGridResponse, error) {
	from, to, err := s.parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	shifts, err := parseShiftList(req.Shifts)
	if err != nil {
		return nil, err
	}
	snap, err := snapshotFromDocument(&req.Snapshot)
	if err != nil {
		return nil, err
	}

	analyzer := coverage.NewAnalyzer(snap)
	results, err := analyzer.EvaluateRange(ctx, from, to, shifts, s.cfg.Parallelism)
	if err != nil {
		return nil, err
	}

	return &dto.CoverageGridResponse{
		From:     from.Format(coverage.DateLayout),
		To:       to.Format(coverage.DateLayout),
		Cells:    results,
		Summary:  summarize(results),
		Warnings: append(make([]coverage.Warning, 0), analyzer.Warnings()...),
	}, nil
}

// ═══════════════════════════════════════════════════════════
// ListShiftWindows
// ═══════════════════════════════════════════════════════════

func (s *coverageService) ListShiftWindows(ctx context.Context) ([]dto.ShiftWindowResponse, error) {
	types, err := s.repo.ShiftType.List(ctx)
	if err != nil {
		s.logger.Error("查询班次类型失败", zap.Error(err))
		return nil, err
	}

	defs := make([]coverage.ShiftWindowDef, 0, len(types))
	names := make(map[string]string, len(types))
	for _, t := range types {
		defs = append(defs, coverage.ShiftWindowDef{Code: t.Code, Start: t.StartTime, End: t.EndTime})
		names[t.Code] = t.Name
	}
	catalog, warnings := coverage.NewCatalog(defs)
	for _, w := range warnings {
		s.logger.Warn("班次时间配置无效", zap.String("detail", w.Detail))
	}

	out := make([]dto.ShiftWindowResponse, 0, len(coverage.AllShifts))
	for _, shift := range coverage.AllShifts {
		item := dto.ShiftWindowResponse{Code: shift.Code(), Name: names[shift.Code()]}
		if w, ok := catalog.ResolveWindow(shift); ok {
			item.Configured = true
			item.Start = coverage.FormatClock(w.Start)
			item.End = coverage.FormatClock(w.End)
			item.DurationMinutes = w.Duration()
			item.CrossesMidnight = w.End > coverage.MinutesPerDay
		}
		out = append(out, item)
	}
	return out, nil
}

// ── 缓存 ──

func cellKey(c coverage.Cell) string {
	return redis.CellKey(c.Date.Format(coverage.DateLayout), c.Shift.Code())
}

// cachedCells 批量读取缓存，返回可解析的命中结果
func (s *coverageService) cachedCells(ctx context.Context, cells []coverage.Cell) map[string]coverage.CoverageResult {
	out := make(map[string]coverage.CoverageResult)
	if s.cache == nil || s.cfg.CacheTTL <= 0 || len(cells) == 0 {
		return out
	}
	keys := make([]string, 0, len(cells))
	for _, c := range cells {
		keys = append(keys, cellKey(c))
	}
	raw, err := s.cache.GetCells(ctx, keys)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrCacheDisabled) {
			s.logger.Warn("读取覆盖缓存失败", zap.Error(err))
		}
		return out
	}
	for key, b := range raw {
		var r coverage.CoverageResult
		if err := json.Unmarshal(b, &r); err != nil {
			s.logger.Warn("覆盖缓存内容无法解析", zap.String("key", key), zap.Error(err))
			continue
		}
		out[key] = r
	}
	return out
}

func (s *coverageService) storeCells(ctx context.Context, results []coverage.CoverageResult) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 || len(results) == 0 {
		return
	}
	entries := make(map[string][]byte, len(results))
	for _, r := range results {
		b, err := json.Marshal(r)
		if err != nil {
			s.logger.Warn("序列化覆盖结果失败", zap.Error(err))
			return
		}
		entries[redis.CellKey(r.Date, r.Shift)] = b
	}
	if err := s.cache.SetCells(ctx, entries, s.cfg.CacheTTL); err != nil && !errors.Is(err, pkgerrors.ErrCacheDisabled) {
		s.logger.Warn("写入覆盖缓存失败", zap.Error(err))
	}
}

// ── 参数校验 ──

func (s *coverageService) parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := coverage.ParseDay(strings.TrimSpace(fromStr))
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	to, err := coverage.ParseDay(strings.TrimSpace(toStr))
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if s.cfg.MaxRangeDays > 0 && days > s.cfg.MaxRangeDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d > %d", ErrRangeTooLarge, days, s.cfg.MaxRangeDays)
	}
	return from, to, nil
}

func splitShifts(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// parseShiftList 空列表表示全部班次，重复代码只保留一次
func parseShiftList(codes []string) ([]coverage.Shift, error) {
	var shifts []coverage.Shift
	seen := make(map[coverage.Shift]bool, len(codes))
	for _, code := range codes {
		shift, ok := coverage.ParseShift(strings.TrimSpace(code))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidShift, code)
		}
		if !seen[shift] {
			seen[shift] = true
			shifts = append(shifts, shift)
		}
	}
	return shifts, nil
}

func summarize(results []coverage.CoverageResult) map[coverage.Status]int {
	summary := make(map[coverage.Status]int, 5)
	for _, r := range results {
		summary[r.Status]++
	}
	return summary
}
