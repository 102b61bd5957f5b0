package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"schichtpilot/backend/internal/coverage"
	"schichtpilot/backend/internal/dto"
	"schichtpilot/backend/internal/model"
	"schichtpilot/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// 快照加载：每个集合按区间一次查询，并发执行
// ═══════════════════════════════════════════════════════════

type snapshotRows struct {
	quals       []model.Qualification
	grants      []model.WorkerQualification
	reqs        []model.StaffingRequirement
	memberships []model.RosterAssignment
	plans       []model.TeamShiftPlan
	overrides   []model.DailyOverride
	absences    []model.Absence
	shiftTypes  []model.ShiftType
}

// loadSnapshot 读取 [from, to] 区间分析所需的全部数据
// 调整与请假多取前一天：前一晚夜班加班会延续到 from 当天清晨
func loadSnapshot(ctx context.Context, repo *repository.Repository, from, to time.Time) (coverage.Snapshot, error) {
	var rows snapshotRows
	prev := from.AddDate(0, 0, -1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		rows.quals, err = repo.Qualification.List(gctx)
		return wrapLoad("资质矩阵", err)
	})
	g.Go(func() (err error) {
		rows.grants, err = repo.WorkerQualification.ListValidBetween(gctx, from, to)
		return wrapLoad("员工资质", err)
	})
	g.Go(func() (err error) {
		rows.reqs, err = repo.Requirement.ListValidBetween(gctx, from, to)
		return wrapLoad("需求规则", err)
	})
	g.Go(func() (err error) {
		rows.memberships, err = repo.RosterAssignment.ListValidBetween(gctx, from, to)
		return wrapLoad("班组分配", err)
	})
	g.Go(func() (err error) {
		rows.plans, err = repo.TeamShiftPlan.ListBetween(gctx, from, to)
		return wrapLoad("班组排班", err)
	})
	g.Go(func() (err error) {
		rows.overrides, err = repo.DailyOverride.ListBetween(gctx, prev, to)
		return wrapLoad("当日调整", err)
	})
	g.Go(func() (err error) {
		rows.absences, err = repo.Absence.ListOverlapping(gctx, prev, to)
		return wrapLoad("请假", err)
	})
	g.Go(func() (err error) {
		rows.shiftTypes, err = repo.ShiftType.List(gctx)
		return wrapLoad("班次类型", err)
	})

	if err := g.Wait(); err != nil {
		return coverage.Snapshot{}, err
	}
	return rows.toSnapshot(), nil
}

func wrapLoad(what string, err error) error {
	if err != nil {
		return fmt.Errorf("加载%s失败: %w", what, err)
	}
	return nil
}

// ── model → coverage ──

func (r snapshotRows) toSnapshot() coverage.Snapshot {
	snap := coverage.Snapshot{
		Qualifications: make([]coverage.Qualification, 0, len(r.quals)),
		Grants:         make([]coverage.Grant, 0, len(r.grants)),
		Rules:          make([]coverage.Rule, 0, len(r.reqs)),
		Memberships:    make([]coverage.Membership, 0, len(r.memberships)),
		Plans:          make([]coverage.TeamPlan, 0, len(r.plans)),
		Overrides:      make([]coverage.Override, 0, len(r.overrides)),
		Absences:       make([]coverage.Absence, 0, len(r.absences)),
		Windows:        make([]coverage.ShiftWindowDef, 0, len(r.shiftTypes)),
	}

	for _, q := range r.quals {
		snap.Qualifications = append(snap.Qualifications, coverage.Qualification{
			ID: q.QualificationID, Code: q.Code, Name: q.Name,
			Relevant: q.IsRelevant, Priority: q.Priority, Active: q.IsActive,
		})
	}
	for _, g := range r.grants {
		snap.Grants = append(snap.Grants, coverage.Grant{
			WorkerID: g.WorkerID, QualificationID: g.QualificationID, From: g.ValidFrom, To: g.ValidTo,
		})
	}
	for _, req := range r.reqs {
		snap.Rules = append(snap.Rules, coverage.Rule{
			ID:              req.RequirementID,
			QualificationID: req.QualificationID,
			Count:           req.RequiredCount,
			From:            req.ValidFrom,
			To:              req.ValidTo,
			Mode:            coverage.Mode(req.Mode),
			StartShift:      optionalShift(req.StartShift),
			EndShift:        optionalShift(req.EndShift),
			Shift:           optionalShift(req.ShiftCode),
			WeekPattern:     deref(req.WeekPattern),
		})
	}
	for _, m := range r.memberships {
		snap.Memberships = append(snap.Memberships, coverage.Membership{
			WorkerID: m.WorkerID, Team: m.Team, Rank: m.Rank, From: m.ValidFrom, To: m.ValidTo,
		})
	}
	for _, p := range r.plans {
		snap.Plans = append(snap.Plans, coverage.TeamPlan{Team: p.Team, Date: p.PlanDate, ShiftCode: p.ShiftCode})
	}
	for _, o := range r.overrides {
		snap.Overrides = append(snap.Overrides, coverage.Override{
			WorkerID: o.WorkerID, Date: o.OverrideDate, ShiftCode: o.ShiftCode,
			ActualStart: deref(o.ActualStart), ActualEnd: deref(o.ActualEnd), Changed: o.Changed,
		})
	}
	for _, a := range r.absences {
		snap.Absences = append(snap.Absences, coverage.Absence{WorkerID: a.WorkerID, From: a.StartDate, To: a.EndDate})
	}
	for _, st := range r.shiftTypes {
		snap.Windows = append(snap.Windows, coverage.ShiftWindowDef{Code: st.Code, Start: st.StartTime, End: st.EndTime})
	}
	return snap
}

func optionalShift(code *string) coverage.Shift {
	if code == nil {
		return 0
	}
	s, _ := coverage.ParseShift(*code)
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ── dto → coverage（调用方自带快照）──

// snapshotFromDocument 校验并转换调用方提交的快照，任一日期或班次无效即整体拒绝
func snapshotFromDocument(doc *dto.SnapshotDocument) (coverage.Snapshot, error) {
	var snap coverage.Snapshot
	p := &docParser{}

	for _, q := range doc.Qualifications {
		if q.ID == "" || q.Code == "" {
			p.fail("资质缺少 id 或 code")
			continue
		}
		snap.Qualifications = append(snap.Qualifications, coverage.Qualification{
			ID: q.ID, Code: q.Code, Name: q.Name, Relevant: q.Relevant, Priority: q.Priority, Active: q.Active,
		})
	}
	for _, g := range doc.Grants {
		snap.Grants = append(snap.Grants, coverage.Grant{
			WorkerID: g.WorkerID, QualificationID: g.QualificationID,
			From: p.day("grants.valid_from", g.ValidFrom), To: p.optionalDay("grants.valid_to", g.ValidTo),
		})
	}
	for _, r := range doc.Requirements {
		mode := coverage.Mode(r.Mode)
		if mode == "" {
			mode = coverage.ModeBaseline
		}
		if mode != coverage.ModeBaseline && mode != coverage.ModeOverride {
			p.fail("需求规则 %s 模式无效: %s", r.ID, r.Mode)
		}
		if r.Count < 0 {
			p.fail("需求规则 %s 人数不能为负", r.ID)
		}
		snap.Rules = append(snap.Rules, coverage.Rule{
			ID:              r.ID,
			QualificationID: r.QualificationID,
			Count:           r.Count,
			From:            p.optionalDay("requirements.valid_from", r.ValidFrom),
			To:              p.optionalDay("requirements.valid_to", r.ValidTo),
			Mode:            mode,
			StartShift:      p.optionalShift("requirements.start_shift", r.StartShift),
			EndShift:        p.optionalShift("requirements.end_shift", r.EndShift),
			Shift:           p.optionalShift("requirements.shift", r.Shift),
			WeekPattern:     r.WeekPattern,
		})
	}
	for _, m := range doc.Memberships {
		snap.Memberships = append(snap.Memberships, coverage.Membership{
			WorkerID: m.WorkerID, Team: m.Team, Rank: m.Rank,
			From: p.day("memberships.valid_from", m.ValidFrom), To: p.optionalDay("memberships.valid_to", m.ValidTo),
		})
	}
	for _, pl := range doc.Plans {
		snap.Plans = append(snap.Plans, coverage.TeamPlan{Team: pl.Team, Date: p.day("plans.date", pl.Date), ShiftCode: pl.Shift})
	}
	for _, o := range doc.Overrides {
		snap.Overrides = append(snap.Overrides, coverage.Override{
			WorkerID: o.WorkerID, Date: p.day("overrides.date", o.Date), ShiftCode: o.Shift,
			ActualStart: o.ActualStart, ActualEnd: o.ActualEnd, Changed: o.Changed,
		})
	}
	for _, a := range doc.Absences {
		snap.Absences = append(snap.Absences, coverage.Absence{
			WorkerID: a.WorkerID, From: p.day("absences.from", a.From), To: p.day("absences.to", a.To),
		})
	}
	for _, w := range doc.ShiftWindows {
		snap.Windows = append(snap.Windows, coverage.ShiftWindowDef{Code: w.Code, Start: w.Start, End: w.End})
	}

	if p.err != nil {
		return coverage.Snapshot{}, p.err
	}
	return snap, nil
}

// docParser 记录首个解析错误，后续字段继续解析但不再覆盖错误
type docParser struct {
	err error
}

func (p *docParser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
	}
}

func (p *docParser) day(field, s string) time.Time {
	d, err := coverage.ParseDay(s)
	if err != nil {
		p.fail("%s 日期无效: %q", field, s)
	}
	return d
}

func (p *docParser) optionalDay(field string, s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	d := p.day(field, *s)
	return &d
}

func (p *docParser) optionalShift(field, code string) coverage.Shift {
	if code == "" {
		return 0
	}
	s, ok := coverage.ParseShift(code)
	if !ok {
		p.fail("%s 班次代码无效: %q", field, code)
	}
	return s
}
