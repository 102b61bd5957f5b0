package service

import (
	"context"
	"sync"
	"time"

	"schichtpilot/backend/internal/model"
	"schichtpilot/backend/internal/repository"
)

// ── 内存数据集 ──
// 所有 mock 仓库共享一份数据，区间过滤与真实 SQL 保持一致

type mockStore struct {
	mu          sync.Mutex
	quals       []model.Qualification
	grants      []model.WorkerQualification
	workers     []model.Worker
	reqs        []model.StaffingRequirement
	memberships []model.RosterAssignment
	plans       []model.TeamShiftPlan
	overrides   []model.DailyOverride
	absences    []model.Absence
	shiftTypes  []model.ShiftType

	err   error // 非 nil 时所有查询返回该错误
	loads int   // 快照加载次数（按需求规则查询计）
}

func newMockRepository(store *mockStore) *repository.Repository {
	return &repository.Repository{
		Qualification:       &mockQualificationRepo{store},
		WorkerQualification: &mockWorkerQualificationRepo{store},
		Worker:              &mockWorkerRepo{store},
		Requirement:         &mockRequirementRepo{store},
		RosterAssignment:    &mockRosterAssignmentRepo{store},
		TeamShiftPlan:       &mockTeamShiftPlanRepo{store},
		DailyOverride:       &mockDailyOverrideRepo{store},
		Absence:             &mockAbsenceRepo{store},
		ShiftType:           &mockShiftTypeRepo{store},
	}
}

func validBetween(from time.Time, to *time.Time, rangeFrom, rangeTo time.Time) bool {
	return !from.After(rangeTo) && (to == nil || !to.Before(rangeFrom))
}

func between(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

// ── Mock QualificationRepository ──

type mockQualificationRepo struct{ s *mockStore }

func (m *mockQualificationRepo) List(_ context.Context) ([]model.Qualification, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.quals, m.s.err
}

// ── Mock WorkerQualificationRepository ──

type mockWorkerQualificationRepo struct{ s *mockStore }

func (m *mockWorkerQualificationRepo) ListValidBetween(_ context.Context, from, to time.Time) ([]model.WorkerQualification, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.WorkerQualification
	for _, g := range m.s.grants {
		if validBetween(g.ValidFrom, g.ValidTo, from, to) {
			out = append(out, g)
		}
	}
	return out, m.s.err
}

// ── Mock WorkerRepository ──

type mockWorkerRepo struct{ s *mockStore }

func (m *mockWorkerRepo) ListByIDs(_ context.Context, ids []string) ([]model.Worker, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Worker
	for _, w := range m.s.workers {
		if want[w.WorkerID] {
			out = append(out, w)
		}
	}
	return out, m.s.err
}

// ── Mock RequirementRepository ──

type mockRequirementRepo struct{ s *mockStore }

func (m *mockRequirementRepo) ListValidBetween(_ context.Context, from, to time.Time) ([]model.StaffingRequirement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.loads++
	var out []model.StaffingRequirement
	for _, r := range m.s.reqs {
		if (r.ValidFrom == nil || !r.ValidFrom.After(to)) && (r.ValidTo == nil || !r.ValidTo.Before(from)) {
			out = append(out, r)
		}
	}
	return out, m.s.err
}

// ── Mock RosterAssignmentRepository ──

type mockRosterAssignmentRepo struct{ s *mockStore }

func (m *mockRosterAssignmentRepo) ListValidBetween(_ context.Context, from, to time.Time) ([]model.RosterAssignment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.RosterAssignment
	for _, a := range m.s.memberships {
		if validBetween(a.ValidFrom, a.ValidTo, from, to) {
			out = append(out, a)
		}
	}
	return out, m.s.err
}

// ── Mock TeamShiftPlanRepository ──

type mockTeamShiftPlanRepo struct{ s *mockStore }

func (m *mockTeamShiftPlanRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.TeamShiftPlan, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.TeamShiftPlan
	for _, p := range m.s.plans {
		if between(p.PlanDate, from, to) {
			out = append(out, p)
		}
	}
	return out, m.s.err
}

// ── Mock DailyOverrideRepository ──

type mockDailyOverrideRepo struct{ s *mockStore }

func (m *mockDailyOverrideRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.DailyOverride, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.DailyOverride
	for _, o := range m.s.overrides {
		if between(o.OverrideDate, from, to) {
			out = append(out, o)
		}
	}
	return out, m.s.err
}

// ── Mock AbsenceRepository ──

type mockAbsenceRepo struct{ s *mockStore }

func (m *mockAbsenceRepo) ListOverlapping(_ context.Context, from, to time.Time) ([]model.Absence, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Absence
	for _, a := range m.s.absences {
		if !a.StartDate.After(to) && !a.EndDate.Before(from) {
			out = append(out, a)
		}
	}
	return out, m.s.err
}

// ── Mock ShiftTypeRepository ──

type mockShiftTypeRepo struct{ s *mockStore }

func (m *mockShiftTypeRepo) List(_ context.Context) ([]model.ShiftType, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.shiftTypes, m.s.err
}

// ── Mock CellCache ──

type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	gets    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) GetCells(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	hits := make(map[string][]byte)
	for _, k := range keys {
		if b, ok := m.entries[k]; ok {
			hits[k] = b
		}
	}
	return hits, nil
}

func (m *mockCache) SetCells(_ context.Context, cells map[string][]byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	for k, v := range cells {
		m.entries[k] = v
	}
	return nil
}
