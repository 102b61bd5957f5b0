package coverage

import (
	"sort"
	"time"
)

// OnDuty 某班次在岗员工及其有效在岗区间
type OnDuty struct {
	WorkerID string  `json:"worker_id"`
	Team     string  `json:"team,omitempty"`
	Rank     int     `json:"rank"`
	Interval *Window `json:"interval,omitempty"` // nil：班次无时间配置，按全程在岗计
	Adjusted bool    `json:"adjusted"`           // 实际时间已调整或为支援人员
	Helper   bool    `json:"helper"`             // 本属其他班次，因打卡时间重叠而计入
}

// activeAt 分钟点 m 是否在岗；无精确区间的员工视为全程在岗
func (o OnDuty) activeAt(m int) bool {
	return o.Interval == nil || o.Interval.Contains(m)
}

// RosterResolver 根据班组排班、当日调整和请假，求出某班次在岗人员
type RosterResolver struct {
	catalog     *Catalog
	memberships map[string][]Membership // workerID → 按 From 倒序
	plans       map[string]string       // team|date → shift code
	overrides   map[string]Override     // workerID|date → override
	absences    map[string][]Absence
	workers     []string
}

// NewRosterResolver 构建排班解析器，所有索引一次性建立
func NewRosterResolver(catalog *Catalog, memberships []Membership, plans []TeamPlan, overrides []Override, absences []Absence) *RosterResolver {
	r := &RosterResolver{
		catalog:     catalog,
		memberships: make(map[string][]Membership),
		plans:       make(map[string]string, len(plans)),
		overrides:   make(map[string]Override, len(overrides)),
		absences:    make(map[string][]Absence),
	}

	seen := make(map[string]bool)
	addWorker := func(id string) {
		if !seen[id] {
			seen[id] = true
			r.workers = append(r.workers, id)
		}
	}

	for _, m := range memberships {
		r.memberships[m.WorkerID] = append(r.memberships[m.WorkerID], m)
		addWorker(m.WorkerID)
	}
	for id := range r.memberships {
		ms := r.memberships[id]
		sort.SliceStable(ms, func(i, j int) bool { return ms[i].From.After(ms[j].From) })
	}
	for _, p := range plans {
		r.plans[planKey(p.Team, p.Date)] = p.ShiftCode
	}
	for _, o := range overrides {
		r.overrides[workerDayKey(o.WorkerID, o.Date)] = o
		addWorker(o.WorkerID)
	}
	for _, a := range absences {
		r.absences[a.WorkerID] = append(r.absences[a.WorkerID], a)
	}

	sort.Strings(r.workers)
	return r
}

func planKey(team string, d time.Time) string { return team + "|" + dayKey(d) }

func workerDayKey(workerID string, d time.Time) string { return workerID + "|" + dayKey(d) }

// membershipOn 当日生效的最新班组分配
func (r *RosterResolver) membershipOn(workerID string, d time.Time) (Membership, bool) {
	for _, m := range r.memberships[workerID] {
		from := m.From
		if inRange(d, &from, m.To) {
			return m, true
		}
	}
	return Membership{}, false
}

func (r *RosterResolver) absentOn(workerID string, d time.Time) bool {
	for _, a := range r.absences[workerID] {
		from, to := a.From, a.To
		if inRange(d, &from, &to) {
			return true
		}
	}
	return false
}

// overrideInterval 调整记录的实际打卡区间
func overrideInterval(o Override) (Window, bool) {
	if o.ActualStart == "" || o.ActualEnd == "" {
		return Window{}, false
	}
	start, err := ParseClock(o.ActualStart)
	if err != nil {
		return Window{}, false
	}
	end, err := ParseClock(o.ActualEnd)
	if err != nil {
		return Window{}, false
	}
	w := NewWindow(start, end)
	return w, !w.Empty()
}

// Resolve 返回 date 当天 shift 班次的在岗人员，每人至多出现一次。
// 顺序：班组、组内排序、员工 ID。
func (r *RosterResolver) Resolve(date time.Time, shift Shift) ([]OnDuty, []Warning) {
	d := Day(date)
	win, hasWin := r.catalog.ResolveWindow(shift)
	var warnings []Warning
	var result []OnDuty

	for _, id := range r.workers {
		if r.absentOn(id, d) {
			continue
		}
		duty, ok, w := r.resolveWorker(id, d, shift, win, hasWin)
		if w != nil {
			warnings = append(warnings, *w)
		}
		if !ok && hasWin {
			duty, ok = r.spillover(id, d, win)
		}
		if ok {
			result = append(result, duty)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Team != result[j].Team {
			return result[i].Team < result[j].Team
		}
		if result[i].Rank != result[j].Rank {
			return result[i].Rank < result[j].Rank
		}
		return result[i].WorkerID < result[j].WorkerID
	})
	return result, warnings
}

// resolveWorker 按当日排班与调整判断员工是否在本班次
func (r *RosterResolver) resolveWorker(id string, d time.Time, shift Shift, win Window, hasWin bool) (OnDuty, bool, *Warning) {
	m, hasTeam := r.membershipOn(id, d)
	duty := OnDuty{WorkerID: id, Team: m.Team, Rank: m.Rank}
	ov, hasOv := r.overrides[workerDayKey(id, d)]

	if !hasOv {
		if !hasTeam {
			return duty, false, nil
		}
		planned, ok := ParseShift(r.plans[planKey(m.Team, d)])
		if !ok || planned != shift {
			return duty, false, nil
		}
		if hasWin {
			w := win
			duty.Interval = &w
		}
		return duty, true, nil
	}

	ovShift, known := ParseShift(ov.ShiftCode)
	if known && ovShift == shift {
		// 调整后的班次即本班次：changed 时取实际打卡时间，否则取标准窗口
		if !hasWin {
			if ov.Changed {
				w := newWarning(WarnInconsistentOverride,
					"员工 %s 调整到无时间配置的班次 %s，按全程在岗计", id, ov.ShiftCode)
				return duty, true, &w
			}
			return duty, true, nil
		}
		w := win
		if ov.Changed {
			duty.Adjusted = true
			if iv, ok := overrideInterval(ov); ok {
				clipped, nonEmpty := win.Clip(win.Anchor(iv))
				if !nonEmpty {
					return duty, false, nil
				}
				w = clipped
			}
		}
		duty.Interval = &w
		return duty, true, nil
	}

	// 其他班次的员工：实际打卡时间落在当日，与本班次窗口重叠时作为支援计入
	if !ov.Changed || !hasWin {
		return duty, false, nil
	}
	iv, ok := overrideInterval(ov)
	if !ok {
		return duty, false, nil
	}
	if known {
		if own, hasOwn := r.catalog.ResolveWindow(ovShift); hasOwn {
			iv = own.Anchor(iv)
		}
	}
	helper, ok := helperDuty(duty, win, iv)
	return helper, ok, nil
}

// spillover 前一日调整记录中越过午夜的部分，作为次日班次的支援计入
func (r *RosterResolver) spillover(id string, d time.Time, win Window) (OnDuty, bool) {
	prev := d.AddDate(0, 0, -1)
	ov, ok := r.overrides[workerDayKey(id, prev)]
	if !ok || !ov.Changed || r.absentOn(id, prev) {
		return OnDuty{}, false
	}
	iv, ok := overrideInterval(ov)
	if !ok {
		return OnDuty{}, false
	}
	if ovShift, valid := ParseShift(ov.ShiftCode); valid {
		if own, hasOwn := r.catalog.ResolveWindow(ovShift); hasOwn {
			iv = own.Anchor(iv)
		}
	}
	if iv.End <= MinutesPerDay {
		return OnDuty{}, false
	}
	m, _ := r.membershipOn(id, d)
	duty := OnDuty{WorkerID: id, Team: m.Team, Rank: m.Rank}
	return helperDuty(duty, win, Window{Start: iv.Start - MinutesPerDay, End: iv.End - MinutesPerDay})
}

func helperDuty(duty OnDuty, win, iv Window) (OnDuty, bool) {
	clipped, nonEmpty := win.Clip(iv)
	if !nonEmpty {
		return duty, false
	}
	duty.Interval = &clipped
	duty.Adjusted = true
	duty.Helper = true
	return duty, true
}
