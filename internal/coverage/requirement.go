package coverage

import (
	"sort"
	"strings"
	"time"
)

// UnrankedPriority 资质矩阵缺失时的兜底优先级（最低）
const UnrankedPriority = 999

// Requirement 解析后的单项需求（同一资质的多条规则已合并）
type Requirement struct {
	QualificationID string `json:"qualification_id"`
	Code            string `json:"code"`
	Priority        int    `json:"priority"`
	Count           int    `json:"count"`
	Relevant        bool   `json:"relevant"`
	Source          Mode   `json:"source"`
}

// Resolution 某日某班次的需求解析结果
type Resolution struct {
	Relevant  []Requirement // 计入人头覆盖，按优先级排序
	Secondary []Requirement // 非运营相关资质，仅做缺口标记
	Override  bool          // 当日处于覆盖模式
	Warnings  []Warning
}

// Empty 当日当班次无任何需求
func (r Resolution) Empty() bool {
	return len(r.Relevant) == 0 && len(r.Secondary) == 0
}

// TotalRequired 运营相关需求总人数
func (r Resolution) TotalRequired() int {
	n := 0
	for _, req := range r.Relevant {
		n += req.Count
	}
	return n
}

// ── 周模式 ──

// shiftSet 班次位集合
type shiftSet uint8

const allShiftsSet shiftSet = 1<<ShiftEarly | 1<<ShiftLate | 1<<ShiftNight

func (s shiftSet) has(shift Shift) bool { return s&(1<<shift) != 0 }

func weekdays(set shiftSet, days ...time.Weekday) map[time.Weekday]shiftSet {
	m := make(map[time.Weekday]shiftSet, len(days))
	for _, d := range days {
		m[d] = set
	}
	return m
}

var (
	monToFri = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	allWeek  = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
)

// weekPatterns 周模式标签 → 允许的 星期 × 班次 组合
var weekPatterns = map[string]map[time.Weekday]shiftSet{
	"MO-SO": weekdays(allShiftsSet, allWeek...),
	"MO-FR": weekdays(allShiftsSet, monToFri...),
	"MO-SA": weekdays(allShiftsSet, append(monToFri, time.Saturday)...),
	"MO-SA-SA-F": func() map[time.Weekday]shiftSet {
		m := weekdays(allShiftsSet, monToFri...)
		m[time.Saturday] = 1 << ShiftEarly
		return m
	}(),
	"MO-FR-SA-FS": func() map[time.Weekday]shiftSet {
		m := weekdays(allShiftsSet, monToFri...)
		m[time.Saturday] = 1<<ShiftEarly | 1<<ShiftLate
		return m
	}(),
	"SA-SO": weekdays(allShiftsSet, time.Saturday, time.Sunday),
}

func normalizePattern(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	return strings.NewReplacer("_", "-", "–", "-", " ", "").Replace(tag)
}

// patternAllows 判断周模式是否允许该日该班次；未知标签返回 known=false
func patternAllows(tag string, day time.Weekday, shift Shift) (allowed, known bool) {
	tag = normalizePattern(tag)
	if tag == "" {
		return true, true
	}
	p, ok := weekPatterns[tag]
	if !ok {
		return false, false
	}
	return p[day].has(shift), true
}

// KnownWeekPattern 周模式标签是否受支持
func KnownWeekPattern(tag string) bool {
	_, known := patternAllows(tag, time.Monday, ShiftEarly)
	return known
}

// ── 需求解析器 ──

// RequirementResolver 按日期与班次解析适用的需求规则
type RequirementResolver struct {
	rules []Rule
	quals map[string]Qualification
}

// NewRequirementResolver 创建需求解析器
func NewRequirementResolver(rules []Rule, quals map[string]Qualification) *RequirementResolver {
	return &RequirementResolver{rules: rules, quals: quals}
}

// appliesToShift 指定班次与首末日班次范围检查
func (r Rule) appliesToShift(d time.Time, shift Shift) bool {
	if r.Shift.Valid() && r.Shift != shift {
		return false
	}
	if r.StartShift.Valid() && r.From != nil && sameDay(d, *r.From) && shift < r.StartShift {
		return false
	}
	if r.EndShift.Valid() && r.To != nil && sameDay(d, *r.To) && shift > r.EndShift {
		return false
	}
	return true
}

// Resolve 返回 date/shift 适用的需求。
// 只要当日有任一覆盖规则生效，当日所有常规规则一律作废，不做合并。
func (x *RequirementResolver) Resolve(date time.Time, shift Shift) Resolution {
	d := Day(date)
	var res Resolution

	var baseline, override []Rule
	for _, r := range x.rules {
		if !inRange(d, r.From, r.To) {
			continue
		}
		switch r.Mode {
		case ModeOverride:
			override = append(override, r)
		case ModeBaseline, "":
			baseline = append(baseline, r)
		default:
			res.Warnings = append(res.Warnings, newWarning(WarnMissingCatalogEntry, "需求规则 %s 模式未知: %s", r.ID, r.Mode))
		}
	}

	for _, r := range override {
		for _, s := range AllShifts {
			if r.appliesToShift(d, s) {
				res.Override = true
				break
			}
		}
		if res.Override {
			break
		}
	}

	var picked []Rule
	if res.Override {
		for _, r := range override {
			if r.appliesToShift(d, shift) {
				picked = append(picked, r)
			}
		}
	} else {
		for _, r := range baseline {
			allowed, known := patternAllows(r.WeekPattern, d.Weekday(), shift)
			if !known {
				res.Warnings = append(res.Warnings, newWarning(WarnMissingCatalogEntry, "需求规则 %s 周模式未知: %s", r.ID, r.WeekPattern))
				continue
			}
			if !allowed || !r.appliesToShift(d, shift) {
				continue
			}
			picked = append(picked, r)
		}
	}

	merged := make(map[string]*Requirement)
	order := make([]string, 0, len(picked))
	for _, r := range picked {
		if req, ok := merged[r.QualificationID]; ok {
			req.Count += r.Count
			continue
		}
		req := &Requirement{
			QualificationID: r.QualificationID,
			Count:           r.Count,
			Source:          r.Mode,
		}
		if req.Source == "" {
			req.Source = ModeBaseline
		}
		q, ok := x.quals[r.QualificationID]
		switch {
		case !ok:
			req.Code = r.QualificationID
			req.Priority = UnrankedPriority
			req.Relevant = true
			res.Warnings = append(res.Warnings, newWarning(WarnMissingCatalogEntry, "资质 %s 不在资质矩阵中", r.QualificationID))
		case !q.Active:
			// 已停用的资质不再参与覆盖判断
			continue
		default:
			req.Code = q.Code
			req.Priority = q.Priority
			req.Relevant = q.Relevant
		}
		merged[r.QualificationID] = req
		order = append(order, r.QualificationID)
	}

	for _, id := range order {
		req := *merged[id]
		if req.Relevant {
			res.Relevant = append(res.Relevant, req)
		} else {
			res.Secondary = append(res.Secondary, req)
		}
	}
	sortRequirements(res.Relevant)
	sortRequirements(res.Secondary)
	return res
}

// sortRequirements 优先级升序，相同则按资质代码、ID
func sortRequirements(reqs []Requirement) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].Priority != reqs[j].Priority {
			return reqs[i].Priority < reqs[j].Priority
		}
		if reqs[i].Code != reqs[j].Code {
			return reqs[i].Code < reqs[j].Code
		}
		return reqs[i].QualificationID < reqs[j].QualificationID
	})
}
