package coverage

import (
	"fmt"
	"time"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// ── 输入快照 ──
// 一次分析所需的全部数据在分析开始前一次性读取，引擎只做纯计算。

// Mode 需求规则模式
type Mode string

const (
	ModeBaseline Mode = "baseline" // Normalbetrieb 常规运营
	ModeOverride Mode = "override" // 特殊日期覆盖，完全替换常规需求
)

// Qualification 资质矩阵条目
type Qualification struct {
	ID       string
	Code     string
	Name     string
	Relevant bool // betriebsrelevant：是否计入人头覆盖
	Priority int  // 越小越先匹配
	Active   bool
}

// Grant 员工持有的资质及有效期（To 为空表示长期有效）
type Grant struct {
	WorkerID        string
	QualificationID string
	From            time.Time
	To              *time.Time
}

// Rule 人员需求规则（Bedarf）
type Rule struct {
	ID              string
	QualificationID string
	Count           int
	From            *time.Time
	To              *time.Time
	Mode            Mode
	StartShift      Shift // 首日起始班次，0 表示不限
	EndShift        Shift // 末日结束班次，0 表示不限
	Shift           Shift // 指定班次，0 表示不限
	WeekPattern     string
}

// Membership 员工所属班组（Schichtgruppe）及有效期
type Membership struct {
	WorkerID string
	Team     string
	Rank     int
	From     time.Time
	To       *time.Time
}

// TeamPlan 班组基础排班：某班组某日上哪个班
type TeamPlan struct {
	Team      string
	Date      time.Time
	ShiftCode string
}

// Override 员工当日调整（实际班次与打卡时间）
type Override struct {
	WorkerID    string
	Date        time.Time
	ShiftCode   string
	ActualStart string // HH:MM，可为空
	ActualEnd   string
	Changed     bool // 与计划不同时为 true
}

// Absence 请假/排除时段（置灰）
type Absence struct {
	WorkerID string
	From     time.Time
	To       time.Time
}

// Snapshot 一个分析区间的不可变输入
type Snapshot struct {
	Qualifications []Qualification
	Grants         []Grant
	Rules          []Rule
	Memberships    []Membership
	Plans          []TeamPlan
	Overrides      []Override
	Absences       []Absence
	Windows        []ShiftWindowDef
}

// ── 告警 ──

// WarningKind 可恢复的数据异常类型
type WarningKind string

const (
	WarnMissingCatalogEntry  WarningKind = "missing_catalog_entry"
	WarnInconsistentOverride WarningKind = "inconsistent_override"
	WarnEmptyInputs          WarningKind = "empty_inputs"
)

// Warning 单元格级别的降级说明，不会中断计算
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Detail string      `json:"detail"`
}

func newWarning(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// ── 日期辅助 ──

// Day 截断为 UTC 日期
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay 解析 YYYY-MM-DD
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func sameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// inRange 闭区间判断，nil 边界视为无界
func inRange(d time.Time, from, to *time.Time) bool {
	d = Day(d)
	if from != nil && d.Before(Day(*from)) {
		return false
	}
	if to != nil && d.After(Day(*to)) {
		return false
	}
	return true
}

func dayKey(t time.Time) string {
	return Day(t).Format(DateLayout)
}
