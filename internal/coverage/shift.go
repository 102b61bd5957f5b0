package coverage

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay 一天的分钟数，跨午夜班次的结束时间按此值顺延
const MinutesPerDay = 1440

// ── 班次 ──

// Shift 班次，早 < 中 < 夜 构成全序
type Shift int

const (
	ShiftEarly Shift = iota + 1 // F 早班
	ShiftLate                   // S 中班
	ShiftNight                  // N 夜班
)

// AllShifts 按顺序排列的全部班次
var AllShifts = []Shift{ShiftEarly, ShiftLate, ShiftNight}

// Code 班次代码（Kürzel）
func (s Shift) Code() string {
	switch s {
	case ShiftEarly:
		return "F"
	case ShiftLate:
		return "S"
	case ShiftNight:
		return "N"
	default:
		return ""
	}
}

func (s Shift) String() string { return s.Code() }

// Valid 是否为已知班次
func (s Shift) Valid() bool {
	return s >= ShiftEarly && s <= ShiftNight
}

// ParseShift 解析班次代码，大小写不敏感
func ParseShift(code string) (Shift, bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "F":
		return ShiftEarly, true
	case "S":
		return ShiftLate, true
	case "N":
		return ShiftNight, true
	default:
		return 0, false
	}
}

// ── 时间窗口 ──

// Window 以"当日零点起的分钟数"表示的半开区间 [Start, End)。
// End 可以超过 1440（跨午夜）。
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewWindow 构造窗口；end < start 视为跨午夜，end += 1440
func NewWindow(start, end int) Window {
	if end < start {
		end += MinutesPerDay
	}
	return Window{Start: start, End: end}
}

// Duration 窗口时长（分钟）
func (w Window) Duration() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// Empty 是否为空区间
func (w Window) Empty() bool { return w.End <= w.Start }

// Contains 判断分钟点 m 是否落在 [Start, End) 内
func (w Window) Contains(m int) bool {
	return m >= w.Start && m < w.End
}

// Clip 求 iv 与 w 的交集，两者须已处于同一日历坐标
func (w Window) Clip(iv Window) (Window, bool) {
	s := max(w.Start, iv.Start)
	e := min(w.End, iv.End)
	if e <= s {
		return Window{}, false
	}
	return Window{Start: s, End: e}, true
}

// CrossesMidnight 窗口是否跨午夜
func (w Window) CrossesMidnight() bool { return w.End > MinutesPerDay }

// Anchor 把只有钟点的本班次打卡区间放到 w 的日历坐标上。
// 仅当 w 跨午夜且打卡区间整体落在午夜之后（开始早于 w 的次日结束点）时后移一天。
func (w Window) Anchor(iv Window) Window {
	if w.CrossesMidnight() && iv.End <= MinutesPerDay && iv.Start < w.End-MinutesPerDay {
		return Window{Start: iv.Start + MinutesPerDay, End: iv.End + MinutesPerDay}
	}
	return iv
}

func (w Window) String() string {
	return FormatClock(w.Start) + "-" + FormatClock(w.End)
}

// ParseClock 解析 "HH:MM" 或 "HH:MM:SS"（PostgreSQL time 类型）为分钟数
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("无效的时间格式 %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("无效的小时 %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("无效的分钟 %q", s)
	}
	if h == 24 && m != 0 {
		return 0, fmt.Errorf("无效的时间 %q", s)
	}
	return h*60 + m, nil
}

// FormatClock 分钟数格式化为 HH:MM，超过 1440 回绕
func FormatClock(minute int) string {
	m := ((minute % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ── 班次时间目录 ──

// ShiftWindowDef 班次时间配置（原始输入）
type ShiftWindowDef struct {
	Code  string `json:"code"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Catalog 班次代码 → 标准时间窗口
type Catalog struct {
	windows map[Shift]Window
}

// NewCatalog 构建班次目录。无法解析的配置记为 MissingCatalogEntry 并跳过。
func NewCatalog(defs []ShiftWindowDef) (*Catalog, []Warning) {
	c := &Catalog{windows: make(map[Shift]Window, len(defs))}
	var warnings []Warning

	for _, d := range defs {
		shift, ok := ParseShift(d.Code)
		if !ok {
			// 非早中夜的班次类型（如休假代码）不参与覆盖分析
			continue
		}
		start, err := ParseClock(d.Start)
		if err != nil {
			warnings = append(warnings, newWarning(WarnMissingCatalogEntry, "班次 %s 开始时间无效: %v", d.Code, err))
			continue
		}
		end, err := ParseClock(d.End)
		if err != nil {
			warnings = append(warnings, newWarning(WarnMissingCatalogEntry, "班次 %s 结束时间无效: %v", d.Code, err))
			continue
		}
		w := NewWindow(start, end)
		if w.Empty() {
			warnings = append(warnings, newWarning(WarnMissingCatalogEntry, "班次 %s 时长为 0", d.Code))
			continue
		}
		c.windows[shift] = w
	}
	return c, warnings
}

// ResolveWindow 查询班次标准时间窗口
func (c *Catalog) ResolveWindow(shift Shift) (Window, bool) {
	if c == nil {
		return Window{}, false
	}
	w, ok := c.windows[shift]
	return w, ok
}
