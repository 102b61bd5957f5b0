package coverage

import "sort"

// Slice 班次窗口内成员恒定的一段子区间 [From, To)
type Slice struct {
	From   int
	To     int
	Active []int // 在岗人员在 workers 中的下标
}

// TimeIssue 子区间缺员说明（HH:MM）
type TimeIssue struct {
	From         string `json:"from"`
	To           string `json:"to"`
	MissingTotal int    `json:"missing_total"`
	MissingCode  string `json:"missing_code"`
}

// Segment 将班次窗口按所有人员区间端点切分为成员恒定的子区间。
// 子区间首尾相接，恰好覆盖 [window.Start, window.End)。
// 每段的在岗集合按中点判定，无精确区间的员工视为全程在岗。
func Segment(window Window, workers []OnDuty) []Slice {
	if window.Empty() {
		return nil
	}

	marks := []int{window.Start, window.End}
	for _, w := range workers {
		if w.Interval == nil {
			continue
		}
		for _, m := range []int{w.Interval.Start, w.Interval.End} {
			if m > window.Start && m < window.End {
				marks = append(marks, m)
			}
		}
	}
	sort.Ints(marks)
	marks = dedupe(marks)

	slices := make([]Slice, 0, len(marks)-1)
	for i := 0; i+1 < len(marks); i++ {
		from, to := marks[i], marks[i+1]
		// 整数中点落在 [from, to) 内，端点均为整分钟
		mid := from + (to-from)/2
		sl := Slice{From: from, To: to}
		for idx, w := range workers {
			if w.activeAt(mid) {
				sl.Active = append(sl.Active, idx)
			}
		}
		slices = append(slices, sl)
	}
	return slices
}

func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// needsSegmentation 是否有人的在岗区间偏离标准窗口
func needsSegmentation(workers []OnDuty) bool {
	for _, w := range workers {
		if w.Adjusted && w.Interval != nil {
			return true
		}
	}
	return false
}

// segmentOutcome 分段分析结果
type segmentOutcome struct {
	issues     []TimeIssue
	maxSurplus int
	ran        bool
}

// analyzeSegments 对每个子区间重新执行匹配，收集缺员段并求最大富余
func analyzeSegments(window Window, duty []OnDuty, candidates []Candidate, reqs []Requirement, quals map[string]Qualification) segmentOutcome {
	out := segmentOutcome{issues: make([]TimeIssue, 0)}
	slices := Segment(window, duty)
	if len(slices) == 0 {
		return out
	}
	out.ran = true

	type shortSlice struct {
		from, to     int
		missingTotal int
		missingCode  string
	}
	var shorts []shortSlice

	for i, sl := range slices {
		active := make([]Candidate, 0, len(sl.Active))
		for _, idx := range sl.Active {
			active = append(active, candidates[idx])
		}
		m := Match(active, reqs, quals)

		surplus := m.Qualified - m.Required
		if i == 0 || surplus > out.maxSurplus {
			out.maxSurplus = surplus
		}
		if m.MissingTotal == 0 {
			continue
		}

		// 相邻且缺口相同的子区间合并
		if n := len(shorts); n > 0 && shorts[n-1].to == sl.From &&
			shorts[n-1].missingTotal == m.MissingTotal && shorts[n-1].missingCode == m.TopMissingCode {
			shorts[n-1].to = sl.To
			continue
		}
		shorts = append(shorts, shortSlice{from: sl.From, to: sl.To, missingTotal: m.MissingTotal, missingCode: m.TopMissingCode})
	}

	for _, s := range shorts {
		out.issues = append(out.issues, TimeIssue{
			From:         FormatClock(s.from),
			To:           FormatClock(s.to),
			MissingTotal: s.missingTotal,
			MissingCode:  s.missingCode,
		})
	}
	return out
}
