package coverage

import "sort"

// Status 单元格覆盖状态
type Status string

const (
	StatusNone         Status = "none"    // 当日当班次无需求
	StatusDeficit      Status = "deficit" // 有需求未满足
	StatusExact        Status = "exact"
	StatusSurplus1     Status = "surplus_1"
	StatusSurplus2Plus Status = "surplus_2_plus"
)

// UnassignedWorker 未被分配到任何需求名额的在岗员工
type UnassignedWorker struct {
	WorkerID string   `json:"worker_id"`
	Quals    []string `json:"quals"` // 全部有效资质代码
}

// DutyInterval 在岗人员及其有效区间（用于明细提示）
type DutyInterval struct {
	WorkerID string `json:"worker_id"`
	Team     string `json:"team,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Adjusted bool   `json:"adjusted"`
	Helper   bool   `json:"helper"`
}

// CoverageResult 某日某班次的覆盖结果（派生数据，不持久化）
type CoverageResult struct {
	Date              string              `json:"date"`
	Shift             string              `json:"shift"`
	Status            Status              `json:"status"`
	TimeIssue         bool                `json:"time_issue"`
	OverrideMode      bool                `json:"override_mode"`
	Required          int                 `json:"required"`
	Headcount         int                 `json:"headcount"`
	Surplus           int                 `json:"surplus"`
	MissingTotal      int                 `json:"missing_total"`
	MissingQualCodes  []string            `json:"missing_qual_codes"`
	TopMissingCode    string              `json:"top_missing_code,omitempty"`
	SecondaryShortage []string            `json:"secondary_shortage"`
	TimeIssues        []TimeIssue         `json:"time_issues"`
	AssignmentsByQual map[string][]string `json:"assignments_by_qual"`
	Unassigned        []UnassignedWorker  `json:"unassigned_workers"`
	OnDuty            []DutyInterval      `json:"on_duty"`
	Warnings          []Warning           `json:"warnings"`
}

func newResult(date, shift string) CoverageResult {
	return CoverageResult{
		Date:              date,
		Shift:             shift,
		Status:            StatusNone,
		MissingQualCodes:  make([]string, 0),
		SecondaryShortage: make([]string, 0),
		TimeIssues:        make([]TimeIssue, 0),
		AssignmentsByQual: make(map[string][]string),
		Unassigned:        make([]UnassignedWorker, 0),
		OnDuty:            make([]DutyInterval, 0),
		Warnings:          make([]Warning, 0),
	}
}

// classify 整窗匹配结果 + 富余人数 → 状态
func classify(whole MatchResult, surplus int) Status {
	switch {
	case whole.MissingTotal > 0:
		return StatusDeficit
	case whole.Required == 0:
		// 需求为 0（如覆盖规则人数为 0）时视为恰好满足
		return StatusExact
	case surplus >= 2:
		return StatusSurplus2Plus
	case surplus == 1:
		return StatusSurplus1
	default:
		return StatusExact
	}
}

// aggregate 合并整窗与分段结果
func aggregate(res *CoverageResult, whole MatchResult, seg segmentOutcome) {
	surplus := whole.Qualified - whole.Required
	if seg.ran {
		surplus = seg.maxSurplus
	}

	res.Status = classify(whole, surplus)
	res.Required = whole.Required
	res.Headcount = whole.Qualified
	res.Surplus = max(surplus, 0)
	res.MissingTotal = whole.MissingTotal
	res.MissingQualCodes = whole.MissingCodes()
	res.TopMissingCode = whole.TopMissingCode

	if seg.ran {
		res.TimeIssues = seg.issues
	}
	// 分段缺员但整窗满足：单独标记为时间问题，不并入 Deficit
	res.TimeIssue = res.Status != StatusDeficit && len(res.TimeIssues) > 0

	for qualID, workers := range whole.Assignments {
		res.AssignmentsByQual[qualID] = append([]string(nil), workers...)
	}
}

// SortResults 按日期、班次顺序排序
func SortResults(results []CoverageResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date < results[j].Date
		}
		si, _ := ParseShift(results[i].Shift)
		sj, _ := ParseShift(results[j].Shift)
		return si < sj
	})
}
