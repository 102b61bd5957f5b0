package coverage

import "sort"

// Candidate 参与匹配的在岗员工及其当日有效资质（含非运营相关资质）
type Candidate struct {
	WorkerID string
	Quals    []string
}

func (c Candidate) holds(qualID string) bool {
	for _, q := range c.Quals {
		if q == qualID {
			return true
		}
	}
	return false
}

// Shortage 单项需求缺口
type Shortage struct {
	QualificationID string `json:"qualification_id"`
	Code            string `json:"code"`
	Required        int    `json:"required"`
	Assigned        int    `json:"assigned"`
	Missing         int    `json:"missing"`
}

// MatchResult 一次贪心匹配的结果
type MatchResult struct {
	Assignments    map[string][]string // qualID → workerIDs
	Shortages      []Shortage          // 按需求顺序
	MissingTotal   int
	TopMissingCode string
	Unassigned     []Candidate
	Required       int // 需求总人数
	Qualified      int // 持有至少一项运营相关资质的人数
}

// ── 员工池 ──

type rankedWorker struct {
	Candidate
	relevantCount int
	prioritySum   int
	order         int
}

// pool 剩余可用员工，按排名升序。每次取人都返回新的 pool，不修改原切片。
type pool []rankedWorker

// take 为需求 req 依次取出持有该资质的员工，直到满足人数或无人可取
func (p pool) take(req Requirement) (pool, []string) {
	if req.Count <= 0 {
		return p, nil
	}
	rest := make(pool, 0, len(p))
	var taken []string
	for _, w := range p {
		if len(taken) < req.Count && w.holds(req.QualificationID) {
			taken = append(taken, w.WorkerID)
			continue
		}
		rest = append(rest, w)
	}
	return rest, taken
}

// rankWorkers 按 (运营相关资质数, 资质优先级之和) 升序排列：
// 资质少、价值低的员工先被消耗，多面手留给后面更难补的缺口。
func rankWorkers(workers []Candidate, quals map[string]Qualification) pool {
	p := make(pool, 0, len(workers))
	for i, w := range workers {
		rw := rankedWorker{Candidate: w, order: i}
		for _, id := range w.Quals {
			q, ok := quals[id]
			if !ok || !q.Relevant {
				continue
			}
			rw.relevantCount++
			rw.prioritySum += q.Priority
		}
		p = append(p, rw)
	}
	sort.SliceStable(p, func(i, j int) bool {
		if p[i].relevantCount != p[j].relevantCount {
			return p[i].relevantCount < p[j].relevantCount
		}
		if p[i].prioritySum != p[j].prioritySum {
			return p[i].prioritySum < p[j].prioritySum
		}
		return p[i].order < p[j].order
	})
	return p
}

// Match 贪心优先级匹配（非最大匹配）：需求按解析顺序逐项处理，
// 每项从排名后的员工池中取首个未使用且持有该资质的员工，每人最多占一个名额。
// 相同输入必得相同结果。
func Match(workers []Candidate, reqs []Requirement, quals map[string]Qualification) MatchResult {
	res := MatchResult{
		Assignments: make(map[string][]string),
		Shortages:   make([]Shortage, 0),
	}

	p := rankWorkers(workers, quals)
	res.Qualified = countQualified(p)

	for _, req := range reqs {
		var taken []string
		p, taken = p.take(req)
		res.Required += max(req.Count, 0)

		if len(taken) > 0 {
			res.Assignments[req.QualificationID] = append(res.Assignments[req.QualificationID], taken...)
		}
		if missing := req.Count - len(taken); missing > 0 {
			res.Shortages = append(res.Shortages, Shortage{
				QualificationID: req.QualificationID,
				Code:            req.Code,
				Required:        req.Count,
				Assigned:        len(taken),
				Missing:         missing,
			})
			res.MissingTotal += missing
			if res.TopMissingCode == "" {
				res.TopMissingCode = req.Code
			}
		}
	}

	// 池中剩余即未分配人员，按原始顺序输出
	sort.SliceStable(p, func(i, j int) bool { return p[i].order < p[j].order })
	res.Unassigned = make([]Candidate, 0, len(p))
	for _, w := range p {
		res.Unassigned = append(res.Unassigned, w.Candidate)
	}
	return res
}

func countQualified(p pool) int {
	n := 0
	for _, w := range p {
		if w.relevantCount > 0 {
			n++
		}
	}
	return n
}

// MissingCodes 缺口资质代码，按需求顺序
func (m MatchResult) MissingCodes() []string {
	codes := make([]string, 0, len(m.Shortages))
	for _, s := range m.Shortages {
		codes = append(codes, s.Code)
	}
	return codes
}

// SecondaryShortage 非运营相关资质的缺口标记：
// 直接比较在岗持证人数与需求人数，不消耗员工。
func SecondaryShortage(workers []Candidate, reqs []Requirement) []string {
	codes := make([]string, 0)
	for _, req := range reqs {
		holders := 0
		for _, w := range workers {
			if w.holds(req.QualificationID) {
				holders++
			}
		}
		if holders < req.Count {
			codes = append(codes, req.Code)
		}
	}
	return codes
}
