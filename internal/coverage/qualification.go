package coverage

import (
	"sort"
	"time"
)

// QualificationIndex 员工资质索引：按参考日期返回有效资质
type QualificationIndex struct {
	quals  map[string]Qualification
	grants map[string][]Grant // workerID → grants
}

// NewQualificationIndex 构建资质索引
func NewQualificationIndex(quals []Qualification, grants []Grant) *QualificationIndex {
	x := &QualificationIndex{
		quals:  make(map[string]Qualification, len(quals)),
		grants: make(map[string][]Grant),
	}
	for _, q := range quals {
		x.quals[q.ID] = q
	}
	for _, g := range grants {
		x.grants[g.WorkerID] = append(x.grants[g.WorkerID], g)
	}
	return x
}

// Lookup 查询资质矩阵条目
func (x *QualificationIndex) Lookup(id string) (Qualification, bool) {
	q, ok := x.quals[id]
	return q, ok
}

// Matrix 资质矩阵（只读）
func (x *QualificationIndex) Matrix() map[string]Qualification {
	return x.quals
}

// ValidQualifications 返回 workerID 在 date 有效的资质 ID。
// 有效期为闭区间，To 为空表示长期有效；仅返回矩阵中启用的资质。
// 结果按优先级、代码排序，保证下游匹配可复现。
func (x *QualificationIndex) ValidQualifications(workerID string, date time.Time) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, g := range x.grants[workerID] {
		if seen[g.QualificationID] {
			continue
		}
		from := g.From
		if !inRange(date, &from, g.To) {
			continue
		}
		q, ok := x.quals[g.QualificationID]
		if !ok || !q.Active {
			continue
		}
		seen[g.QualificationID] = true
		ids = append(ids, g.QualificationID)
	}
	sort.Slice(ids, func(i, j int) bool {
		qi, qj := x.quals[ids[i]], x.quals[ids[j]]
		if qi.Priority != qj.Priority {
			return qi.Priority < qj.Priority
		}
		if qi.Code != qj.Code {
			return qi.Code < qj.Code
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Codes 资质 ID 转代码，未知 ID 原样返回
func (x *QualificationIndex) Codes(ids []string) []string {
	codes := make([]string, 0, len(ids))
	for _, id := range ids {
		if q, ok := x.quals[id]; ok {
			codes = append(codes, q.Code)
		} else {
			codes = append(codes, id)
		}
	}
	return codes
}
