package coverage

import "time"

// ── 测试夹具 ──

func day(s string) time.Time {
	t, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

var testWindows = []ShiftWindowDef{
	{Code: "F", Start: "05:00", End: "13:00"},
	{Code: "S", Start: "13:00", End: "21:00"},
	{Code: "N", Start: "21:00", End: "05:00"},
}

var testQuals = []Qualification{
	{ID: "q-x", Code: "X", Name: "Schichtführer", Relevant: true, Priority: 1, Active: true},
	{ID: "q-y", Code: "Y", Name: "Anlagenfahrer", Relevant: true, Priority: 2, Active: true},
	{ID: "q-z", Code: "Z", Name: "Ersthelfer", Relevant: false, Priority: 5, Active: true},
	{ID: "q-old", Code: "OLD", Name: "Alt", Relevant: true, Priority: 3, Active: false},
}

// snapshotBuilder 以链式方式组装快照
type snapshotBuilder struct {
	snap Snapshot
}

func newSnapshot() *snapshotBuilder {
	return &snapshotBuilder{snap: Snapshot{
		Qualifications: testQuals,
		Windows:        testWindows,
	}}
}

// worker 加入班组并授予长期有效资质
func (b *snapshotBuilder) worker(id, team string, rank int, quals ...string) *snapshotBuilder {
	b.snap.Memberships = append(b.snap.Memberships, Membership{
		WorkerID: id, Team: team, Rank: rank, From: day("2025-01-01"),
	})
	for _, q := range quals {
		b.snap.Grants = append(b.snap.Grants, Grant{WorkerID: id, QualificationID: q, From: day("2024-01-01")})
	}
	return b
}

func (b *snapshotBuilder) plan(team, date, code string) *snapshotBuilder {
	b.snap.Plans = append(b.snap.Plans, TeamPlan{Team: team, Date: day(date), ShiftCode: code})
	return b
}

func (b *snapshotBuilder) rule(r Rule) *snapshotBuilder {
	if r.Mode == "" {
		r.Mode = ModeBaseline
	}
	b.snap.Rules = append(b.snap.Rules, r)
	return b
}

func (b *snapshotBuilder) override(o Override) *snapshotBuilder {
	b.snap.Overrides = append(b.snap.Overrides, o)
	return b
}

func (b *snapshotBuilder) absence(workerID, from, to string) *snapshotBuilder {
	b.snap.Absences = append(b.snap.Absences, Absence{WorkerID: workerID, From: day(from), To: day(to)})
	return b
}

func (b *snapshotBuilder) build() Snapshot { return b.snap }

func (b *snapshotBuilder) analyzer() *Analyzer { return NewAnalyzer(b.snap) }

func qualMap() map[string]Qualification {
	m := make(map[string]Qualification, len(testQuals))
	for _, q := range testQuals {
		m[q.ID] = q
	}
	return m
}
