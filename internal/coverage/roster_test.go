package coverage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoster(t *testing.T, snap Snapshot) *RosterResolver {
	t.Helper()
	catalog, warnings := NewCatalog(snap.Windows)
	require.Empty(t, warnings)
	return NewRosterResolver(catalog, snap.Memberships, snap.Plans, snap.Overrides, snap.Absences)
}

func dutyIDs(duty []OnDuty) []string {
	ids := make([]string, 0, len(duty))
	for _, d := range duty {
		ids = append(ids, d.WorkerID)
	}
	return ids
}

func TestRosterResolver_PlannedTeam(t *testing.T) {
	snap := newSnapshot().
		worker("w2", "A", 2).
		worker("w1", "A", 1).
		worker("w3", "B", 1).
		plan("A", "2025-03-10", "F").
		plan("B", "2025-03-10", "S").
		build()
	r := newTestRoster(t, snap)

	early, warnings := r.Resolve(day("2025-03-10"), ShiftEarly)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"w1", "w2"}, dutyIDs(early), "按组内排序输出")
	require.NotNil(t, early[0].Interval)
	assert.Equal(t, Window{Start: 300, End: 780}, *early[0].Interval)
	assert.False(t, early[0].Adjusted)

	late, _ := r.Resolve(day("2025-03-10"), ShiftLate)
	assert.Equal(t, []string{"w3"}, dutyIDs(late))

	night, _ := r.Resolve(day("2025-03-10"), ShiftNight)
	assert.Empty(t, night)

	other, _ := r.Resolve(day("2025-03-11"), ShiftEarly)
	assert.Empty(t, other, "无排班的日期无人在岗")
}

func TestRosterResolver_AbsenceExcludes(t *testing.T) {
	snap := newSnapshot().
		worker("w1", "A", 1).
		worker("w2", "A", 2).
		plan("A", "2025-03-10", "F").
		plan("A", "2025-03-12", "F").
		absence("w1", "2025-03-09", "2025-03-11").
		override(Override{WorkerID: "w2", Date: day("2025-03-10"), ShiftCode: "F"}).
		absence("w2", "2025-03-10", "2025-03-10").
		build()
	r := newTestRoster(t, snap)

	duty, _ := r.Resolve(day("2025-03-10"), ShiftEarly)
	assert.Empty(t, duty, "请假优先于排班与调整")

	duty, _ = r.Resolve(day("2025-03-12"), ShiftEarly)
	assert.Equal(t, []string{"w1", "w2"}, dutyIDs(duty))
}

func TestRosterResolver_LatestMembershipWins(t *testing.T) {
	to := day("2025-02-28")
	snap := newSnapshot().plan("A", "2025-03-10", "F").plan("B", "2025-03-10", "N").build()
	snap.Memberships = []Membership{
		{WorkerID: "w1", Team: "A", Rank: 1, From: day("2025-01-01")},
		{WorkerID: "w1", Team: "B", Rank: 1, From: day("2025-03-01")},
		{WorkerID: "w2", Team: "B", Rank: 1, From: day("2025-01-01"), To: &to},
	}
	r := newTestRoster(t, snap)

	early, _ := r.Resolve(day("2025-03-10"), ShiftEarly)
	assert.Empty(t, early)

	night, _ := r.Resolve(day("2025-03-10"), ShiftNight)
	require.Len(t, night, 1)
	assert.Equal(t, "w1", night[0].WorkerID)
	assert.Equal(t, "B", night[0].Team)
}

func TestRosterResolver_ChangedOverrideIsClipped(t *testing.T) {
	snap := newSnapshot().
		worker("w1", "A", 1).
		plan("A", "2025-03-10", "F").
		override(Override{WorkerID: "w1", Date: day("2025-03-10"), ShiftCode: "S",
			ActualStart: "13:00", ActualEnd: "19:00", Changed: true}).
		build()
	r := newTestRoster(t, snap)

	early, _ := r.Resolve(day("2025-03-10"), ShiftEarly)
	assert.Empty(t, early, "调整到晚班后不再按基础排班计入早班")

	late, _ := r.Resolve(day("2025-03-10"), ShiftLate)
	require.Len(t, late, 1)
	assert.True(t, late[0].Adjusted)
	assert.False(t, late[0].Helper)
	assert.Equal(t, Window{Start: 13 * 60, End: 19 * 60}, *late[0].Interval)
}

func TestRosterResolver_UnchangedOverrideUsesStandardWindow(t *testing.T) {
	snap := newSnapshot().
		worker("w1", "A", 1).
		plan("A", "2025-03-10", "F").
		override(Override{WorkerID: "w1", Date: day("2025-03-10"), ShiftCode: "N",
			ActualStart: "22:00", ActualEnd: "02:00"}).
		build()
	r := newTestRoster(t, snap)

	night, _ := r.Resolve(day("2025-03-10"), ShiftNight)
	require.Len(t, night, 1)
	assert.False(t, night[0].Adjusted)
	assert.Equal(t, NewWindow(21*60, 5*60), *night[0].Interval)

	early, _ := r.Resolve(day("2025-03-10"), ShiftEarly)
	assert.Empty(t, early)
}

// 早班员工打卡到 15:00，在 13:00–15:00 作为晚班支援计入
func TestRosterResolver_HelperFromNeighbouringShift(t *testing.T) {
	snap := newSnapshot().
		worker("w1", "A", 1).
		plan("A", "2025-03-10", "F").
		override(Override{WorkerID: "w1", Date: day("2025-03-10"), ShiftCode: "F",
			ActualStart: "05:00", ActualEnd: "15:00", Changed: true}).
		build()
	r := newTestRoster(t, snap)

	early, _ := r.Resolve(day("2025-03-10"), ShiftEarly)
	require.Len(t, early, 1)
	assert.False(t, early[0].Helper)
	assert.Equal(t, Window{Start: 300, End: 780}, *early[0].Interval)

	late, _ := r.Resolve(day("2025-03-10"), ShiftLate)
	require.Len(t, late, 1)
	assert.True(t, late[0].Helper)
	assert.True(t, late[0].Adjusted)
	assert.Equal(t, Window{Start: 780, End: 900}, *late[0].Interval)

	night, _ := r.Resolve(day("2025-03-10"), ShiftNight)
	assert.Empty(t, night, "与夜班无重叠")
}

// 早班员工 04:30 提前到岗，这段时间属于当日清晨，不计入当晚夜班
func TestRosterResolver_EarlyClockInIsNotTonightsNightHelper(t *testing.T) {
	snap := newSnapshot().
		worker("f1", "A", 1).
		worker("n1", "B", 1).
		plan("A", "2025-03-10", "F").
		plan("B", "2025-03-10", "N").
		override(Override{WorkerID: "f1", Date: day("2025-03-10"), ShiftCode: "F",
			ActualStart: "04:30", ActualEnd: "13:00", Changed: true}).
		build()
	r := newTestRoster(t, snap)

	night, _ := r.Resolve(day("2025-03-10"), ShiftNight)
	assert.Equal(t, []string{"n1"}, dutyIDs(night))

	early, _ := r.Resolve(day("2025-03-10"), ShiftEarly)
	require.Len(t, early, 1)
	assert.Equal(t, Window{Start: 300, End: 780}, *early[0].Interval)
}

// 夜班员工延长到次日 07:00：不计入当日早班，而作为次日早班支援
func TestRosterResolver_NightOvertimeHelpsNextMorning(t *testing.T) {
	snap := newSnapshot().
		worker("f1", "A", 1).
		worker("n1", "B", 1).
		plan("A", "2025-03-10", "F").
		plan("A", "2025-03-11", "F").
		plan("B", "2025-03-10", "N").
		plan("B", "2025-03-11", "S").
		override(Override{WorkerID: "n1", Date: day("2025-03-10"), ShiftCode: "N",
			ActualStart: "21:00", ActualEnd: "07:00", Changed: true}).
		build()
	r := newTestRoster(t, snap)

	early, _ := r.Resolve(day("2025-03-10"), ShiftEarly)
	assert.Equal(t, []string{"f1"}, dutyIDs(early), "加班发生在次日，不属于当日早班")

	night, _ := r.Resolve(day("2025-03-10"), ShiftNight)
	require.Len(t, night, 1)
	assert.Equal(t, NewWindow(21*60, 5*60), *night[0].Interval)

	next, _ := r.Resolve(day("2025-03-11"), ShiftEarly)
	require.Len(t, next, 2)
	assert.Equal(t, []string{"f1", "n1"}, dutyIDs(next))
	assert.True(t, next[1].Helper)
	assert.Equal(t, Window{Start: 300, End: 420}, *next[1].Interval)
}

// 夜班调整时间整段在午夜之后，仍计入当晚夜班
func TestRosterResolver_NightOverrideAfterMidnight(t *testing.T) {
	snap := newSnapshot().
		worker("n1", "B", 1).
		plan("B", "2025-03-10", "N").
		override(Override{WorkerID: "n1", Date: day("2025-03-10"), ShiftCode: "N",
			ActualStart: "01:00", ActualEnd: "05:00", Changed: true}).
		build()
	r := newTestRoster(t, snap)

	night, _ := r.Resolve(day("2025-03-10"), ShiftNight)
	require.Len(t, night, 1)
	assert.False(t, night[0].Helper)
	assert.Equal(t, Window{Start: 25 * 60, End: 29 * 60}, *night[0].Interval)

	early, _ := r.Resolve(day("2025-03-10"), ShiftEarly)
	assert.Empty(t, early)
}

func TestRosterResolver_OverrideWithoutTeam(t *testing.T) {
	snap := newSnapshot().
		override(Override{WorkerID: "temp", Date: day("2025-03-10"), ShiftCode: "S", Changed: true}).
		build()
	r := newTestRoster(t, snap)

	late, _ := r.Resolve(day("2025-03-10"), ShiftLate)
	require.Len(t, late, 1)
	assert.Equal(t, "temp", late[0].WorkerID)
	assert.Empty(t, late[0].Team)
	assert.Equal(t, Window{Start: 780, End: 1260}, *late[0].Interval)
}

func TestRosterResolver_MissingWindow(t *testing.T) {
	snap := newSnapshot().
		worker("w1", "A", 1).
		worker("w2", "A", 2).
		plan("A", "2025-03-10", "N").
		override(Override{WorkerID: "w2", Date: day("2025-03-10"), ShiftCode: "N",
			ActualStart: "22:00", ActualEnd: "04:00", Changed: true}).
		build()
	catalog, _ := NewCatalog(testWindows[:2])
	r := NewRosterResolver(catalog, snap.Memberships, snap.Plans, snap.Overrides, snap.Absences)

	night, warnings := r.Resolve(day("2025-03-10"), ShiftNight)
	require.Len(t, night, 2)
	for _, d := range night {
		assert.Nil(t, d.Interval, d.WorkerID)
	}
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnInconsistentOverride, warnings[0].Kind)
}

func TestRosterResolver_EachWorkerAtMostOnce(t *testing.T) {
	b := newSnapshot()
	for _, id := range []string{"a", "b", "c", "d"} {
		b.worker(id, "A", 1)
	}
	b.plan("A", "2025-03-10", "S")
	b.override(Override{WorkerID: "c", Date: day("2025-03-10"), ShiftCode: "S", ActualStart: "13:00", ActualEnd: "17:00", Changed: true})
	r := newTestRoster(t, b.build())

	duty, _ := r.Resolve(day("2025-03-10").Add(15*time.Hour), ShiftLate)
	assert.Equal(t, []string{"a", "b", "c", "d"}, dutyIDs(duty))
}
