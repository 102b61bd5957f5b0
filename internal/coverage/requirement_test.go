package coverage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirementResolver_BaselineOrdering(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "r-y", QualificationID: "q-y", Count: 1, Mode: ModeBaseline},
		{ID: "r-x", QualificationID: "q-x", Count: 2, Mode: ModeBaseline},
		{ID: "r-z", QualificationID: "q-z", Count: 1, Mode: ModeBaseline},
	}, qualMap())

	res := r.Resolve(day("2025-03-10"), ShiftEarly)
	require.Len(t, res.Relevant, 2)
	assert.Equal(t, "X", res.Relevant[0].Code)
	assert.Equal(t, "Y", res.Relevant[1].Code)
	require.Len(t, res.Secondary, 1)
	assert.Equal(t, "Z", res.Secondary[0].Code)
	assert.False(t, res.Override)
	assert.Equal(t, 3, res.TotalRequired())
}

func TestRequirementResolver_PriorityTieBreaksByCode(t *testing.T) {
	quals := map[string]Qualification{
		"q-b": {ID: "q-b", Code: "B", Relevant: true, Priority: 1, Active: true},
		"q-a": {ID: "q-a", Code: "A", Relevant: true, Priority: 1, Active: true},
	}
	r := NewRequirementResolver([]Rule{
		{ID: "1", QualificationID: "q-b", Count: 1},
		{ID: "2", QualificationID: "q-a", Count: 1},
	}, quals)

	res := r.Resolve(day("2025-03-10"), ShiftLate)
	require.Len(t, res.Relevant, 2)
	assert.Equal(t, []string{"A", "B"}, []string{res.Relevant[0].Code, res.Relevant[1].Code})
}

func TestRequirementResolver_ValidityWindow(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "r1", QualificationID: "q-x", Count: 1, From: dayPtr("2025-03-01"), To: dayPtr("2025-03-31")},
	}, qualMap())

	assert.Len(t, r.Resolve(day("2025-03-01"), ShiftEarly).Relevant, 1)
	assert.Len(t, r.Resolve(day("2025-03-31"), ShiftEarly).Relevant, 1)
	assert.Empty(t, r.Resolve(day("2025-04-01"), ShiftEarly).Relevant)
	assert.Empty(t, r.Resolve(day("2025-02-28"), ShiftEarly).Relevant)
}

// 覆盖规则生效的日期不得出现任何常规规则
func TestRequirementResolver_OverrideReplacesBaseline(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "base", QualificationID: "q-x", Count: 2, Mode: ModeBaseline},
		{ID: "base-y", QualificationID: "q-y", Count: 1, Mode: ModeBaseline},
		{ID: "xmas", QualificationID: "q-x", Count: 0, Mode: ModeOverride,
			From: dayPtr("2025-12-24"), To: dayPtr("2025-12-24")},
	}, qualMap())

	for _, s := range AllShifts {
		res := r.Resolve(day("2025-12-24"), s)
		assert.True(t, res.Override)
		require.Len(t, res.Relevant, 1, s.Code())
		assert.Equal(t, ModeOverride, res.Relevant[0].Source)
		assert.Equal(t, 0, res.Relevant[0].Count)
	}

	res := r.Resolve(day("2025-12-23"), ShiftEarly)
	assert.False(t, res.Override)
	assert.Len(t, res.Relevant, 2)
}

// 覆盖规则只作用于夜班时，当日其他班次的常规规则也被整体作废
func TestRequirementResolver_OverrideSuppressesOtherShiftsOfDay(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "base", QualificationID: "q-x", Count: 2},
		{ID: "night-only", QualificationID: "q-y", Count: 3, Mode: ModeOverride,
			From: dayPtr("2025-12-31"), To: dayPtr("2025-12-31"), Shift: ShiftNight},
	}, qualMap())

	early := r.Resolve(day("2025-12-31"), ShiftEarly)
	assert.True(t, early.Override)
	assert.True(t, early.Empty())

	night := r.Resolve(day("2025-12-31"), ShiftNight)
	require.Len(t, night.Relevant, 1)
	assert.Equal(t, "Y", night.Relevant[0].Code)
}

func TestRequirementResolver_ShiftRangeEdgeDates(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "range", QualificationID: "q-x", Count: 1,
			From: dayPtr("2025-06-02"), To: dayPtr("2025-06-04"),
			StartShift: ShiftLate, EndShift: ShiftEarly},
	}, qualMap())

	cases := []struct {
		date  string
		shift Shift
		want  bool
	}{
		{"2025-06-02", ShiftEarly, false},
		{"2025-06-02", ShiftLate, true},
		{"2025-06-02", ShiftNight, true},
		{"2025-06-03", ShiftEarly, true},
		{"2025-06-03", ShiftNight, true},
		{"2025-06-04", ShiftEarly, true},
		{"2025-06-04", ShiftLate, false},
		{"2025-06-04", ShiftNight, false},
	}
	for _, c := range cases {
		got := len(r.Resolve(day(c.date), c.shift).Relevant) == 1
		assert.Equal(t, c.want, got, "%s %s", c.date, c.shift.Code())
	}
}

func TestRequirementResolver_ExplicitShift(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "late", QualificationID: "q-x", Count: 1, Shift: ShiftLate},
	}, qualMap())

	assert.Empty(t, r.Resolve(day("2025-03-10"), ShiftEarly).Relevant)
	assert.Len(t, r.Resolve(day("2025-03-10"), ShiftLate).Relevant, 1)
}

func TestRequirementResolver_WeekPatterns(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "sat-early", QualificationID: "q-x", Count: 1, WeekPattern: "mo_sa_sa_f"},
	}, qualMap())

	saturday := day("2025-03-15")
	require.Equal(t, time.Saturday, saturday.Weekday())

	assert.Len(t, r.Resolve(day("2025-03-14"), ShiftNight).Relevant, 1, "周五全班次")
	assert.Len(t, r.Resolve(saturday, ShiftEarly).Relevant, 1, "周六仅早班")
	assert.Empty(t, r.Resolve(saturday, ShiftLate).Relevant)
	assert.Empty(t, r.Resolve(day("2025-03-16"), ShiftEarly).Relevant, "周日不适用")
}

func TestPatternAllows(t *testing.T) {
	allowed, known := patternAllows("MO-FR", time.Saturday, ShiftEarly)
	assert.True(t, known)
	assert.False(t, allowed)

	allowed, _ = patternAllows("MO-FR-SA-FS", time.Saturday, ShiftLate)
	assert.True(t, allowed)

	allowed, _ = patternAllows("SA-SO", time.Sunday, ShiftNight)
	assert.True(t, allowed)

	allowed, _ = patternAllows("", time.Sunday, ShiftNight)
	assert.True(t, allowed)

	_, known = patternAllows("XYZ", time.Monday, ShiftEarly)
	assert.False(t, known)
	assert.False(t, KnownWeekPattern("XYZ"))
}

func TestRequirementResolver_UnknownPatternDegrades(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "bad", QualificationID: "q-x", Count: 1, WeekPattern: "EVERY-OTHER-FULLMOON"},
		{ID: "ok", QualificationID: "q-y", Count: 1},
	}, qualMap())

	res := r.Resolve(day("2025-03-10"), ShiftEarly)
	require.Len(t, res.Relevant, 1)
	assert.Equal(t, "Y", res.Relevant[0].Code)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnMissingCatalogEntry, res.Warnings[0].Kind)
}

func TestRequirementResolver_MissingQualificationIsUnranked(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "ghost", QualificationID: "q-ghost", Count: 1},
		{ID: "x", QualificationID: "q-x", Count: 1},
	}, qualMap())

	res := r.Resolve(day("2025-03-10"), ShiftEarly)
	require.Len(t, res.Relevant, 2)
	assert.Equal(t, "X", res.Relevant[0].Code)
	assert.Equal(t, UnrankedPriority, res.Relevant[1].Priority)
	assert.Equal(t, "q-ghost", res.Relevant[1].Code)
	assert.Len(t, res.Warnings, 1)
}

func TestRequirementResolver_MergesSameQualification(t *testing.T) {
	r := NewRequirementResolver([]Rule{
		{ID: "a", QualificationID: "q-x", Count: 1, WeekPattern: "MO-FR"},
		{ID: "b", QualificationID: "q-x", Count: 2},
		{ID: "inactive", QualificationID: "q-old", Count: 4},
	}, qualMap())

	res := r.Resolve(day("2025-03-10"), ShiftEarly)
	require.Len(t, res.Relevant, 1)
	assert.Equal(t, 3, res.Relevant[0].Count)
}
