package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: day(2026, 3, 2), End: day(2026, 3, 4)}
	assert.True(t, w.Contains(day(2026, 3, 2)))
	assert.True(t, w.Contains(day(2026, 3, 3)))
	assert.True(t, w.Contains(day(2026, 3, 4)))
	assert.False(t, w.Contains(day(2026, 3, 1)))
	assert.False(t, w.Contains(day(2026, 3, 5)))
}

func TestDeptSchedule_AbsentIsDistinctFromSet(t *testing.T) {
	s := NewDeptSchedule()
	_, ok := s.Window(DeptLaser)
	assert.False(t, ok)

	s.Set(DeptLaser, Window{Start: day(2026, 3, 2), End: day(2026, 3, 2)})
	w, ok := s.Window(DeptLaser)
	require.True(t, ok)
	assert.Equal(t, day(2026, 3, 2), w.Start)
	assert.Equal(t, w.Start, w.End, "single-day window is a real placement, not absence")
}

func TestDeptSchedule_SetOnZeroValue(t *testing.T) {
	var s DeptSchedule
	s.Set(DeptWelding, Window{Start: day(2026, 3, 2), End: day(2026, 3, 3)})
	assert.True(t, s.Has(DeptWelding))
}

func TestDeptSchedule_CloneIsIndependent(t *testing.T) {
	s := NewDeptSchedule()
	s.Set(DeptLaser, Window{Start: day(2026, 3, 2), End: day(2026, 3, 3)})
	c := s.Clone()
	c.Set(DeptLaser, Window{Start: day(2026, 3, 9), End: day(2026, 3, 10)})

	orig, _ := s.Window(DeptLaser)
	assert.Equal(t, day(2026, 3, 2), orig.Start, "clone mutation must not leak back")
}

func TestDeptSchedule_OrderedFollowsPipeline(t *testing.T) {
	s := NewDeptSchedule()
	s.Set(DeptWelding, Window{Start: day(2026, 3, 5), End: day(2026, 3, 6)})
	s.Set(DeptEngineering, Window{Start: day(2026, 3, 2), End: day(2026, 3, 3)})

	got := s.Ordered(DefaultPipeline())
	require.Len(t, got, 2)
	assert.Equal(t, DeptEngineering, got[0].Department)
	assert.Equal(t, DeptWelding, got[1].Department)
}

func TestDeptSchedule_EarliestStartLatestEnd(t *testing.T) {
	s := NewDeptSchedule()
	_, found := s.EarliestStart()
	assert.False(t, found)

	s.Set(DeptEngineering, Window{Start: day(2026, 3, 2), End: day(2026, 3, 3)})
	s.Set(DeptWelding, Window{Start: day(2026, 3, 5), End: day(2026, 3, 9)})

	start, found := s.EarliestStart()
	require.True(t, found)
	assert.Equal(t, day(2026, 3, 2), start)

	end, found := s.LatestEnd()
	require.True(t, found)
	assert.Equal(t, day(2026, 3, 9), end)
}

func TestValidate_AcceptsOrderedWindows(t *testing.T) {
	s := NewDeptSchedule()
	s.Set(DeptEngineering, Window{Start: day(2026, 3, 2), End: day(2026, 3, 3)})
	s.Set(DeptLaser, Window{Start: day(2026, 3, 4), End: day(2026, 3, 4)})
	s.Set(DeptWelding, Window{Start: day(2026, 3, 5), End: day(2026, 3, 6)})
	assert.NoError(t, s.Validate(DefaultPipeline(), nil))
}

func TestValidate_RejectsInvertedWindow(t *testing.T) {
	s := NewDeptSchedule()
	s.Set(DeptLaser, Window{Start: day(2026, 3, 5), End: day(2026, 3, 4)})
	err := s.Validate(DefaultPipeline(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Laser")
}

func TestValidate_RejectsPipelineOrderBreach(t *testing.T) {
	s := NewDeptSchedule()
	s.Set(DeptEngineering, Window{Start: day(2026, 3, 4), End: day(2026, 3, 6)})
	s.Set(DeptLaser, Window{Start: day(2026, 3, 5), End: day(2026, 3, 5)})
	err := s.Validate(DefaultPipeline(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Laser starts")
}

func TestValidate_SkippedDepartmentMustBeAbsent(t *testing.T) {
	s := NewDeptSchedule()
	s.Set(DeptPolishing, Window{Start: day(2026, 3, 5), End: day(2026, 3, 5)})
	err := s.Validate(DefaultPipeline(), []Department{DeptPolishing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skipped")
}

func TestValidate_SkippedGapIsLegal(t *testing.T) {
	s := NewDeptSchedule()
	s.Set(DeptEngineering, Window{Start: day(2026, 3, 2), End: day(2026, 3, 3)})
	s.Set(DeptWelding, Window{Start: day(2026, 3, 4), End: day(2026, 3, 5)})
	assert.NoError(t, s.Validate(DefaultPipeline(), []Department{DeptLaser, DeptPressBrake}))
}
