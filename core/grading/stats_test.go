package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodAverage(t *testing.T) {
	grades := []Grade{
		{Period: 1, Component: Knowledge, Value: 4.0},
		{Period: 1, Component: Performance, Value: 3.0},
		{Period: 1, Component: Product, Value: 5.0},
		{Period: 2, Component: Knowledge, Value: 3.3},
		{Period: 2, Component: Product, Value: 4.1},
		{Period: 3, Component: Knowledge, Value: 2.0},
		{Period: 3, Component: Performance, Value: 2.5},
		{Period: 3, Component: Product, Value: 3.0},
	}

	tests := []struct {
		name   string
		period int
		want   float64
		wantOk bool
	}{
		{name: "three components", period: 1, want: 4.00, wantOk: true},
		{name: "partial period", period: 2, want: 3.7, wantOk: true},
		{name: "rounded", period: 3, want: 2.5, wantOk: true},
		{name: "nothing graded", period: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PeriodAverage(grades, tt.period)
			assert.Equal(t, tt.wantOk, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	final, ok := FinalAverage(grades)
	assert.True(t, ok)
	assert.InDelta(t, 3.4, final, 1e-9)

	_, ok = FinalAverage(nil)
	assert.False(t, ok)
}

func TestPeriodAverage_twoDecimals(t *testing.T) {
	grades := []Grade{
		{Period: 1, Component: Knowledge, Value: 4.0},
		{Period: 1, Component: Performance, Value: 3.0},
		{Period: 1, Component: Product, Value: 4.0},
	}
	got, _ := PeriodAverage(grades, 1)
	assert.Equal(t, 3.67, got)
}

func TestAttendancePercentage(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     float64
	}{
		{name: "no sessions", want: 0},
		{name: "three present one late", statuses: []Status{Present, Present, Present, Late}, want: 87.5},
		{name: "all absent", statuses: []Status{Absent, Absent}, want: 0},
		{name: "excused counts as missed", statuses: []Status{Present, Excused}, want: 50},
		{name: "thirds", statuses: []Status{Present, Absent, Absent}, want: 33.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]Attendance, 0, len(tt.statuses))
			for _, s := range tt.statuses {
				records = append(records, Attendance{Status: s})
			}
			assert.Equal(t, tt.want, AttendancePercentage(records))
		})
	}

	s := Summarize([]Attendance{{Status: Present}, {Status: Late}, {Status: Excused}, {Status: Absent}})
	assert.Equal(t, AttendanceSummary{Present: 1, Absent: 1, Late: 1, Excused: 1, Total: 4}, s)
}
