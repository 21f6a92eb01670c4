package grading

import "github.com/lgoenaga/front-gea-cesde-sub000/core"

// PeriodAverage is the mean of the components graded in period, rounded to two decimals.
// ok is false when nothing was graded.
func PeriodAverage(grades []Grade, period int) (avg float64, ok bool) {
	var sum float64
	var n int
	for _, g := range grades {
		if g.Period == period {
			sum += g.Value
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return core.Round2(sum / float64(n)), true
}

// FinalAverage is the mean of the available period averages.
func FinalAverage(grades []Grade) (avg float64, ok bool) {
	var sum float64
	var n int
	for _, p := range Periods {
		if pAvg, ok := PeriodAverage(grades, p); ok {
			sum += pAvg
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return core.Round2(sum / float64(n)), true
}

type AttendanceSummary struct {
	Present int
	Absent  int
	Late    int
	Excused int
	Total   int
}

func Summarize(records []Attendance) AttendanceSummary {
	var s AttendanceSummary
	for _, r := range records {
		switch r.Status {
		case Present:
			s.Present++
		case Absent:
			s.Absent++
		case Late:
			s.Late++
		case Excused:
			s.Excused++
		}
		s.Total++
	}
	return s
}

// Percentage counts a late arrival as half an attendance.
func (s AttendanceSummary) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return core.Round2((float64(s.Present) + 0.5*float64(s.Late)) / float64(s.Total) * 100)
}

func AttendancePercentage(records []Attendance) float64 {
	return Summarize(records).Percentage()
}
