package pages

import (
	"context"
	"sort"
	"strings"

	"github.com/lgoenaga/front-gea-cesde-sub000/core/enrollment"
)

// EnrollmentLookup resolves who sits in a group and what they take.
type EnrollmentLookup interface {
	LevelEnrollmentsByGroup(ctx context.Context, groupID int64) ([]enrollment.LevelEnrollment, error)
	SubjectEnrollmentsByLevelEnrollment(ctx context.Context, levelEnrollmentID int64) ([]enrollment.SubjectEnrollment, error)
}

// RosterEntry is a student of a group enrolled in one subject.
type RosterEntry struct {
	StudentID           int64
	StudentName         string
	SubjectEnrollmentID int64
}

// loadRoster lists the students of groupID whose subject enrollments include subjectID, sorted by name.
func loadRoster(ctx context.Context, lookup EnrollmentLookup, groupID, subjectID int64) ([]RosterEntry, error) {
	levelEnrollments, err := lookup.LevelEnrollmentsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	roster := make([]RosterEntry, 0, len(levelEnrollments))
	for _, le := range levelEnrollments {
		subjectEnrollments, err := lookup.SubjectEnrollmentsByLevelEnrollment(ctx, le.ID)
		if err != nil {
			return nil, err
		}
		for _, se := range subjectEnrollments {
			if se.SubjectID != subjectID {
				continue
			}
			name := se.StudentName
			if name == "" {
				name = le.StudentName
			}
			roster = append(roster, RosterEntry{StudentID: le.StudentID, StudentName: name, SubjectEnrollmentID: se.ID})
			break
		}
	}
	sort.SliceStable(roster, func(i, j int) bool {
		return strings.ToLower(roster[i].StudentName) < strings.ToLower(roster[j].StudentName)
	})
	return roster, nil
}

// SaveReport counts the requests fired by a grid save.
type SaveReport struct {
	Created int
	Updated int
	Failed  int
}

func (r SaveReport) Total() int {
	return r.Created + r.Updated + r.Failed
}
