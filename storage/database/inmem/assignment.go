package inmemdb

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tracklearn/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) index(classroomID, testID string) int {
	for i, a := range repo.db.assignments {
		if a.ClassroomID == classroomID && a.TestID == testID {
			return i
		}
	}
	return -1
}

func (repo *assignmentRepository) CreateAssignment(_ context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.index(a.ClassroomID, a.TestID) >= 0 {
		return assignment.Assignment{}, assignment.ErrAlreadyExists
	}
	repo.db.assignments = append(repo.db.assignments, a)
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(_ context.Context, classroomID, testID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(classroomID, testID)
	if i < 0 {
		return assignment.ErrNotFound
	}
	repo.db.assignments = append(repo.db.assignments[:i], repo.db.assignments[i+1:]...)
	return nil
}

func (repo *assignmentRepository) IsAssigned(_ context.Context, classroomID, testID string, onlyVisible bool) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	i := repo.index(classroomID, testID)
	return i >= 0 && (!onlyVisible || repo.db.assignments[i].Visibility), nil
}

func (repo *assignmentRepository) IsAssignedToStudent(_ context.Context, testID, studentID string) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, enr := range repo.db.enrollments {
		if enr.StudentID != studentID {
			continue
		}
		if i := repo.index(enr.ClassroomID, testID); i >= 0 && repo.db.assignments[i].Visibility {
			return true, nil
		}
	}
	return false, nil
}

func (repo *assignmentRepository) QueryClassroomAssignments(_ context.Context, classroomID string, onlyVisible bool) ([]assignment.Summary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	summaries := make([]assignment.Summary, 0)
	for _, a := range repo.db.assignments {
		if a.ClassroomID != classroomID || (onlyVisible && !a.Visibility) {
			continue
		}
		s := assignment.Summary{
			TestID:      a.TestID,
			UnitID:      a.UnitID,
			AssignedAt:  a.AssignedAt,
			DueDate:     a.DueDate,
			TimeLimit:   a.TimeLimit,
			Visibility:  a.Visibility,
			IsMandatory: a.IsMandatory,
		}
		if t, ok := repo.db.tests[a.TestID]; ok {
			s.TestName = t.Name
		}
		if a.UnitID.Valid {
			if u, ok := repo.db.units[a.UnitID.String]; ok {
				s.UnitName = null.StringFrom(u.Name)
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
