package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/assignment"
)

type assignmentRepository struct {
	db core.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db core.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := `INSERT INTO assignments (classroom_id, test_id, unit_id, assigned_at, due_date, time_limit, visibility, is_mandatory)
		VALUES (:classroom_id, :test_id, :unit_id, :assigned_at, :due_date, :time_limit, :visibility, :is_mandatory)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, a); err != nil {
		if isUniqueViolation(err) {
			return assignment.Assignment{}, assignment.ErrAlreadyExists
		}
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, classroomID, testID string) error {
	if !validID(classroomID, testID) {
		return assignment.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM assignments WHERE classroom_id = $1 AND test_id = $2`, classroomID, testID)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if n == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

func (repo *assignmentRepository) IsAssigned(ctx context.Context, classroomID, testID string, onlyVisible bool) (bool, error) {
	if !validID(classroomID, testID) {
		return false, nil
	}
	q := `SELECT EXISTS (SELECT 1 FROM assignments WHERE classroom_id = $1 AND test_id = $2`
	if onlyVisible {
		q += ` AND visibility`
	}
	q += `)`
	var exists bool
	if err := repo.db.GetContext(ctx, &exists, q, classroomID, testID); err != nil {
		return false, errors.Wrap(err, "checking assignment")
	}
	return exists, nil
}

func (repo *assignmentRepository) IsAssignedToStudent(ctx context.Context, testID, studentID string) (bool, error) {
	if !validID(testID, studentID) {
		return false, nil
	}
	var exists bool
	q := `SELECT EXISTS (
			SELECT 1 FROM assignments a
			JOIN enrollments e ON e.classroom_id = a.classroom_id
			WHERE a.test_id = $1 AND e.student_id = $2 AND a.visibility
		)`
	if err := repo.db.GetContext(ctx, &exists, q, testID, studentID); err != nil {
		return false, errors.Wrap(err, "checking student assignment")
	}
	return exists, nil
}

func (repo *assignmentRepository) QueryClassroomAssignments(ctx context.Context, classroomID string, onlyVisible bool) ([]assignment.Summary, error) {
	summaries := make([]assignment.Summary, 0)
	if !validID(classroomID) {
		return summaries, nil
	}
	q := `SELECT a.test_id, t.name AS test_name, a.unit_id, u.name AS unit_name,
			a.assigned_at, a.due_date, a.time_limit, a.visibility, a.is_mandatory
		FROM assignments a
		JOIN tests t ON t.id = a.test_id
		LEFT JOIN units u ON u.id = a.unit_id
		WHERE a.classroom_id = $1`
	if onlyVisible {
		q += ` AND a.visibility`
	}
	q += ` ORDER BY a.assigned_at, t.name`
	if err := repo.db.SelectContext(ctx, &summaries, q, classroomID); err != nil {
		return nil, errors.Wrap(err, "selecting classroom assignments")
	}
	return summaries, nil
}
