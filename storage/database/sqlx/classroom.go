package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/classroom"
)

type classroomRepository struct {
	db core.DB
}

var _ classroom.Repository = (*classroomRepository)(nil) // interface compliance check

func NewClassroomRepository(db core.DB) classroom.Repository {
	return &classroomRepository{db: db}
}

func (repo *classroomRepository) CreateClassroom(ctx context.Context, cls classroom.Classroom) (classroom.Classroom, error) {
	cls.ID = newID()
	q := `INSERT INTO classrooms (id, name, teacher_id, created_at) VALUES (:id, :name, :teacher_id, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, cls); err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "inserting classroom")
	}
	return cls, nil
}

func (repo *classroomRepository) GetClassroom(ctx context.Context, id string) (classroom.Classroom, error) {
	if !validID(id) {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	var cls classroom.Classroom
	q := `SELECT id, name, teacher_id, created_at FROM classrooms WHERE id = $1`
	if err := repo.db.GetContext(ctx, &cls, q, id); err != nil {
		if isNoRows(err) {
			return classroom.Classroom{}, classroom.ErrNotFound
		}
		return classroom.Classroom{}, errors.Wrap(err, "selecting classroom")
	}
	return cls, nil
}

func (repo *classroomRepository) CreateEnrollment(ctx context.Context, enr classroom.Enrollment) error {
	q := `INSERT INTO enrollments (classroom_id, student_id, enrolled_at) VALUES (:classroom_id, :student_id, :enrolled_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, enr); err != nil {
		if isUniqueViolation(err) {
			return classroom.ErrAlreadyEnrolled
		}
		return errors.Wrap(err, "inserting enrollment")
	}
	return nil
}

func (repo *classroomRepository) DeleteEnrollment(ctx context.Context, classroomID, studentID string) error {
	if !validID(classroomID, studentID) {
		return classroom.ErrEnrollmentNotFound
	}
	q := `DELETE FROM enrollments WHERE classroom_id = $1 AND student_id = $2`
	res, err := repo.db.ExecContext(ctx, q, classroomID, studentID)
	if err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	if n == 0 {
		return classroom.ErrEnrollmentNotFound
	}
	return nil
}

func (repo *classroomRepository) IsEnrolled(ctx context.Context, classroomID, studentID string) (bool, error) {
	if !validID(classroomID, studentID) {
		return false, nil
	}
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM enrollments WHERE classroom_id = $1 AND student_id = $2)`
	if err := repo.db.GetContext(ctx, &exists, q, classroomID, studentID); err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return exists, nil
}

func (repo *classroomRepository) QueryClassroomStudents(ctx context.Context, classroomID string) ([]classroom.StudentSummary, error) {
	students := make([]classroom.StudentSummary, 0)
	if !validID(classroomID) {
		return students, nil
	}
	q := `SELECT u.id, u.name, u.username, u.email
		FROM enrollments e
		JOIN users u ON u.id = e.student_id
		WHERE e.classroom_id = $1
		ORDER BY e.enrolled_at, u.name`
	if err := repo.db.SelectContext(ctx, &students, q, classroomID); err != nil {
		return nil, errors.Wrap(err, "selecting classroom students")
	}
	return students, nil
}
