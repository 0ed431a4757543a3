package classroom

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/user"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("Classroom not found")
	ErrStudentNotFound    = core.NewNotFoundError("Student not found")
	ErrTeacherNotFound    = core.NewNotFoundError("Teacher not found")
	ErrEnrollmentNotFound = core.NewNotFoundError("Enrollment not found")
	ErrAlreadyEnrolled    = core.NewConflictError("Student already enrolled in this classroom")
	ErrNotAStudent        = core.NewInvalidRoleError("User is not a student")
	ErrNotATeacher        = core.NewInvalidRoleError("User is not a teacher")
)

type (
	Repository interface {
		CreateClassroom(ctx context.Context, cls Classroom) (Classroom, error)
		// GetClassroom returns ErrNotFound when no classroom has the given id.
		GetClassroom(ctx context.Context, id string) (Classroom, error)
		// CreateEnrollment returns ErrAlreadyEnrolled when the pair already exists.
		// The check is enforced by the store itself, not by a prior read.
		CreateEnrollment(ctx context.Context, enr Enrollment) error
		// DeleteEnrollment returns ErrEnrollmentNotFound when the pair does not exist.
		DeleteEnrollment(ctx context.Context, classroomID, studentID string) error
		IsEnrolled(ctx context.Context, classroomID, studentID string) (bool, error)
		// QueryClassroomStudents returns the enrolled students in enrollment order.
		QueryClassroomStudents(ctx context.Context, classroomID string) ([]StudentSummary, error)
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
	}
)

func NewService(repo Repository, usrRepo user.Repository) *Service {
	return &Service{repo: repo, usrRepo: usrRepo}
}

func (svc *Service) Create(ctx context.Context, nc NewClassroom) (Classroom, error) {
	teacher, err := svc.usrRepo.GetUser(ctx, user.GetFilter{ID: nc.TeacherID})
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Classroom{}, ErrTeacherNotFound
		}
		return Classroom{}, errors.Wrap(err, "finding teacher")
	}
	if !teacher.IsTeacher() {
		return Classroom{}, ErrNotATeacher
	}

	cls, err := svc.repo.CreateClassroom(ctx, Classroom{
		Name:      nc.Name,
		TeacherID: teacher.ID,
		CreatedAt: time.Now().UTC(),
	})
	return cls, errors.Wrap(err, "creating classroom")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Classroom, error) {
	return svc.repo.GetClassroom(ctx, id)
}

func (svc *Service) IsEnrolled(ctx context.Context, classroomID, studentID string) (bool, error) {
	return svc.repo.IsEnrolled(ctx, classroomID, studentID)
}

// getStudent finds a user and maps the lookup failure to ErrStudentNotFound.
func (svc *Service) getStudent(ctx context.Context, id string) (user.User, error) {
	usr, err := svc.usrRepo.GetUser(ctx, user.GetFilter{ID: id})
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, ErrStudentNotFound
		}
		return user.User{}, errors.Wrap(err, "finding student")
	}
	return usr, nil
}

// Enroll adds the student to the classroom.
func (svc *Service) Enroll(ctx context.Context, classroomID, studentID string) (EnrollmentRecord, error) {
	cls, err := svc.repo.GetClassroom(ctx, classroomID)
	if err != nil {
		return EnrollmentRecord{}, err
	}
	student, err := svc.getStudent(ctx, studentID)
	if err != nil {
		return EnrollmentRecord{}, err
	}
	if !student.IsStudent() {
		return EnrollmentRecord{}, ErrNotAStudent
	}

	enr := Enrollment{ClassroomID: cls.ID, StudentID: student.ID, EnrolledAt: time.Now().UTC()}
	if err = svc.repo.CreateEnrollment(ctx, enr); err != nil {
		if errors.Cause(err) == ErrAlreadyEnrolled {
			return EnrollmentRecord{}, ErrAlreadyEnrolled
		}
		return EnrollmentRecord{}, errors.Wrap(err, "creating enrollment")
	}

	return EnrollmentRecord{
		Message:       "Student enrolled successfully",
		ClassroomID:   cls.ID,
		ClassroomName: cls.Name,
		StudentID:     student.ID,
		StudentName:   student.Name,
	}, nil
}

// RemoveEnrollment removes the student from the classroom.
func (svc *Service) RemoveEnrollment(ctx context.Context, classroomID, studentID string) error {
	if _, err := svc.repo.GetClassroom(ctx, classroomID); err != nil {
		return err
	}
	if _, err := svc.getStudent(ctx, studentID); err != nil {
		return err
	}
	return svc.repo.DeleteEnrollment(ctx, classroomID, studentID)
}

// ListStudents lists the students enrolled in the classroom.
// A classroom without students yields an empty list, not an error.
func (svc *Service) ListStudents(ctx context.Context, classroomID string) ([]StudentSummary, error) {
	if _, err := svc.repo.GetClassroom(ctx, classroomID); err != nil {
		return nil, err
	}
	students, err := svc.repo.QueryClassroomStudents(ctx, classroomID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classroom students")
	}
	if students == nil {
		students = []StudentSummary{}
	}
	return students, nil
}
