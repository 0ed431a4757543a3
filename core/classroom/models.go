package classroom

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tracklearn/core"
)

type Classroom struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// Enrollment links one student to one classroom. (ClassroomID, StudentID) is unique.
type Enrollment struct {
	ClassroomID string    `db:"classroom_id"`
	StudentID   string    `db:"student_id"`
	EnrolledAt  time.Time `db:"enrolled_at"` // UTC
}

// EnrollmentRecord confirms a successful enrollment.
type EnrollmentRecord struct {
	Message       string `json:"message"`
	ClassroomID   string `json:"classroom_id"`
	ClassroomName string `json:"classroom_name"`
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
}

type StudentSummary struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
}

// NewClassroom contains information needed to create a new Classroom.
// TeacherID is only read when an admin creates the classroom on behalf of a teacher.
type NewClassroom struct {
	Name      string `json:"name" validate:"notblank,max=255"`
	TeacherID string `json:"teacher_id"`
}

func (nc *NewClassroom) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.TeacherID = core.CleanString(nc.TeacherID)
	return validate.Struct(nc)
}

// EnrollmentRequest is the body of enroll and unenroll requests.
type EnrollmentRequest struct {
	ClassroomID *string `json:"classroom_id"`
	StudentID   *string `json:"student_id"`
}

func (er *EnrollmentRequest) Validate() error {
	if er.ClassroomID == nil || core.CleanString(*er.ClassroomID) == "" {
		return core.NewMissingFieldError("classroom_id")
	}
	if er.StudentID == nil || core.CleanString(*er.StudentID) == "" {
		return core.NewMissingFieldError("student_id")
	}
	*er.ClassroomID = core.CleanString(*er.ClassroomID)
	*er.StudentID = core.CleanString(*er.StudentID)
	return nil
}
