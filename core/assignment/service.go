package assignment

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/catalog"
	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/quiz"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("Assignment not found")
	ErrAlreadyExists = core.NewConflictError("Test already assigned to this classroom")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// CreateAssignment returns ErrAlreadyExists when the (classroom, test) pair exists.
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		// DeleteAssignment returns ErrNotFound when the pair does not exist.
		DeleteAssignment(ctx context.Context, classroomID, testID string) error
		// QueryClassroomAssignments lists the classroom assignments by assignment time.
		QueryClassroomAssignments(ctx context.Context, classroomID string, onlyVisible bool) ([]Summary, error)
		IsAssigned(ctx context.Context, classroomID, testID string, onlyVisible bool) (bool, error)
		// IsAssignedToStudent reports whether the test is visibly assigned
		// to a classroom the student is enrolled in.
		IsAssignedToStudent(ctx context.Context, testID, studentID string) (bool, error)
	}

	Service struct {
		repo     Repository
		clsRepo  classroom.Repository
		quizRepo quiz.Repository
		catRepo  catalog.Repository
		mailSvc  core.EmailService
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	clsRepo classroom.Repository,
	quizRepo quiz.Repository,
	catRepo catalog.Repository,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		clsRepo:  clsRepo,
		quizRepo: quizRepo,
		catRepo:  catRepo,
		mailSvc:  mailSvc,
		logger:   logger,
	}
}

// AssignTest assigns a test to a classroom. na must have been validated.
func (svc *Service) AssignTest(ctx context.Context, na NewAssignment) (Assignment, error) {
	cls, err := svc.clsRepo.GetClassroom(ctx, *na.ClassroomID)
	if err != nil {
		return Assignment{}, err
	}
	t, err := svc.quizRepo.GetTest(ctx, *na.TestID)
	if err != nil {
		return Assignment{}, err
	}
	if na.UnitID != nil {
		if _, err = svc.catRepo.GetUnit(ctx, *na.UnitID); err != nil {
			return Assignment{}, err
		}
	}

	a, err := svc.repo.CreateAssignment(ctx, na.assignment(nowFunc().UTC()))
	if err != nil {
		if errors.Cause(err) == ErrAlreadyExists {
			return Assignment{}, ErrAlreadyExists
		}
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}

	if a.Visibility {
		svc.notifyStudents(ctx, cls, t, a)
	}
	return a, nil
}

func (svc *Service) IsAssigned(ctx context.Context, classroomID, testID string, onlyVisible bool) (bool, error) {
	return svc.repo.IsAssigned(ctx, classroomID, testID, onlyVisible)
}

func (svc *Service) IsAssignedToStudent(ctx context.Context, testID, studentID string) (bool, error) {
	return svc.repo.IsAssignedToStudent(ctx, testID, studentID)
}

func (svc *Service) RemoveAssignment(ctx context.Context, classroomID, testID string) error {
	if _, err := svc.clsRepo.GetClassroom(ctx, classroomID); err != nil {
		return err
	}
	if _, err := svc.quizRepo.GetTest(ctx, testID); err != nil {
		return err
	}
	return svc.repo.DeleteAssignment(ctx, classroomID, testID)
}

// ListClassroomAssignments lists the tests assigned to the classroom.
// Hidden assignments are skipped when onlyVisible is set.
func (svc *Service) ListClassroomAssignments(ctx context.Context, classroomID string, onlyVisible bool) ([]Summary, error) {
	if _, err := svc.clsRepo.GetClassroom(ctx, classroomID); err != nil {
		return nil, err
	}
	summaries, err := svc.repo.QueryClassroomAssignments(ctx, classroomID, onlyVisible)
	if err != nil {
		return nil, errors.Wrap(err, "querying classroom assignments")
	}
	if summaries == nil {
		summaries = []Summary{}
	}
	return summaries, nil
}

// notifyStudents emails the enrolled students about a new assignment.
// Failures are logged; an assignment never fails because of a notification.
func (svc *Service) notifyStudents(ctx context.Context, cls classroom.Classroom, t quiz.Test, a Assignment) {
	students, err := svc.clsRepo.QueryClassroomStudents(ctx, cls.ID)
	if err != nil {
		svc.logger.Error("querying students to notify", errors.Wrap(err, "querying classroom students"))
		return
	}

	messages := make([]*core.EmailMessage, 0, len(students))
	for _, s := range students {
		if s.Email == "" {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:          []mail.Address{{Name: s.Name, Address: s.Email}},
			Subject:     fmt.Sprintf("New test in %s: %s", cls.Name, t.Name),
			TextContent: assignmentText(s.Name, cls, t, a),
		})
	}
	if len(messages) > 0 {
		svc.mailSvc.SendMessages(messages...)
	}
}

func assignmentText(name string, cls classroom.Classroom, t quiz.Test, a Assignment) string {
	b := new(strings.Builder)
	_, _ = fmt.Fprintf(b, "Hi %s,\n\n", name)
	_, _ = fmt.Fprintf(b, "The test %q has been assigned to %s.\n", t.Name, cls.Name)
	if a.IsMandatory {
		_, _ = fmt.Fprint(b, "This test is mandatory.\n")
	}
	if a.DueDate.Valid {
		_, _ = fmt.Fprintf(b, "Due: %s\n", a.DueDate.Time.Format("Mon, 02 Jan 2006 15:04 MST"))
	}
	if a.TimeLimit.Valid {
		_, _ = fmt.Fprintf(b, "Time limit: %d minutes\n", a.TimeLimit.Int)
	}
	return b.String()
}
