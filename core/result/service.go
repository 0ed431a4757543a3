package result

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/quiz"
	"github.com/trezcool/tracklearn/core/user"
)

type (
	Repository interface {
		CreateResult(ctx context.Context, res TestResult) (TestResult, error)
		// QueryResults returns the matching results, newest first.
		QueryResults(ctx context.Context, filter Filter) ([]Summary, error)
	}

	Service struct {
		repo     Repository
		usrRepo  user.Repository
		clsRepo  classroom.Repository
		quizRepo quiz.Repository
	}
)

func NewService(repo Repository, usrRepo user.Repository, clsRepo classroom.Repository, quizRepo quiz.Repository) *Service {
	return &Service{
		repo:     repo,
		usrRepo:  usrRepo,
		clsRepo:  clsRepo,
		quizRepo: quizRepo,
	}
}

// Create records a submitted attempt. nr must have been validated.
// When nr carries answers, they are graded against the test's answer key
// and the declared score, total and correct count are ignored.
func (svc *Service) Create(ctx context.Context, nr NewResult) (TestResult, error) {
	student, err := svc.usrRepo.GetUser(ctx, user.GetFilter{ID: *nr.StudentID})
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return TestResult{}, classroom.ErrStudentNotFound
		}
		return TestResult{}, errors.Wrap(err, "finding student")
	}
	cls, err := svc.clsRepo.GetClassroom(ctx, *nr.ClassroomID)
	if err != nil {
		return TestResult{}, err
	}
	t, err := svc.quizRepo.GetTest(ctx, *nr.TestID)
	if err != nil {
		return TestResult{}, err
	}

	res := TestResult{
		StudentID:      student.ID,
		ClassroomID:    cls.ID,
		TestID:         t.ID,
		Score:          *nr.Score,
		TotalQuestions: *nr.TotalQuestions,
		CorrectAnswers: *nr.CorrectAnswers,
		Status:         *nr.Status,
		StartedAt:      nr.startedAt,
		EndedAt:        nr.endedAt,
		CreatedAt:      time.Now().UTC(),
	}
	if nr.Answers != nil {
		g := GradeAnswers(t.AnswerKey(), nr.Answers)
		res.Score = g.Score
		res.TotalQuestions = g.TotalQuestions
		res.CorrectAnswers = g.CorrectAnswers
		res.GradedByServer = true
	}

	res, err = svc.repo.CreateResult(ctx, res)
	return res, errors.Wrap(err, "creating test result")
}

// Search lists the results matching filter. No match yields an empty list.
func (svc *Service) Search(ctx context.Context, filter Filter) ([]Summary, error) {
	results, err := svc.repo.QueryResults(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying test results")
	}
	if results == nil {
		results = []Summary{}
	}
	return results, nil
}
