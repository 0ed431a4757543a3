package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core/assignment"
	"github.com/trezcool/tracklearn/core/classroom"
	"github.com/trezcool/tracklearn/core/quiz"
	"github.com/trezcool/tracklearn/core/result"
)

type resultApi struct {
	svc            *result.Service
	clsSvc         *classroom.Service
	quizSvc        *quiz.Service
	asgSvc         *assignment.Service
	requireAnswers bool
}

func registerResultAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := resultApi{
		svc:            s.deps.ResultSvc,
		clsSvc:         s.deps.ClassroomSvc,
		quizSvc:        s.deps.QuizSvc,
		asgSvc:         s.deps.AssignmentSvc,
		requireAnswers: s.deps.Conf.Scoring.RequireAnswers,
	}

	rg := g.Group("/testresult", jwt)
	rg.POST("", api.create)
	rg.GET("", api.query)
	rg.GET("/search", api.search)
}

func (api *resultApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data result.NewResult
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	if err = data.Validate(api.requireAnswers); err != nil {
		return err
	}
	// students may only submit their own attempts
	if claims.IsStudent() {
		if *data.StudentID != claims.Subject {
			return errHttpForbidden
		}
		if err = api.checkStudentAttempt(ctx, claims, *data.ClassroomID, *data.TestID); err != nil {
			return err
		}
	}

	res, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating test result")
	}
	return ctx.JSON(http.StatusCreated, res)
}

// checkStudentAttempt allows a student to submit only for a test visibly
// assigned to a classroom they are enrolled in.
func (api *resultApi) checkStudentAttempt(ctx echo.Context, claims Claims, classroomID, testID string) error {
	reqCtx := ctx.Request().Context()
	_, access, err := getClassroomAccess(reqCtx, api.clsSvc, claims, classroomID)
	if err != nil {
		return errors.Wrap(err, "checking classroom access")
	}
	if access != accessMember {
		return errHttpForbidden
	}
	if _, err = api.quizSvc.GetByID(reqCtx, testID); err != nil {
		return errors.Wrap(err, "finding test")
	}
	assigned, err := api.asgSvc.IsAssigned(reqCtx, classroomID, testID, true)
	if err != nil {
		return errors.Wrap(err, "checking assignment")
	}
	if !assigned {
		return errHttpForbidden
	}
	return nil
}

func (api *resultApi) query(ctx echo.Context) error {
	return api.list(ctx, result.Filter{})
}

func (api *resultApi) search(ctx echo.Context) error {
	filter, err := result.ParseFilter(ctx.QueryParams())
	if err != nil {
		return err
	}
	return api.list(ctx, filter)
}

func (api *resultApi) list(ctx echo.Context, filter result.Filter) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	switch {
	case claims.IsStudent():
		if filter.StudentID != "" && filter.StudentID != claims.Subject {
			return ctx.JSON(http.StatusOK, []result.Summary{})
		}
		filter.StudentID = claims.Subject
	case claims.IsTeacher():
		filter.TeacherID = claims.Subject
	}

	results, err := api.svc.Search(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "searching test results")
	}
	return ctx.JSON(http.StatusOK, results)
}
