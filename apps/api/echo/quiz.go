package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core/assignment"
	"github.com/trezcool/tracklearn/core/quiz"
)

type quizApi struct {
	svc      *quiz.Service
	asgSvc   *assignment.Service
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := quizApi{
		svc:      s.deps.QuizSvc,
		asgSvc:   s.deps.AssignmentSvc,
		validate: s.deps.Validate,
	}

	tg := g.Group("/tests", jwt)
	tg.POST("", api.create, staffMiddleware())
	tg.GET("/:id", api.retrieve)
}

func (api *quizApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data quiz.NewTest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), data, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "creating test")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	t, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding test")
	}
	// students only see tests assigned to them, without the answer key
	if claims.IsStudent() {
		assigned, err := api.asgSvc.IsAssignedToStudent(ctx.Request().Context(), t.ID, claims.Subject)
		if err != nil {
			return errors.Wrap(err, "checking assignment")
		}
		if !assigned {
			return errHttpForbidden
		}
		t = t.StudentView()
	}
	return ctx.JSON(http.StatusOK, t)
}
