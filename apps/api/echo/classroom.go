package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/classroom"
)

// classroomAccess is what the requesting user may do with a classroom.
type classroomAccess int

const (
	accessNone   classroomAccess = iota
	accessMember                 // enrolled student
	accessManage                 // admin or owning teacher
)

// getClassroomAccess returns the classroom and the access claims have to it,
// or classroom.ErrNotFound when it does not exist.
func getClassroomAccess(ctx context.Context, svc *classroom.Service, claims Claims, classroomID string) (classroom.Classroom, classroomAccess, error) {
	cls, err := svc.GetByID(ctx, classroomID)
	if err != nil {
		return classroom.Classroom{}, accessNone, err
	}
	switch {
	case claims.IsAdmin():
		return cls, accessManage, nil
	case claims.IsTeacher() && cls.TeacherID == claims.Subject:
		return cls, accessManage, nil
	case claims.IsStudent():
		enrolled, err := svc.IsEnrolled(ctx, cls.ID, claims.Subject)
		if err != nil {
			return classroom.Classroom{}, accessNone, errors.Wrap(err, "checking enrollment")
		}
		if enrolled {
			return cls, accessMember, nil
		}
	}
	return cls, accessNone, nil
}

type classroomApi struct {
	svc      *classroom.Service
	validate *validator.Validate
}

func registerClassroomAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := classroomApi{
		svc:      s.deps.ClassroomSvc,
		validate: s.deps.Validate,
	}

	cg := g.Group("/classrooms", jwt)
	cg.POST("", api.create, staffMiddleware())
	cg.GET("/:id", api.retrieve)
}

func (api *classroomApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data classroom.NewClassroom
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassroom")
	}
	// a teacher always owns the classrooms they create
	if claims.IsTeacher() {
		data.TeacherID = claims.Subject
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	if data.TeacherID == "" {
		return core.NewMissingFieldError("teacher_id")
	}

	cls, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating classroom")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (api *classroomApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	cls, access, err := getClassroomAccess(ctx.Request().Context(), api.svc, claims, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking classroom access")
	}
	if access == accessNone {
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, cls)
}
