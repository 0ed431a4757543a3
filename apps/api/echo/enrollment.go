package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core/classroom"
)

type enrollmentApi struct {
	svc *classroom.Service
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := enrollmentApi{svc: s.deps.ClassroomSvc}

	eg := g.Group("/enrollment", jwt)
	eg.POST("", api.enroll)
	eg.DELETE("", api.unenroll)
	eg.GET("/classroom/:id", api.queryStudents)
}

// bindRequest reads an enrollment request and checks that claims may act on it:
// admins and the owning teacher on anyone, students on themselves.
func (api *enrollmentApi) bindRequest(ctx echo.Context) (classroom.EnrollmentRequest, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return classroom.EnrollmentRequest{}, errors.Wrap(err, "getting context claims")
	}

	var data classroom.EnrollmentRequest
	if err = ctx.Bind(&data); err != nil {
		return classroom.EnrollmentRequest{}, errors.Wrap(err, "binding to EnrollmentRequest")
	}
	if err = data.Validate(); err != nil {
		return classroom.EnrollmentRequest{}, err
	}

	_, access, err := getClassroomAccess(ctx.Request().Context(), api.svc, claims, *data.ClassroomID)
	if err != nil {
		return classroom.EnrollmentRequest{}, errors.Wrap(err, "checking classroom access")
	}
	if access != accessManage && !(claims.IsStudent() && claims.Subject == *data.StudentID) {
		return classroom.EnrollmentRequest{}, errHttpForbidden
	}
	return data, nil
}

func (api *enrollmentApi) enroll(ctx echo.Context) error {
	data, err := api.bindRequest(ctx)
	if err != nil {
		return err
	}

	rec, err := api.svc.Enroll(ctx.Request().Context(), *data.ClassroomID, *data.StudentID)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *enrollmentApi) unenroll(ctx echo.Context) error {
	data, err := api.bindRequest(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.RemoveEnrollment(ctx.Request().Context(), *data.ClassroomID, *data.StudentID); err != nil {
		return errors.Wrap(err, "removing enrollment")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Student removed from classroom"})
}

func (api *enrollmentApi) queryStudents(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	_, access, err := getClassroomAccess(reqCtx, api.svc, claims, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking classroom access")
	}
	if access == accessNone {
		return errHttpForbidden
	}

	students, err := api.svc.ListStudents(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing classroom students")
	}
	return ctx.JSON(http.StatusOK, students)
}

type MessageResponse struct {
	Message string `json:"message"`
}
