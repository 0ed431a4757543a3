package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core/assignment"
	"github.com/trezcool/tracklearn/core/classroom"
)

type assignmentApi struct {
	svc    *assignment.Service
	clsSvc *classroom.Service
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := assignmentApi{
		svc:    s.deps.AssignmentSvc,
		clsSvc: s.deps.ClassroomSvc,
	}

	ag := g.Group("/assignedtests", jwt)
	ag.POST("", api.assign)
	ag.DELETE("/classroom/:cid/test/:tid", api.unassign)
	ag.GET("/classroom/:id", api.queryClassroom)
}

// checkManage returns errHttpForbidden unless claims manage the classroom.
func (api *assignmentApi) checkManage(ctx echo.Context, classroomID string) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	_, access, err := getClassroomAccess(ctx.Request().Context(), api.clsSvc, claims, classroomID)
	if err != nil {
		return errors.Wrap(err, "checking classroom access")
	}
	if access != accessManage {
		return errHttpForbidden
	}
	return nil
}

func (api *assignmentApi) assign(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.checkManage(ctx, *data.ClassroomID); err != nil {
		return err
	}

	a, err := api.svc.AssignTest(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "assigning test")
	}
	return ctx.JSON(http.StatusCreated, AssignmentResponse{Message: "Test assigned successfully", Assignment: a})
}

func (api *assignmentApi) unassign(ctx echo.Context) error {
	classroomID, testID := ctx.Param("cid"), ctx.Param("tid")
	if err := api.checkManage(ctx, classroomID); err != nil {
		return err
	}

	if err := api.svc.RemoveAssignment(ctx.Request().Context(), classroomID, testID); err != nil {
		return errors.Wrap(err, "removing assignment")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Assignment removed"})
}

func (api *assignmentApi) queryClassroom(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	reqCtx := ctx.Request().Context()

	_, access, err := getClassroomAccess(reqCtx, api.clsSvc, claims, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking classroom access")
	}
	if access == accessNone {
		return errHttpForbidden
	}

	// enrolled students only see visible assignments
	summaries, err := api.svc.ListClassroomAssignments(reqCtx, ctx.Param("id"), access != accessManage)
	if err != nil {
		return errors.Wrap(err, "listing classroom assignments")
	}
	return ctx.JSON(http.StatusOK, summaries)
}

type AssignmentResponse struct {
	Message string `json:"message"`
	assignment.Assignment
}
