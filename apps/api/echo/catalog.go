package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core/catalog"
)

type catalogApi struct {
	svc      *catalog.Service
	validate *validator.Validate
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := catalogApi{
		svc:      s.deps.CatalogSvc,
		validate: s.deps.Validate,
	}

	cg := g.Group("/categories", jwt)
	cg.POST("", api.createCategory, staffMiddleware())
	cg.GET("", api.queryCategories)

	ug := g.Group("/units", jwt)
	ug.POST("", api.createUnit, staffMiddleware())
	ug.GET("", api.queryUnits)
}

func (api *catalogApi) bindLabel(ctx echo.Context) (catalog.NewLabel, error) {
	var data catalog.NewLabel
	if err := ctx.Bind(&data); err != nil {
		return catalog.NewLabel{}, errors.Wrap(err, "binding to NewLabel")
	}
	if err := data.Validate(api.validate); err != nil {
		return catalog.NewLabel{}, err
	}
	return data, nil
}

func (api *catalogApi) createCategory(ctx echo.Context) error {
	data, err := api.bindLabel(ctx)
	if err != nil {
		return err
	}
	cat, err := api.svc.CreateCategory(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating category")
	}
	return ctx.JSON(http.StatusCreated, cat)
}

func (api *catalogApi) queryCategories(ctx echo.Context) error {
	cats, err := api.svc.Categories(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	return ctx.JSON(http.StatusOK, cats)
}

func (api *catalogApi) createUnit(ctx echo.Context) error {
	data, err := api.bindLabel(ctx)
	if err != nil {
		return err
	}
	u, err := api.svc.CreateUnit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating unit")
	}
	return ctx.JSON(http.StatusCreated, u)
}

func (api *catalogApi) queryUnits(ctx echo.Context) error {
	units, err := api.svc.Units(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying units")
	}
	return ctx.JSON(http.StatusOK, units)
}
