package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core/pacte"
)

type pacteApi struct {
	svc *pacte.Service
}

func registerPacteAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *pacte.Service) {
	api := pacteApi{svc: svc}

	pg := g.Group("/pacte", jwt)
	pg.GET("/stats", api.stats, staffMiddleware())

	dg := pg.Group("/:teacherID")
	dg.GET("", api.retrieve)
	dg.PUT("", api.set, principalMiddleware())
	dg.GET("/progress", api.progress)
}

// Handlers

func (api *pacteApi) retrieve(ctx echo.Context) error {
	teacherID, err := api.teacherID(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.Get(teacherID)
	if err != nil {
		return errors.Wrap(err, "getting contract")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *pacteApi) set(ctx echo.Context) error {
	var data pacte.SetContract
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetContract")
	}

	c, err := api.svc.Set(ctx.Param("teacherID"), data)
	if err != nil {
		return errors.Wrap(err, "setting contract")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *pacteApi) progress(ctx echo.Context) error {
	teacherID, err := api.teacherID(ctx)
	if err != nil {
		return err
	}
	view, err := api.svc.View(teacherID)
	if err != nil {
		return errors.Wrap(err, "recomputing progress")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *pacteApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "recomputing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

// teacherID resolves the target teacher; teachers can only consult their own
// contract.
func (api *pacteApi) teacherID(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}
	teacherID := ctx.Param("teacherID")
	if claims.IsTeacher() && teacherID != claims.Subject {
		return "", errHttpNotFound
	}
	return teacherID, nil
}
