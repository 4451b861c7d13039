package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core"
	"github.com/trezcool/pacta/core/quota"
	"github.com/trezcool/pacta/core/session"
)

type quotaApi struct {
	svc *quota.Service
}

func registerQuotaAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *quota.Service) {
	api := quotaApi{svc: svc}

	qg := g.Group("/quota", jwt, staffMiddleware())
	qg.GET("", api.ledger)
	qg.GET("/budgets", api.budgets)
	qg.PUT("/budgets", api.setBudget, principalMiddleware())
}

// Handlers

func (api *quotaApi) ledger(ctx echo.Context) error {
	entries, err := api.svc.Ledger()
	if err != nil {
		return errors.Wrap(err, "recomputing ledger")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *quotaApi) budgets(ctx echo.Context) error {
	budgets, err := api.svc.Budgets()
	if err != nil {
		return errors.Wrap(err, "querying budgets")
	}
	return ctx.JSON(http.StatusOK, budgets)
}

func (api *quotaApi) setBudget(ctx echo.Context) error {
	var data SetBudgetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetBudgetRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.SetBudget(session.Type(data.Type), data.BudgetHours); err != nil {
		return errors.Wrap(err, "setting budget")
	}

	entries, err := api.svc.Ledger()
	if err != nil {
		return errors.Wrap(err, "recomputing ledger")
	}
	return ctx.JSON(http.StatusOK, entries)
}

type SetBudgetRequest struct {
	Type        string  `json:"type" validate:"required"`
	BudgetHours float64 `json:"budget_hours"`
}

func (sb *SetBudgetRequest) Validate() error {
	sb.Type = core.CleanString(sb.Type)
	return core.Validate.Struct(sb)
}
