package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core"
	"github.com/trezcool/pacta/core/session"
)

type sessionApi struct {
	svc *session.Service
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *session.Service) {
	api := sessionApi{svc: svc}

	sg := g.Group("/sessions", jwt)
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.GET("/pending", api.queryPending, staffMiddleware())
	sg.POST("/batch", api.transitionMultiple, staffMiddleware())
	sg.DELETE("", api.destroyMultiple, principalMiddleware())

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.POST("/transition", api.transition, staffMiddleware())
	dg.DELETE("", api.destroy, principalMiddleware())
}

// Handlers

func (api *sessionApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data session.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	// teachers declare their own sessions; staff may declare on a teacher's behalf
	if claims.IsTeacher() || data.TeacherID == "" {
		data.TeacherID = claims.Subject
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *sessionApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := new(session.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []session.Session{})
	}
	filter.Clean()
	// teachers only ever see their own declarations
	if claims.IsTeacher() {
		filter.TeacherID = claims.Subject
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	var sessions []session.Session
	if filter.IsEmpty() && ordering.Orderings == nil {
		sessions, err = api.svc.QueryAll()
	} else {
		sessions, err = api.svc.Filter(*filter, ordering.Orderings...)
	}
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []session.Session{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

// queryPending lists sessions still awaiting a decision, oldest first; with
// ?created_before= it surfaces the "pending too long" ones.
func (api *sessionApi) queryPending(ctx echo.Context) error {
	filter := new(session.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []session.Session{})
	}
	filter.Clean()
	filter.Statuses = session.PendingStatuses

	sessions, err := api.svc.Filter(*filter, core.DBOrdering{Field: "created_at", Ascending: true})
	if err != nil {
		return errors.Wrap(err, "querying pending sessions")
	}
	if sessions == nil {
		sessions = []session.Session{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sess, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == session.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding session by ID")
	}
	if claims.IsTeacher() && sess.TeacherID != claims.Subject {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) transition(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data TransitionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TransitionRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess, err := api.svc.Transition(ctx.Param("id"), session.Transition{
		Action:     session.Action(data.Action),
		Actor:      session.Role(claims.Role),
		Comment:    data.Comment,
		Conversion: data.conversion(),
	})
	if err != nil {
		return errors.Wrap(err, "transitioning session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) transitionMultiple(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data BatchTransitionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BatchTransitionRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.TransitionMany(data.IDs, session.Action(data.Action), session.Role(claims.Role))
	if err != nil {
		return errors.Wrap(err, "transitioning sessions")
	}

	code := http.StatusOK
	if res.HasFailures() {
		code = http.StatusMultiStatus
	}
	return ctx.JSON(code, res)
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err := api.svc.Delete(session.Role(claims.Role), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) destroyMultiple(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(session.Role(claims.Role), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting sessions")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	TransitionRequest struct {
		Action  string `json:"action" validate:"required"`
		Comment string `json:"comment"`

		// conversion options, validate action only
		ConversionType string  `json:"conversion_type"` // RCD | DEVOIRS_FAITS | HSE; AUTRE sessions only
		Hours          float64 `json:"hours"`
		ToHSE          bool    `json:"to_hse"` // re-bucket an RCD|DEVOIRS_FAITS session as HSE
	}

	BatchTransitionRequest struct {
		IDs    []string `json:"ids" validate:"required"`
		Action string   `json:"action" validate:"required"`
	}
)

func (tr *TransitionRequest) Validate() error {
	tr.Action = core.CleanString(tr.Action, true /* lower */)
	tr.Comment = core.CleanString(tr.Comment)
	tr.ConversionType = core.CleanString(tr.ConversionType)
	return core.Validate.Struct(tr)
}

func (tr *TransitionRequest) conversion() session.ConversionRequest {
	switch {
	case tr.ConversionType != "":
		return session.ConvertTo(session.Type(tr.ConversionType), tr.Hours)
	case tr.ToHSE:
		return session.ConvertToHSE()
	}
	return session.NoConversion()
}

func (br *BatchTransitionRequest) Validate() error {
	br.Action = core.CleanString(br.Action, true /* lower */)
	return core.Validate.Struct(br)
}
