package quota

import (
	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core"
	"github.com/trezcool/pacta/core/session"
)

var (
	errUnknownType  = errors.New("no budget is held for this session type")
	errNegativeGoal = errors.New("budget hours cannot be negative")
)

type (
	Repository interface {
		GetBudgets() (Budgets, error)
		SetBudget(typ session.Type, hours float64) error
	}

	// SessionSource provides the consistent session snapshot the ledger is
	// recomputed from on every read.
	SessionSource interface {
		QueryAll() ([]session.Session, error)
	}

	Service struct {
		repo     Repository
		sessions SessionSource
	}
)

func NewService(repo Repository, sessions SessionSource) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Ledger recomputes the full ledger from the current session set and budgets.
func (svc *Service) Ledger() ([]Entry, error) {
	sessions, err := svc.sessions.QueryAll()
	if err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	budgets, err := svc.repo.GetBudgets()
	if err != nil {
		return nil, errors.Wrap(err, "querying budgets")
	}
	return Recompute(sessions, budgets), nil
}

func (svc *Service) Budgets() (Budgets, error) {
	return svc.repo.GetBudgets()
}

// SetBudget updates the annual hour allowance of one session type.
func (svc *Service) SetBudget(typ session.Type, hours float64) error {
	var known bool
	for _, t := range LedgerTypes {
		if t == typ {
			known = true
			break
		}
	}
	if !known {
		return core.NewValidationError(errUnknownType, core.FieldError{
			Field: "type", Error: errUnknownType.Error(),
		})
	}
	if hours < 0 {
		return core.NewValidationError(errNegativeGoal, core.FieldError{
			Field: "budget_hours", Error: errNegativeGoal.Error(),
		})
	}
	return svc.repo.SetBudget(typ, hours)
}
