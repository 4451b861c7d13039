package pacte

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core"
	"github.com/trezcool/pacta/core/session"
)

var (
	ErrNotFound = errors.New("contract not found")

	errNegativeHours = errors.New("contract hours cannot be negative")
)

type (
	Repository interface {
		GetContract(teacherID string) (Contract, error)
		QueryAllContracts() ([]Contract, error)
		UpsertContract(c Contract) (Contract, error)
	}

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

// Get returns a teacher's contract; a teacher without one gets the zero
// contract (not enrolled), never an error.
func (svc *Service) Get(teacherID string) (Contract, error) {
	c, err := svc.repo.GetContract(teacherID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Contract{TeacherID: teacherID}, nil
		}
		return Contract{}, err
	}
	return c, nil
}

// SetContract holds the updatable contract parameters. Nil fields are left
// untouched.
type SetContract struct {
	InPacte           *bool    `json:"in_pacte"`
	HoursDF           *float64 `json:"hours_df"`
	HoursRCD          *float64 `json:"hours_rcd"`
	CompletedHoursDF  *float64 `json:"completed_hours_df"`
	CompletedHoursRCD *float64 `json:"completed_hours_rcd"`
}

// Set updates a teacher's contract parameters. Enabling PACTE without target
// hours leaves them at 0 (any default annual volume is the caller's policy);
// disabling preserves every figure.
func (svc *Service) Set(teacherID string, sc SetContract) (Contract, error) {
	for _, h := range []*float64{sc.HoursDF, sc.HoursRCD, sc.CompletedHoursDF, sc.CompletedHoursRCD} {
		if h != nil && *h < 0 {
			return Contract{}, core.NewValidationError(errNegativeHours)
		}
	}

	c, err := svc.Get(teacherID)
	if err != nil {
		return Contract{}, err
	}
	if sc.InPacte != nil {
		c.InPacte = *sc.InPacte
	}
	if sc.HoursDF != nil {
		c.HoursDF = *sc.HoursDF
	}
	if sc.HoursRCD != nil {
		c.HoursRCD = *sc.HoursRCD
	}
	if sc.CompletedHoursDF != nil {
		c.CompletedHoursDF = *sc.CompletedHoursDF
	}
	if sc.CompletedHoursRCD != nil {
		c.CompletedHoursRCD = *sc.CompletedHoursRCD
	}
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpsertContract(c)
}

// View recomputes a teacher's PACTE progress from the current session set.
func (svc *Service) View(teacherID string) (View, error) {
	c, err := svc.Get(teacherID)
	if err != nil {
		return View{}, err
	}
	sessions, err := svc.sessions.QueryAll()
	if err != nil {
		return View{}, errors.Wrap(err, "querying sessions")
	}
	return ComputeView(c, sessions), nil
}

// Stats recomputes the aggregate figures over enabled contracts.
func (svc *Service) Stats() (Stats, error) {
	contracts, err := svc.repo.QueryAllContracts()
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying contracts")
	}
	sessions, err := svc.sessions.QueryAll()
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying sessions")
	}
	return ComputeStats(contracts, sessions), nil
}
