// Package pacte models the per-teacher PACTE contract: a committed number of
// DEVOIRS_FAITS and RCD hours per year, reconciled against manually entered
// legacy hours and the sessions declared in this system.
package pacte

import (
	"time"

	"github.com/trezcool/pacta/core/session"
)

// Contract holds a teacher's PACTE parameters. Disabling InPacte keeps every
// figure so re-enabling restores history; the teacher is merely excluded from
// aggregate statistics while disabled.
type Contract struct {
	TeacherID string `json:"teacher_id"`
	InPacte   bool   `json:"in_pacte"`

	// contracted targets
	HoursDF  float64 `json:"hours_df"`
	HoursRCD float64 `json:"hours_rcd"`

	// manually entered hours completed before this system
	CompletedHoursDF  float64 `json:"completed_hours_df"`
	CompletedHoursRCD float64 `json:"completed_hours_rcd"`

	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (c Contract) TotalContract() float64 { return c.HoursDF + c.HoursRCD }

// View is the derived progress report for one contract.
type View struct {
	Contract

	RealizedDF    float64 `json:"realized_df"`
	RealizedRCD   float64 `json:"realized_rcd"`
	TotalRealized float64 `json:"total_realized"`
	Remaining     float64 `json:"remaining"`
}

// ComputeView derives a teacher's PACTE progress from their contract and the
// current session set. Every declared session counts as exactly one realized
// hour whatever its status; this is deliberately a looser rule than the quota
// ledger's VALIDATED/PAID one, matching the teacher-facing dashboards.
func ComputeView(c Contract, sessions []session.Session) View {
	v := View{
		Contract:    c,
		RealizedDF:  c.CompletedHoursDF,
		RealizedRCD: c.CompletedHoursRCD,
	}
	for i := range sessions {
		s := &sessions[i]
		if s.TeacherID != c.TeacherID {
			continue
		}
		switch s.Type {
		case session.TypeDevoirsFaits:
			v.RealizedDF++
		case session.TypeRCD:
			v.RealizedRCD++
		}
	}
	v.TotalRealized = v.RealizedDF + v.RealizedRCD
	v.Remaining = c.TotalContract() - v.TotalRealized
	if v.Remaining < 0 {
		v.Remaining = 0
	}
	return v
}

// Stats aggregates PACTE progress over all enabled contracts.
type Stats struct {
	Teachers      int     `json:"teachers"`
	TotalContract float64 `json:"total_contract"`
	TotalRealized float64 `json:"total_realized"`
	Remaining     float64 `json:"remaining"`
}

// ComputeStats sums the views of enabled contracts only; disabled teachers
// keep their figures but stay out of the aggregates.
func ComputeStats(contracts []Contract, sessions []session.Session) Stats {
	var st Stats
	for _, c := range contracts {
		if !c.InPacte {
			continue
		}
		v := ComputeView(c, sessions)
		st.Teachers++
		st.TotalContract += v.TotalContract()
		st.TotalRealized += v.TotalRealized
		st.Remaining += v.Remaining
	}
	return st
}
