// Package quota aggregates validated session hours against the
// institution-wide annual budgets set by the principal.
package quota

import (
	"github.com/trezcool/pacta/core/session"
)

// LedgerTypes are the session types holding an institution budget. AUTRE
// never appears here: it must be converted before it can be validated.
var LedgerTypes = []session.Type{session.TypeHSE, session.TypeDevoirsFaits, session.TypeRCD}

// Budgets holds the administrator-set budget hours per session type. An
// absent type simply has a zero budget, never an "unset" one.
type Budgets map[session.Type]float64

// Entry is the derived ledger line for one session type.
type Entry struct {
	Type          session.Type `json:"type"`
	BudgetHours   float64      `json:"budget_hours"`
	ConsumedHours float64      `json:"consumed_hours"`
	Percentage    float64      `json:"percentage"`
}

// Recompute derives the full ledger from scratch. Consumed hours sum the
// Hours of sessions whose status is VALIDATED or PAID; pending and rejected
// sessions never count. Budgets only scale the percentage: updating them
// never retroactively changes consumption.
func Recompute(sessions []session.Session, budgets Budgets) []Entry {
	consumed := make(map[session.Type]float64, len(LedgerTypes))
	for i := range sessions {
		s := &sessions[i]
		if s.CountsTowardQuota() {
			consumed[s.Type] += s.Hours
		}
	}

	entries := make([]Entry, 0, len(LedgerTypes))
	for _, typ := range LedgerTypes {
		e := Entry{
			Type:          typ,
			BudgetHours:   budgets[typ],
			ConsumedHours: consumed[typ],
		}
		if e.BudgetHours > 0 {
			e.Percentage = e.ConsumedHours / e.BudgetHours * 100
			if e.Percentage > 100 {
				e.Percentage = 100
			}
		}
		entries = append(entries, e)
	}
	return entries
}
