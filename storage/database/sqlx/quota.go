package sqlxrepos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core/quota"
	"github.com/trezcool/pacta/core/session"
)

type budgetRow struct {
	SessionType string  `db:"session_type"`
	Hours       float64 `db:"hours"`
}

type quotaRepository struct {
	db *sqlx.DB
}

var _ quota.Repository = (*quotaRepository)(nil)

func NewQuotaRepository(db *sqlx.DB) *quotaRepository {
	return &quotaRepository{db: db}
}

func (repo *quotaRepository) GetBudgets() (quota.Budgets, error) {
	var rows []budgetRow
	if err := repo.db.Select(&rows, `SELECT * FROM quota_budget`); err != nil {
		return nil, errors.Wrap(err, "querying budgets")
	}
	budgets := make(quota.Budgets, len(rows))
	for _, row := range rows {
		budgets[session.Type(row.SessionType)] = row.Hours
	}
	return budgets, nil
}

const budgetUpsert = `
INSERT INTO quota_budget (session_type, hours)
VALUES (:session_type, :hours)
ON CONFLICT (session_type) DO UPDATE SET hours = EXCLUDED.hours`

func (repo *quotaRepository) SetBudget(typ session.Type, hours float64) error {
	row := budgetRow{SessionType: string(typ), Hours: hours}
	if _, err := repo.db.NamedExec(budgetUpsert, row); err != nil {
		return errors.Wrap(err, "upserting budget")
	}
	return nil
}
