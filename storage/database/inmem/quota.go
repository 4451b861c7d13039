package inmemdb

import (
	"github.com/trezcool/pacta/core/quota"
	"github.com/trezcool/pacta/core/session"
)

type budgetRepository struct {
	db *budgetTable
}

var _ quota.Repository = (*budgetRepository)(nil)

func NewBudgetRepository(db *DB) quota.Repository {
	return &budgetRepository{db: db.budget}
}

func (repo *budgetRepository) GetBudgets() (quota.Budgets, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	budgets := make(quota.Budgets, len(repo.db.table))
	for typ, hours := range repo.db.table {
		budgets[typ] = hours
	}
	return budgets, nil
}

func (repo *budgetRepository) SetBudget(typ session.Type, hours float64) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[typ] = hours
	return nil
}
