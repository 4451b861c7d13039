// Package inmemdb provides mutex-guarded in-memory repositories, used in
// DEV mode and by the test suites.
package inmemdb

import (
	"sync"

	"github.com/trezcool/pacta/core/pacte"
	"github.com/trezcool/pacta/core/quota"
	"github.com/trezcool/pacta/core/session"
	"github.com/trezcool/pacta/core/user"
)

type (
	DB struct {
		user     *userTable
		session  *sessionTable
		budget   *budgetTable
		contract *contractTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	sessionTable struct {
		table map[string]*session.Session
		mutex sync.RWMutex
	}

	budgetTable struct {
		table quota.Budgets
		mutex sync.RWMutex
	}

	contractTable struct {
		table map[string]*pacte.Contract
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		session:  &sessionTable{table: make(map[string]*session.Session)},
		budget:   &budgetTable{table: make(quota.Budgets)},
		contract: &contractTable{table: make(map[string]*pacte.Contract)},
	}
	return db, nil
}
