package inmemdb

import (
	"sort"

	"github.com/trezcool/pacta/core/pacte"
)

type contractRepository struct {
	db *contractTable
}

var _ pacte.Repository = (*contractRepository)(nil)

func NewContractRepository(db *DB) pacte.Repository {
	return &contractRepository{db: db.contract}
}

func (repo *contractRepository) GetContract(teacherID string) (pacte.Contract, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if c, ok := repo.db.table[teacherID]; ok {
		return *c, nil
	}
	return pacte.Contract{}, pacte.ErrNotFound
}

func (repo *contractRepository) QueryAllContracts() ([]pacte.Contract, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	contracts := make([]pacte.Contract, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		contracts = append(contracts, *c)
	}
	sort.Slice(contracts, func(i, j int) bool { return contracts[i].TeacherID < contracts[j].TeacherID })
	return contracts, nil
}

func (repo *contractRepository) UpsertContract(c pacte.Contract) (pacte.Contract, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[c.TeacherID] = &c
	return c, nil
}
