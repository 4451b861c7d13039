package inmemdb

import (
	"sort"

	"github.com/trezcool/pacta/core"
	"github.com/trezcool/pacta/core/session"
)

type sessionRepository struct {
	db *sessionTable
}

var _ session.Repository = (*sessionRepository)(nil)

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) query() []session.Session {
	sessions := make([]session.Session, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		sessions = append(sessions, *s)
	}
	// stable listing order for tests and dashboards
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CreatedAt.Before(sessions[j].CreatedAt) })
	return sessions
}

func (repo *sessionRepository) CreateSession(sess session.Session) (session.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[sess.ID] = &sess
	return sess, nil
}

func (repo *sessionRepository) GetSessionByID(id string) (session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sess, ok := repo.db.table[id]; ok {
		return *sess, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) QueryAllSessions() ([]session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *sessionRepository) FilterSessions(filter session.QueryFilter, ordering ...core.DBOrdering) ([]session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matched := make([]session.Session, 0)
	for _, sess := range repo.query() {
		if matchesFilter(sess, filter) {
			matched = append(matched, sess)
		}
	}
	return matched, nil
}

func matchesFilter(sess session.Session, filter session.QueryFilter) bool {
	if filter.TeacherID != "" && sess.TeacherID != filter.TeacherID {
		return false
	}
	if filter.TimeSlot != "" && sess.TimeSlot != filter.TimeSlot {
		return false
	}
	if filter.Types != nil && !containsType(filter.Types, sess.Type) {
		return false
	}
	if filter.Statuses != nil && !containsStatus(filter.Statuses, sess.Status) {
		return false
	}
	if !filter.DateFrom.IsZero() && sess.Date.Before(filter.DateFrom) {
		return false
	}
	if !filter.DateTo.IsZero() && sess.Date.After(filter.DateTo) {
		return false
	}
	if !filter.CreatedBefore.IsZero() && !sess.CreatedAt.Before(filter.CreatedBefore) {
		return false
	}
	return true
}

func containsType(types []session.Type, typ session.Type) bool {
	for _, t := range types {
		if t == typ {
			return true
		}
	}
	return false
}

func containsStatus(statuses []session.Status, status session.Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (repo *sessionRepository) UpdateSessionFromStatus(sess session.Session, from session.Status) (session.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[sess.ID]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	if orig.Status != from {
		return session.Session{}, core.NewConflictError("session", sess.ID)
	}

	// immutable fields survive whatever the caller sends
	sess.TeacherID = orig.TeacherID
	sess.Date = orig.Date
	sess.TimeSlot = orig.TimeSlot
	sess.CreatedAt = orig.CreatedAt

	repo.db.table[sess.ID] = &sess
	return sess, nil
}

func (repo *sessionRepository) DeleteSessionsByID(ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
