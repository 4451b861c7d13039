package session

import (
	"net/mail"
	"sort"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core"
)

type fakeRepo struct {
	table map[string]Session
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{table: make(map[string]Session)}
}

func (repo *fakeRepo) CreateSession(sess Session) (Session, error) {
	repo.table[sess.ID] = sess
	return sess, nil
}

func (repo *fakeRepo) GetSessionByID(id string) (Session, error) {
	if sess, ok := repo.table[id]; ok {
		return sess, nil
	}
	return Session{}, ErrNotFound
}

func (repo *fakeRepo) QueryAllSessions() ([]Session, error) {
	sessions := make([]Session, 0, len(repo.table))
	for _, sess := range repo.table {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

func (repo *fakeRepo) FilterSessions(filter QueryFilter, ordering ...core.DBOrdering) ([]Session, error) {
	matched := make([]Session, 0)
	all, _ := repo.QueryAllSessions()
	for _, sess := range all {
		if filter.TeacherID != "" && sess.TeacherID != filter.TeacherID {
			continue
		}
		matched = append(matched, sess)
	}
	return matched, nil
}

func (repo *fakeRepo) UpdateSessionFromStatus(sess Session, from Status) (Session, error) {
	orig, ok := repo.table[sess.ID]
	if !ok {
		return Session{}, ErrNotFound
	}
	if orig.Status != from {
		return Session{}, core.NewConflictError("session", sess.ID)
	}
	repo.table[sess.ID] = sess
	return sess, nil
}

func (repo *fakeRepo) DeleteSessionsByID(ids ...string) error {
	for _, id := range ids {
		delete(repo.table, id)
	}
	return nil
}

type fakeDirectory struct{}

func (fakeDirectory) GetTeacherAddress(teacherID string) (mail.Address, error) {
	return mail.Address{Name: "T " + teacherID, Address: teacherID + "@test.cd"}, nil
}

type fakeMailSvc struct {
	sent []*core.EmailMessage
}

func (svc *fakeMailSvc) SendMessages(messages ...*core.EmailMessage) {
	svc.sent = append(svc.sent, messages...)
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func newTestService() (*Service, *fakeRepo, *fakeMailSvc) {
	repo := newFakeRepo()
	mailSvc := &fakeMailSvc{}
	return NewService(repo, fakeDirectory{}, mailSvc, nopLogger{}), repo, mailSvc
}

func TestService_Create(t *testing.T) {
	svc, _, _ := newTestService()

	sess, err := svc.Create(NewSession{
		TeacherID:       "t1",
		Date:            time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		TimeSlot:        SlotM2,
		Type:            TypeRCD,
		ClassName:       "3B",
		ReplacedTeacher: "M. Dupont",
		Comment:         "short notice",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if sess.ID == "" {
		t.Error("ID not assigned")
	}
	if sess.Status != StatusPendingReview {
		t.Errorf("Status = %s; want %s", sess.Status, StatusPendingReview)
	}
	if sess.Hours != 1 {
		t.Errorf("Hours = %v; want 1", sess.Hours)
	}
	if sess.OriginalType != "" {
		t.Errorf("OriginalType = %s; want empty", sess.OriginalType)
	}
	if sess.CreatedAt.IsZero() || !sess.CreatedAt.Equal(sess.UpdatedAt) {
		t.Error("timestamps not initialized")
	}
}

func TestService_Transition(t *testing.T) {
	svc, repo, mailSvc := newTestService()

	sess, _ := repo.CreateSession(pendingSession(TypeRCD, StatusPendingReview))

	got, err := svc.Transition(sess.ID, Transition{Action: ActionTransmit, Actor: RoleSecretariat})
	if err != nil {
		t.Fatalf("Transition() failed: %v", err)
	}
	if got.Status != StatusPendingValidation {
		t.Errorf("Status = %s; want %s", got.Status, StatusPendingValidation)
	}

	// persisted
	stored, _ := repo.GetSessionByID(sess.ID)
	if stored.Status != StatusPendingValidation {
		t.Errorf("stored Status = %s; want %s", stored.Status, StatusPendingValidation)
	}

	// no notification on transmit
	if len(mailSvc.sent) != 0 {
		t.Errorf("sent %d mails; want 0", len(mailSvc.sent))
	}

	if _, err = svc.Transition("nope", Transition{Action: ActionTransmit, Actor: RoleSecretariat}); errors.Cause(err) != ErrNotFound {
		t.Errorf("Transition() error = %v; want %v", err, ErrNotFound)
	}
}

func TestService_Transition_notifiesInfoRequested(t *testing.T) {
	svc, repo, mailSvc := newTestService()

	sess, _ := repo.CreateSession(pendingSession(TypeRCD, StatusPendingReview))

	if _, err := svc.Transition(sess.ID, Transition{
		Action: ActionRequestInfo, Actor: RoleSecretariat, Comment: "missing attestation",
	}); err != nil {
		t.Fatalf("Transition() failed: %v", err)
	}

	if len(mailSvc.sent) != 1 {
		t.Fatalf("sent %d mails; want 1", len(mailSvc.sent))
	}
	msg := mailSvc.sent[0]
	if len(msg.To) != 1 || msg.To[0].Address != "t1@test.cd" {
		t.Errorf("To = %v", msg.To)
	}
	if msg.BodyStr == "" {
		t.Error("empty mail body")
	}
}

func TestService_Transition_concurrentConflict(t *testing.T) {
	svc, repo, _ := newTestService()

	sess, _ := repo.CreateSession(pendingSession(TypeRCD, StatusPendingValidation))

	// another actor validates the session after our read
	staleRepoState := repo.table[sess.ID]
	staleRepoState.Status = StatusValidated
	repo.table[sess.ID] = staleRepoState

	// CanTransition says reject is fine from the stale read, but the CAS
	// update must refuse it
	raced := sess
	updated, err := Apply(raced, Transition{Action: ActionReject, Actor: RolePrincipal})
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if _, err = repo.UpdateSessionFromStatus(updated, raced.Status); err == nil {
		t.Fatal("UpdateSessionFromStatus() expected conflict")
	} else if _, ok := errors.Cause(err).(*core.ConflictError); !ok {
		t.Errorf("error = %T (%v); want *core.ConflictError", err, err)
	}

	// and the full service path surfaces it too once statuses diverge
	if _, err = svc.Transition(sess.ID, Transition{Action: ActionMarkPaid, Actor: RoleSecretariat}); err != nil {
		t.Fatalf("Transition() failed: %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo, _ := newTestService()

	sess, _ := repo.CreateSession(pendingSession(TypeRCD, StatusPendingReview))

	if err := svc.Delete(RoleSecretariat, sess.ID); err == nil {
		t.Error("Delete() expected ForbiddenError for secretariat")
	} else if _, ok := err.(*ForbiddenError); !ok {
		t.Errorf("error = %T; want *ForbiddenError", err)
	}
	if err := svc.Delete(RoleTeacher, sess.ID); err == nil {
		t.Error("Delete() expected ForbiddenError for teacher")
	}

	if err := svc.Delete(RolePrincipal, sess.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.GetSessionByID(sess.ID); err != ErrNotFound {
		t.Error("session not deleted")
	}
}
