package session

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core"
)

type (
	Repository interface {
		CreateSession(sess Session) (Session, error)
		GetSessionByID(id string) (Session, error)
		QueryAllSessions() ([]Session, error)
		// FilterSessions applies AND operation on available QueryFilter fields.
		FilterSessions(filter QueryFilter, ordering ...core.DBOrdering) ([]Session, error)
		// UpdateSessionFromStatus persists sess only if the stored record's
		// status still equals from; it returns core.ConflictError otherwise.
		// This is the optimistic check serializing concurrent transitions.
		UpdateSessionFromStatus(sess Session, from Status) (Session, error)
		DeleteSessionsByID(ids ...string) error
	}

	// TeacherDirectory resolves a teacher's mailbox for notifications.
	TeacherDirectory interface {
		GetTeacherAddress(teacherID string) (mail.Address, error)
	}

	Service struct {
		repo     Repository
		teachers TeacherDirectory
		mailSvc  core.EmailService
		logger   core.Logger
	}
)

func NewService(repo Repository, teachers TeacherDirectory, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		teachers: teachers,
		mailSvc:  mailSvc,
		logger:   logger,
	}
}

// Create declares a new session on behalf of a teacher. The session enters
// the flow in PENDING_REVIEW with a default weight of 1 hour.
func (svc *Service) Create(ns NewSession) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		ID:              uuid.New().String(),
		TeacherID:       ns.TeacherID,
		Date:            ns.Date,
		TimeSlot:        ns.TimeSlot,
		Type:            ns.Type,
		Status:          StatusPendingReview,
		Hours:           1,
		ClassName:       ns.ClassName,
		ReplacedTeacher: ns.ReplacedTeacher,
		StudentCount:    ns.StudentCount,
		StudentsList:    ns.StudentsList,
		Description:     ns.Description,
		Comment:         ns.Comment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateSession(sess)
}

func (svc *Service) GetByID(id string) (Session, error) {
	return svc.repo.GetSessionByID(id)
}

func (svc *Service) QueryAll() ([]Session, error) {
	return svc.repo.QueryAllSessions()
}

func (svc *Service) Filter(filter QueryFilter, ordering ...core.DBOrdering) ([]Session, error) {
	return svc.repo.FilterSessions(filter, ordering...)
}

// Transition applies a single status change to one session. It reads the
// record, runs the state machine, then persists with a compare-and-swap on
// the original status so a concurrent actor surfaces as core.ConflictError
// rather than a lost update.
func (svc *Service) Transition(id string, tr Transition) (Session, error) {
	sess, err := svc.repo.GetSessionByID(id)
	if err != nil {
		return Session{}, err
	}

	updated, err := Apply(sess, tr)
	if err != nil {
		return Session{}, err
	}

	updated, err = svc.repo.UpdateSessionFromStatus(updated, sess.Status)
	if err != nil {
		return Session{}, err
	}

	if tr.Action == ActionRequestInfo {
		svc.notifyInfoRequested(updated)
	}
	return updated, nil
}

// Delete removes sessions for good, principal only. All derived accounting
// contributions disappear with them.
func (svc *Service) Delete(actor Role, ids ...string) error {
	if actor != RolePrincipal {
		return &ForbiddenError{Role: actor, Action: ActionDelete}
	}
	return svc.repo.DeleteSessionsByID(ids...)
}

func (svc *Service) notifyInfoRequested(sess Session) {
	addr, err := svc.teachers.GetTeacherAddress(sess.TeacherID)
	if err != nil {
		svc.logger.Error("resolving teacher address", errors.Wrap(err, "resolving teacher address"))
		return
	}
	body := fmt.Sprintf(
		"The secretariat needs more information about your %s session of %s (%s).",
		sess.Type, sess.Date.Format("2006-01-02"), sess.TimeSlot,
	)
	if sess.ReviewComments != "" {
		body += "\n\n" + sess.ReviewComments
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{addr},
		Subject: "More information needed on a declared session",
		BodyStr: body,
	})
}
