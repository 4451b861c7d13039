package session

import (
	"time"

	"github.com/trezcool/pacta/core"
)

// Session types
const (
	// TypeRCD is a short-duration substitution for an absent colleague.
	TypeRCD Type = "RCD"
	// TypeDevoirsFaits is a supervised homework-help session.
	TypeDevoirsFaits Type = "DEVOIRS_FAITS"
	// TypeAutre is an uncategorized activity; the principal picks its final
	// type during validation.
	TypeAutre Type = "AUTRE"
	// TypeHSE is an extra-duty hour, paid individually outside the PACTE contract.
	TypeHSE Type = "HSE"
)

// Time slots: 4 morning + 4 afternoon periods per day.
const (
	SlotM1 TimeSlot = "M1"
	SlotM2 TimeSlot = "M2"
	SlotM3 TimeSlot = "M3"
	SlotM4 TimeSlot = "M4"
	SlotS1 TimeSlot = "S1"
	SlotS2 TimeSlot = "S2"
	SlotS3 TimeSlot = "S3"
	SlotS4 TimeSlot = "S4"
)

// Statuses
const (
	StatusPendingReview     Status = "PENDING_REVIEW"
	StatusPendingDocuments  Status = "PENDING_DOCUMENTS"
	StatusPendingValidation Status = "PENDING_VALIDATION"
	StatusValidated         Status = "VALIDATED"
	StatusRejected          Status = "REJECTED"
	StatusPaid              Status = "PAID"
)

type (
	Type     string
	TimeSlot string
	Status   string
)

var (
	AllTypes     = []Type{TypeRCD, TypeDevoirsFaits, TypeAutre, TypeHSE}
	AllTimeSlots = []TimeSlot{SlotM1, SlotM2, SlotM3, SlotM4, SlotS1, SlotS2, SlotS3, SlotS4}
	AllStatuses  = []Status{
		StatusPendingReview, StatusPendingDocuments, StatusPendingValidation,
		StatusValidated, StatusRejected, StatusPaid,
	}

	// PendingStatuses are the statuses awaiting a secretariat or principal
	// decision; used by dashboards and SLA queries.
	PendingStatuses = []Status{StatusPendingReview, StatusPendingDocuments, StatusPendingValidation}
)

// Session is a declared substitution / extra-duty teaching session.
//
// TeacherID, Date, TimeSlot and CreatedAt are immutable after creation; a
// teacher has at most one session per (Date, TimeSlot) pair, enforced by the
// scheduling surface at creation/edit time.
type Session struct {
	ID        string    `json:"id"`
	TeacherID string    `json:"teacher_id"`
	Date      time.Time `json:"date"`
	TimeSlot  TimeSlot  `json:"time_slot"`
	Type      Type      `json:"type"`

	// OriginalType keeps the provenance of the first declared type once the
	// session has been converted away from it. Set at most once; it never
	// affects accounting.
	OriginalType Type `json:"original_type,omitempty"`

	Status Status `json:"status"`

	// Hours counts toward the quota ledger. Defaults to 1; only an AUTRE
	// conversion may set it (step 0.5, minimum 0.5).
	Hours float64 `json:"hours"`

	// type-specific payloads
	ClassName       string   `json:"class_name,omitempty"`       // RCD
	ReplacedTeacher string   `json:"replaced_teacher,omitempty"` // RCD
	StudentCount    int      `json:"student_count,omitempty"`    // DEVOIRS_FAITS
	StudentsList    []string `json:"students_list,omitempty"`    // DEVOIRS_FAITS
	Description     string   `json:"description,omitempty"`      // AUTRE

	Comment            string `json:"comment,omitempty"`             // teacher-authored
	ReviewComments     string `json:"review_comments,omitempty"`     // secretariat
	ValidationComments string `json:"validation_comments,omitempty"` // principal
	RejectionReason    string `json:"rejection_reason,omitempty"`    // principal

	// attachment flags fed by the external file service; display-only here
	HasAttachment      bool `json:"has_attachment"`
	AttachmentVerified bool `json:"attachment_verified"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// IsPending reports whether the session still awaits a decision.
func (s *Session) IsPending() bool {
	switch s.Status {
	case StatusPendingReview, StatusPendingDocuments, StatusPendingValidation:
		return true
	}
	return false
}

// CountsTowardQuota reports whether the session consumes the institution
// budget of its type. Only VALIDATED and PAID sessions do; this is a
// different rule from the PACTE "realized" one (see pacte package).
func (s *Session) CountsTowardQuota() bool {
	return s.Status == StatusValidated || s.Status == StatusPaid
}

// NewSession contains information needed to declare a new Session.
type NewSession struct {
	TeacherID string    `json:"teacher_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	TimeSlot  TimeSlot  `json:"time_slot" validate:"required,timeslot"`
	Type      Type      `json:"type" validate:"required,sessiontype"`

	ClassName       string   `json:"class_name"`
	ReplacedTeacher string   `json:"replaced_teacher"`
	StudentCount    int      `json:"student_count"`
	StudentsList    []string `json:"students_list"`
	Description     string   `json:"description"`

	Comment string `json:"comment"`
}

func (ns *NewSession) Validate() error {
	ns.TeacherID = core.CleanString(ns.TeacherID)
	ns.ClassName = core.CleanString(ns.ClassName)
	ns.ReplacedTeacher = core.CleanString(ns.ReplacedTeacher)
	ns.Description = core.CleanString(ns.Description)
	ns.Comment = core.CleanString(ns.Comment)

	return core.Validate.Struct(ns)
}

// QueryFilter filters session listings. Fields combine with AND.
type QueryFilter struct {
	TeacherID string     `query:"teacher_id"`
	Types     []Type     `query:"type"`
	Statuses  []Status   `query:"status"`
	TimeSlot  TimeSlot   `query:"time_slot"`
	DateFrom  time.Time  `query:"date_from"`
	DateTo    time.Time  `query:"date_to"`
	// CreatedBefore lists sessions declared before a point in time; combined
	// with PendingStatuses it surfaces "pending too long" SLA alerts.
	CreatedBefore time.Time `query:"created_before"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.TeacherID == "" && qf.Types == nil && qf.Statuses == nil && qf.TimeSlot == "" &&
		qf.DateFrom.IsZero() && qf.DateTo.IsZero() && qf.CreatedBefore.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.TeacherID = core.CleanString(qf.TeacherID)
}
