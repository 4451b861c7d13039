package session

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core"
)

// Actions
const (
	ActionTransmit    Action = "transmit"
	ActionRequestInfo Action = "request-info"
	ActionValidate    Action = "validate"
	ActionReject      Action = "reject"
	ActionMarkPaid    Action = "mark-paid"
	ActionUnpay       Action = "unpay"
	ActionCancel      Action = "cancel"
	ActionDelete      Action = "delete"
)

// Acting roles
const (
	RoleTeacher     Role = "teacher"
	RoleSecretariat Role = "secretariat"
	RolePrincipal   Role = "principal"
)

type (
	Action string
	Role   string
)

type transitionRule struct {
	from []Status
	to   Status
	role Role
}

// transitionRules is the single source of truth for status legality; the
// three role dashboards all dispatch through it.
// PENDING_DOCUMENTS sessions re-enter the flow via a second transmit once
// the requested documents are in.
var transitionRules = map[Action]transitionRule{
	ActionTransmit:    {from: []Status{StatusPendingReview, StatusPendingDocuments}, to: StatusPendingValidation, role: RoleSecretariat},
	ActionRequestInfo: {from: []Status{StatusPendingReview}, to: StatusPendingDocuments, role: RoleSecretariat},
	ActionValidate:    {from: []Status{StatusPendingValidation}, to: StatusValidated, role: RolePrincipal},
	ActionReject:      {from: []Status{StatusPendingValidation}, to: StatusRejected, role: RolePrincipal},
	ActionMarkPaid:    {from: []Status{StatusValidated}, to: StatusPaid, role: RoleSecretariat},
	ActionUnpay:       {from: []Status{StatusPaid}, to: StatusValidated, role: RolePrincipal},
	ActionCancel:      {from: []Status{StatusValidated, StatusRejected}, to: StatusPendingValidation, role: RolePrincipal},
}

// CanTransition reports whether action may be applied to a session in status.
func CanTransition(status Status, action Action) bool {
	rule, ok := transitionRules[action]
	if !ok {
		return false
	}
	for _, from := range rule.from {
		if from == status {
			return true
		}
	}
	return false
}

type conversionKind int

const (
	convNone conversionKind = iota
	convToType
	convToHSE
)

// ConversionRequest is the (optional) type conversion attached to a validate
// action. It is a tagged variant: NoConversion, ConvertTo(target, hours) for
// AUTRE sessions, or ConvertToHSE for RCD/DEVOIRS_FAITS re-bucketing. The two
// conversion mechanisms are mutually exclusive per call.
type ConversionRequest struct {
	kind   conversionKind
	target Type
	hours  float64
}

func NoConversion() ConversionRequest { return ConversionRequest{} }

// ConvertTo classifies an AUTRE session as target, counting hours toward the
// quota ledger. hours 0 defaults to 1.
func ConvertTo(target Type, hours float64) ConversionRequest {
	return ConversionRequest{kind: convToType, target: target, hours: hours}
}

// ConvertToHSE re-buckets an RCD or DEVOIRS_FAITS session as HSE.
func ConvertToHSE() ConversionRequest { return ConversionRequest{kind: convToHSE} }

func (cr ConversionRequest) IsZero() bool { return cr.kind == convNone }

// Transition is a single status-change request against one session.
type Transition struct {
	Action     Action
	Actor      Role
	Comment    string // reviewComments, validationComments or rejectionReason depending on Action
	Conversion ConversionRequest
}

var (
	errUnknownAction = errors.New("unknown action")
	errHoursStep     = errors.New("hours must be a positive multiple of 0.5")
	errConvTarget    = errors.New("conversion target must be one of RCD, DEVOIRS_FAITS or HSE")
	errConvNotAutre  = errors.New("only AUTRE sessions take a conversion target")
	errConvHSEOnly   = errors.New("only RCD and DEVOIRS_FAITS sessions can be re-bucketed as HSE")
)

// Apply validates tr against sess and returns the transitioned copy. sess is
// never mutated: the result either fully reflects the transition or, on
// error, the input record is unchanged.
func Apply(sess Session, tr Transition) (Session, error) {
	rule, ok := transitionRules[tr.Action]
	if !ok {
		return sess, core.NewValidationError(errUnknownAction, core.FieldError{
			Field: "action", Error: errUnknownAction.Error(),
		})
	}
	if tr.Actor != rule.role {
		return sess, &ForbiddenError{Role: tr.Actor, Action: tr.Action}
	}
	if !CanTransition(sess.Status, tr.Action) {
		return sess, &IllegalTransitionError{Status: sess.Status, Action: tr.Action}
	}

	out := sess

	switch tr.Action {
	case ActionRequestInfo:
		out.ReviewComments = core.CleanString(tr.Comment)
	case ActionReject:
		out.RejectionReason = core.CleanString(tr.Comment)
	case ActionCancel:
		// cancelling a decision drops the decision's comments
		out.ValidationComments = ""
		out.RejectionReason = ""
	case ActionValidate:
		converted, err := applyConversion(out, tr.Conversion)
		if err != nil {
			return sess, err
		}
		out = converted
		out.ValidationComments = core.CleanString(tr.Comment)
	}

	out.Status = rule.to
	out.UpdatedAt = time.Now().UTC()
	return out, nil
}

func applyConversion(sess Session, conv ConversionRequest) (Session, error) {
	if sess.Type == TypeAutre && conv.kind != convToType {
		return sess, &ConversionRequiredError{ID: sess.ID}
	}

	switch conv.kind {
	case convNone:
		return sess, nil

	case convToType:
		if sess.Type != TypeAutre {
			return sess, core.NewValidationError(errConvNotAutre)
		}
		switch conv.target {
		case TypeRCD, TypeDevoirsFaits, TypeHSE:
		default:
			return sess, core.NewValidationError(errConvTarget, core.FieldError{
				Field: "conversion_type", Error: errConvTarget.Error(),
			})
		}
		hours := conv.hours
		if hours == 0 {
			hours = 1
		}
		if hours < 0.5 || math.Mod(hours*2, 1) != 0 {
			return sess, core.NewValidationError(errHoursStep, core.FieldError{
				Field: "hours", Error: errHoursStep.Error(),
			})
		}
		sess = setConvertedType(sess, conv.target)
		sess.Hours = hours
		return sess, nil

	case convToHSE:
		if !(sess.Type == TypeRCD || sess.Type == TypeDevoirsFaits) {
			return sess, core.NewValidationError(errConvHSEOnly)
		}
		return setConvertedType(sess, TypeHSE), nil
	}
	return sess, nil
}

// setConvertedType changes the session type, recording the first declared
// type exactly once.
func setConvertedType(sess Session, target Type) Session {
	if sess.OriginalType == "" {
		sess.OriginalType = sess.Type
	}
	sess.Type = target
	return sess
}
