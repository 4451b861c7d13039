package session

import (
	"github.com/pkg/errors"

	"github.com/trezcool/pacta/core"
)

// Batch outcome kinds
const (
	OutcomeApplied OutcomeKind = "applied"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFailed  OutcomeKind = "failed"
)

type OutcomeKind string

// Outcome is the per-session result of a batch transition.
type Outcome struct {
	Kind   OutcomeKind `json:"outcome"`
	Reason string      `json:"reason,omitempty"` // set when skipped
	Error  string      `json:"error,omitempty"`  // set when failed

	err error
}

// Err returns the underlying error of a failed outcome.
func (o Outcome) Err() error { return o.err }

// BatchResult maps session ids to their individual outcomes. Partial failure
// is normal: deciding whether any failure fails the whole batch is the
// caller's business.
type BatchResult map[string]Outcome

func (br BatchResult) HasFailures() bool {
	for _, o := range br {
		if o.Kind == OutcomeFailed {
			return true
		}
	}
	return false
}

var (
	errEmptyBatch     = errors.New("no session ids provided")
	errBadBatchAction = errors.New("action cannot be applied in batch")

	skipReasonAutre = "AUTRE sessions require an individual conversion choice"

	batchActions = map[Action]bool{
		ActionValidate: true,
		ActionReject:   true,
		ActionMarkPaid: true,
		ActionDelete:   true,
	}
)

func appliedOutcome() Outcome         { return Outcome{Kind: OutcomeApplied} }
func skippedOutcome(r string) Outcome { return Outcome{Kind: OutcomeSkipped, Reason: r} }
func failedOutcome(err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Error: err.Error(), err: err}
}

// TransitionMany applies action to every session in ids, isolating the items
// from each other: one session's failure never aborts the rest. AUTRE
// sessions are skipped on validate/reject since they need a per-session
// conversion choice. It only errors on a malformed request (empty id set or
// an action that cannot be batched).
func (svc *Service) TransitionMany(ids []string, action Action, actor Role) (BatchResult, error) {
	if len(ids) == 0 {
		return nil, core.NewValidationError(errEmptyBatch, core.FieldError{
			Field: "ids", Error: errEmptyBatch.Error(),
		})
	}
	if !batchActions[action] {
		return nil, core.NewValidationError(errBadBatchAction, core.FieldError{
			Field: "action", Error: errBadBatchAction.Error(),
		})
	}

	res := make(BatchResult, len(ids))
	for _, id := range ids {
		res[id] = svc.transitionOne(id, action, actor)
	}
	return res, nil
}

func (svc *Service) transitionOne(id string, action Action, actor Role) Outcome {
	if action == ActionDelete {
		if err := svc.Delete(actor, id); err != nil {
			return failedOutcome(err)
		}
		return appliedOutcome()
	}

	if action == ActionValidate || action == ActionReject {
		sess, err := svc.GetByID(id)
		if err != nil {
			return failedOutcome(err)
		}
		if sess.Type == TypeAutre {
			return skippedOutcome(skipReasonAutre)
		}
	}

	if _, err := svc.Transition(id, Transition{Action: action, Actor: actor}); err != nil {
		return failedOutcome(err)
	}
	return appliedOutcome()
}
