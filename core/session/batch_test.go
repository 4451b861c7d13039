package session

import (
	"testing"

	"github.com/trezcool/pacta/core"
)

func TestService_TransitionMany(t *testing.T) {
	svc, repo, _ := newTestService()

	seed := func(id string, typ Type, status Status) {
		sess := pendingSession(typ, status)
		sess.ID = id
		if _, err := repo.CreateSession(sess); err != nil {
			t.Fatalf("seeding failed: %v", err)
		}
	}

	seed("rcd-ok", TypeRCD, StatusPendingValidation)
	seed("df-ok", TypeDevoirsFaits, StatusPendingValidation)
	seed("autre", TypeAutre, StatusPendingValidation)
	seed("already-validated", TypeRCD, StatusValidated)

	t.Run("empty ids", func(t *testing.T) {
		if _, err := svc.TransitionMany(nil, ActionValidate, RolePrincipal); err == nil {
			t.Error("expected validation error")
		} else if _, ok := err.(*core.ValidationError); !ok {
			t.Errorf("error = %T; want *core.ValidationError", err)
		}
	})

	t.Run("non-batchable action", func(t *testing.T) {
		if _, err := svc.TransitionMany([]string{"rcd-ok"}, ActionRequestInfo, RoleSecretariat); err == nil {
			t.Error("expected validation error")
		} else if _, ok := err.(*core.ValidationError); !ok {
			t.Errorf("error = %T; want *core.ValidationError", err)
		}
	})

	t.Run("partial failure isolation", func(t *testing.T) {
		ids := []string{"rcd-ok", "df-ok", "autre", "already-validated", "missing"}
		res, err := svc.TransitionMany(ids, ActionValidate, RolePrincipal)
		if err != nil {
			t.Fatalf("TransitionMany() failed: %v", err)
		}
		if len(res) != len(ids) {
			t.Fatalf("got %d outcomes; want %d", len(res), len(ids))
		}

		if res["rcd-ok"].Kind != OutcomeApplied {
			t.Errorf("rcd-ok = %+v; want applied", res["rcd-ok"])
		}
		if res["df-ok"].Kind != OutcomeApplied {
			t.Errorf("df-ok = %+v; want applied", res["df-ok"])
		}
		if res["autre"].Kind != OutcomeSkipped || res["autre"].Reason == "" {
			t.Errorf("autre = %+v; want skipped with reason", res["autre"])
		}
		if res["already-validated"].Kind != OutcomeFailed {
			t.Errorf("already-validated = %+v; want failed", res["already-validated"])
		}
		if res["missing"].Kind != OutcomeFailed {
			t.Errorf("missing = %+v; want failed", res["missing"])
		}
		if !res.HasFailures() {
			t.Error("HasFailures() = false; want true")
		}

		// applied ones really moved; skipped/failed ones did not
		for id, want := range map[string]Status{
			"rcd-ok": StatusValidated,
			"df-ok":  StatusValidated,
			"autre":  StatusPendingValidation,
		} {
			sess, _ := repo.GetSessionByID(id)
			if sess.Status != want {
				t.Errorf("%s Status = %s; want %s", id, sess.Status, want)
			}
		}
	})

	t.Run("autre skipped on reject too", func(t *testing.T) {
		res, err := svc.TransitionMany([]string{"autre"}, ActionReject, RolePrincipal)
		if err != nil {
			t.Fatalf("TransitionMany() failed: %v", err)
		}
		if res["autre"].Kind != OutcomeSkipped {
			t.Errorf("autre = %+v; want skipped", res["autre"])
		}
	})

	t.Run("batch delete is principal only", func(t *testing.T) {
		res, err := svc.TransitionMany([]string{"rcd-ok"}, ActionDelete, RoleSecretariat)
		if err != nil {
			t.Fatalf("TransitionMany() failed: %v", err)
		}
		if res["rcd-ok"].Kind != OutcomeFailed {
			t.Errorf("rcd-ok = %+v; want failed", res["rcd-ok"])
		}
		if _, ok := res["rcd-ok"].Err().(*ForbiddenError); !ok {
			t.Errorf("Err() = %T; want *ForbiddenError", res["rcd-ok"].Err())
		}

		res, err = svc.TransitionMany([]string{"rcd-ok"}, ActionDelete, RolePrincipal)
		if err != nil {
			t.Fatalf("TransitionMany() failed: %v", err)
		}
		if res["rcd-ok"].Kind != OutcomeApplied {
			t.Errorf("rcd-ok = %+v; want applied", res["rcd-ok"])
		}
		if _, err := repo.GetSessionByID("rcd-ok"); err != ErrNotFound {
			t.Error("session not deleted")
		}
		if res.HasFailures() {
			t.Error("HasFailures() = true; want false")
		}
	})
}
