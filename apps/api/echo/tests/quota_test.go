package tests

import (
	"net/http"
	"testing"

	echoapi "github.com/trezcool/pacta/apps/api/echo"
	"github.com/trezcool/pacta/core/quota"
	"github.com/trezcool/pacta/core/session"
	"github.com/trezcool/pacta/core/user"
	testutil "github.com/trezcool/pacta/tests"
)

func Test_quotaApi_ledger(t *testing.T) {
	app := setup(t)

	t1 := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach1@test.cd", "", user.RoleTeacher, true)
	secretariat := testutil.CreateUser(t, usrRepo, "Secretariat", "secret1", "secret1@test.cd", "", user.RoleSecretariat, true)

	if err := budgetRepo.SetBudget(session.TypeHSE, 60); err != nil {
		t.Fatalf("SetBudget() failed: %v", err)
	}

	// only VALIDATED and PAID consume the budget
	testutil.CreateSession(t, sessRepo, t1.ID, sessDate, session.SlotM1, session.TypeHSE, session.StatusValidated, 1)
	testutil.CreateSession(t, sessRepo, t1.ID, sessDate, session.SlotM2, session.TypeHSE, session.StatusPaid, 2)
	testutil.CreateSession(t, sessRepo, t1.ID, sessDate, session.SlotM3, session.TypeHSE, session.StatusPendingReview, 1)
	testutil.CreateSession(t, sessRepo, t1.ID, sessDate, session.SlotM4, session.TypeDevoirsFaits, session.StatusValidated, 1.5)

	tests := []httpTest{
		{name: "auth required", path: "/v1/quota", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "staff required", path: "/v1/quota", token: getToken(t, t1),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "ledger", path: "/v1/quota", token: getToken(t, secretariat), wantCode: http.StatusOK,
			wantData: marchallList(t,
				quota.Entry{Type: session.TypeHSE, BudgetHours: 60, ConsumedHours: 3, Percentage: 5},
				quota.Entry{Type: session.TypeDevoirsFaits, ConsumedHours: 1.5},
				quota.Entry{Type: session.TypeRCD},
			),
		},
		{
			name: "budgets", path: "/v1/quota/budgets", token: getToken(t, secretariat), wantCode: http.StatusOK,
			wantData: marchallObj(t, quota.Budgets{session.TypeHSE: 60}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_quotaApi_setBudget(t *testing.T) {
	app := setup(t)

	secretariat := testutil.CreateUser(t, usrRepo, "Secretariat", "secret1", "secret1@test.cd", "", user.RoleSecretariat, true)
	principal := testutil.CreateUser(t, usrRepo, "Principal", "princip", "princip@test.cd", "", user.RolePrincipal, true)

	tests := []httpTest{
		{
			name: "principal required", token: getToken(t, secretariat),
			body:     marchallObj(t, echoapi.SetBudgetRequest{Type: string(session.TypeRCD), BudgetHours: 90}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "type required", token: getToken(t, principal),
			body:     marchallObj(t, echoapi.SetBudgetRequest{BudgetHours: 90}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"type": "this field is required"}),
		},
		{
			name: "AUTRE holds no budget", token: getToken(t, principal),
			body:     marchallObj(t, echoapi.SetBudgetRequest{Type: string(session.TypeAutre), BudgetHours: 90}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"type": "no budget is held for this session type"}),
		},
		{
			name: "negative hours", token: getToken(t, principal),
			body:     marchallObj(t, echoapi.SetBudgetRequest{Type: string(session.TypeRCD), BudgetHours: -1}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"budget_hours": "budget hours cannot be negative"}),
		},
		{
			name: "set ok", token: getToken(t, principal),
			body:     marchallObj(t, echoapi.SetBudgetRequest{Type: string(session.TypeRCD), BudgetHours: 90}),
			wantCode: http.StatusOK,
			wantData: marchallList(t,
				quota.Entry{Type: session.TypeHSE},
				quota.Entry{Type: session.TypeDevoirsFaits},
				quota.Entry{Type: session.TypeRCD, BudgetHours: 90},
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/v1/quota/budgets", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	budgets, err := budgetRepo.GetBudgets()
	if err != nil {
		t.Fatalf("GetBudgets() failed: %v", err)
	}
	if budgets[session.TypeRCD] != 90 {
		t.Errorf("budgets = %v; want RCD=90", budgets)
	}
}
