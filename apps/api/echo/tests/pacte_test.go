package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/pacta/core/pacte"
	"github.com/trezcool/pacta/core/session"
	"github.com/trezcool/pacta/core/user"
	testutil "github.com/trezcool/pacta/tests"
)

func Test_pacteApi_retrieve(t *testing.T) {
	app := setup(t)

	t1 := testutil.CreateUser(t, usrRepo, "Teacher One", "teach1", "teach1@test.cd", "", user.RoleTeacher, true)
	t2 := testutil.CreateUser(t, usrRepo, "Teacher Two", "teach2", "teach2@test.cd", "", user.RoleTeacher, true)
	secretariat := testutil.CreateUser(t, usrRepo, "Secretariat", "secret1", "secret1@test.cd", "", user.RoleSecretariat, true)

	c1, err := contractRepo.UpsertContract(pacte.Contract{TeacherID: t1.ID, InPacte: true, HoursDF: 18, HoursRCD: 9})
	if err != nil {
		t.Fatalf("UpsertContract() failed: %v", err)
	}

	tests := []httpTest{
		{name: "auth required", path: "/v1/pacte/" + t1.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "own contract", path: "/v1/pacte/" + t1.ID, token: getToken(t, t1),
			wantCode: http.StatusOK, wantData: marchallObj(t, c1),
		},
		{
			name: "teachers cannot see others", path: "/v1/pacte/" + t1.ID, token: getToken(t, t2),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "staff sees any", path: "/v1/pacte/" + t1.ID, token: getToken(t, secretariat),
			wantCode: http.StatusOK, wantData: marchallObj(t, c1),
		},
		{
			name: "unenrolled teacher gets the zero contract", path: "/v1/pacte/" + t2.ID, token: getToken(t, t2),
			wantCode: http.StatusOK, wantData: marchallObj(t, pacte.Contract{TeacherID: t2.ID}),
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

func Test_pacteApi_set(t *testing.T) {
	app := setup(t)

	t1 := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach1@test.cd", "", user.RoleTeacher, true)
	secretariat := testutil.CreateUser(t, usrRepo, "Secretariat", "secret1", "secret1@test.cd", "", user.RoleSecretariat, true)
	principal := testutil.CreateUser(t, usrRepo, "Principal", "princip", "princip@test.cd", "", user.RolePrincipal, true)

	inPacte := true
	hoursDF := 18.0
	negative := -1.0

	tests := []httpTest{
		{
			name: "principal required", token: getToken(t, secretariat),
			body:     marchallObj(t, pacte.SetContract{InPacte: &inPacte}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "negative hours", token: getToken(t, principal),
			body:     marchallObj(t, pacte.SetContract{HoursDF: &negative}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "contract hours cannot be negative"}),
		},
		{
			name: "enroll", token: getToken(t, principal),
			body:     marchallObj(t, pacte.SetContract{InPacte: &inPacte, HoursDF: &hoursDF}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/v1/pacte/"+t1.ID, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; data = %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				var c pacte.Contract
				if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
					t.Fatalf("json.Unmarshal() failed: %v", err)
				}
				if !c.InPacte || c.HoursDF != 18 {
					t.Errorf("contract = %+v; want enrolled with 18 DF hours", c)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_pacteApi_progress(t *testing.T) {
	app := setup(t)

	t1 := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teach1@test.cd", "", user.RoleTeacher, true)

	if _, err := contractRepo.UpsertContract(pacte.Contract{
		TeacherID: t1.ID, InPacte: true, HoursDF: 18, HoursRCD: 9, CompletedHoursDF: 3,
	}); err != nil {
		t.Fatalf("UpsertContract() failed: %v", err)
	}

	// each declared DF/RCD session counts as one realized hour whatever its status
	testutil.CreateSession(t, sessRepo, t1.ID, sessDate, session.SlotM1, session.TypeDevoirsFaits, session.StatusPendingReview, 1)
	testutil.CreateSession(t, sessRepo, t1.ID, sessDate, session.SlotM2, session.TypeRCD, session.StatusRejected, 1)
	testutil.CreateSession(t, sessRepo, t1.ID, sessDate, session.SlotM3, session.TypeHSE, session.StatusValidated, 1)

	req, rec := newAuthRequest(http.MethodGet, "/v1/pacte/"+t1.ID+"/progress", getToken(t, t1))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; data = %v", rec.Code, http.StatusOK, rec.Body.String())
	}
	var v pacte.View
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if v.RealizedDF != 4 || v.RealizedRCD != 1 || v.TotalRealized != 5 {
		t.Errorf("view = %+v; want RealizedDF=4 RealizedRCD=1", v)
	}
	if v.Remaining != 22 {
		t.Errorf("Remaining = %v; want 22", v.Remaining)
	}
}

func Test_pacteApi_stats(t *testing.T) {
	app := setup(t)

	t1 := testutil.CreateUser(t, usrRepo, "Teacher One", "teach1", "teach1@test.cd", "", user.RoleTeacher, true)
	t2 := testutil.CreateUser(t, usrRepo, "Teacher Two", "teach2", "teach2@test.cd", "", user.RoleTeacher, true)
	secretariat := testutil.CreateUser(t, usrRepo, "Secretariat", "secret1", "secret1@test.cd", "", user.RoleSecretariat, true)

	for _, c := range []pacte.Contract{
		{TeacherID: t1.ID, InPacte: true, HoursDF: 18, HoursRCD: 9},
		{TeacherID: t2.ID, InPacte: false, HoursDF: 18},
	} {
		if _, err := contractRepo.UpsertContract(c); err != nil {
			t.Fatalf("UpsertContract() failed: %v", err)
		}
	}
	testutil.CreateSession(t, sessRepo, t1.ID, sessDate, session.SlotM1, session.TypeDevoirsFaits, session.StatusValidated, 1)

	tests := []httpTest{
		{
			name: "staff required", token: getToken(t, t1),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "enabled contracts only", token: getToken(t, secretariat), wantCode: http.StatusOK,
			wantData: marchallObj(t, pacte.Stats{Teachers: 1, TotalContract: 27, TotalRealized: 1, Remaining: 26}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/pacte/stats", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
