package pacte

import (
	"testing"

	"github.com/trezcool/pacta/core/session"
)

func sess(teacherID string, typ session.Type, status session.Status) session.Session {
	return session.Session{TeacherID: teacherID, Type: typ, Status: status, Hours: 1}
}

func TestComputeView(t *testing.T) {
	c := Contract{
		TeacherID:         "t1",
		InPacte:           true,
		HoursDF:           18,
		HoursRCD:          9,
		CompletedHoursDF:  3,
		CompletedHoursRCD: 1,
	}
	sessions := []session.Session{
		// every status counts as one realized hour
		sess("t1", session.TypeDevoirsFaits, session.StatusPendingReview),
		sess("t1", session.TypeDevoirsFaits, session.StatusValidated),
		sess("t1", session.TypeDevoirsFaits, session.StatusRejected),
		sess("t1", session.TypeRCD, session.StatusPaid),
		// HSE and AUTRE never count toward the contract
		sess("t1", session.TypeHSE, session.StatusValidated),
		sess("t1", session.TypeAutre, session.StatusPendingValidation),
		// other teachers don't either
		sess("t2", session.TypeRCD, session.StatusValidated),
	}

	v := ComputeView(c, sessions)
	if v.RealizedDF != 6 {
		t.Errorf("RealizedDF = %v; want 6", v.RealizedDF)
	}
	if v.RealizedRCD != 2 {
		t.Errorf("RealizedRCD = %v; want 2", v.RealizedRCD)
	}
	if v.TotalRealized != 8 {
		t.Errorf("TotalRealized = %v; want 8", v.TotalRealized)
	}
	if want := 27.0 - 8; v.Remaining != want {
		t.Errorf("Remaining = %v; want %v", v.Remaining, want)
	}
}

func TestComputeView_remainingClamped(t *testing.T) {
	c := Contract{TeacherID: "t1", InPacte: true, HoursDF: 1}
	sessions := []session.Session{
		sess("t1", session.TypeDevoirsFaits, session.StatusValidated),
		sess("t1", session.TypeDevoirsFaits, session.StatusValidated),
	}

	v := ComputeView(c, sessions)
	if v.TotalRealized != 2 {
		t.Errorf("TotalRealized = %v; want 2", v.TotalRealized)
	}
	if v.Remaining != 0 {
		t.Errorf("Remaining = %v; want 0", v.Remaining)
	}
}

func TestComputeStats(t *testing.T) {
	contracts := []Contract{
		{TeacherID: "t1", InPacte: true, HoursDF: 18, HoursRCD: 9},
		{TeacherID: "t2", InPacte: true, HoursDF: 18},
		{TeacherID: "t3", InPacte: false, HoursDF: 36}, // excluded, figures kept
	}
	sessions := []session.Session{
		sess("t1", session.TypeDevoirsFaits, session.StatusValidated),
		sess("t2", session.TypeRCD, session.StatusValidated), // realized but uncontracted
		sess("t3", session.TypeDevoirsFaits, session.StatusValidated),
	}

	st := ComputeStats(contracts, sessions)
	if st.Teachers != 2 {
		t.Errorf("Teachers = %d; want 2", st.Teachers)
	}
	if st.TotalContract != 45 {
		t.Errorf("TotalContract = %v; want 45", st.TotalContract)
	}
	if st.TotalRealized != 2 {
		t.Errorf("TotalRealized = %v; want 2", st.TotalRealized)
	}
	if want := (27.0 - 1) + (18.0 - 1); st.Remaining != want {
		t.Errorf("Remaining = %v; want %v", st.Remaining, want)
	}
}

func TestComputeStats_empty(t *testing.T) {
	st := ComputeStats(nil, nil)
	if st != (Stats{}) {
		t.Errorf("Stats = %+v; want zero", st)
	}
}
