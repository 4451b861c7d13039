package session

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func validNewSession(typ Type) NewSession {
	ns := NewSession{
		TeacherID: "t1",
		Date:      time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		TimeSlot:  SlotM1,
		Type:      typ,
	}
	switch typ {
	case TypeRCD:
		ns.ClassName = "3B"
		ns.ReplacedTeacher = "M. Dupont"
	case TypeDevoirsFaits:
		ns.StudentCount = 12
	case TypeAutre:
		ns.Description = "field trip supervision"
	}
	return ns
}

func TestNewSessionValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(ns *NewSession)
		wantFlds  []string
		wantValid bool
	}{
		{name: "valid RCD", mutate: func(ns *NewSession) {}, wantValid: true},
		{name: "valid DEVOIRS_FAITS", mutate: func(ns *NewSession) { *ns = validNewSession(TypeDevoirsFaits) }, wantValid: true},
		{name: "valid AUTRE", mutate: func(ns *NewSession) { *ns = validNewSession(TypeAutre) }, wantValid: true},
		{name: "valid HSE", mutate: func(ns *NewSession) { *ns = validNewSession(TypeHSE) }, wantValid: true},
		{name: "missing teacher", mutate: func(ns *NewSession) { ns.TeacherID = "" }, wantFlds: []string{"teacher_id"}},
		{name: "missing date", mutate: func(ns *NewSession) { ns.Date = time.Time{} }, wantFlds: []string{"date"}},
		{name: "bad time slot", mutate: func(ns *NewSession) { ns.TimeSlot = "M9" }, wantFlds: []string{"time_slot"}},
		{name: "bad type", mutate: func(ns *NewSession) { ns.Type = "LOL" }, wantFlds: []string{"type"}},
		{
			name: "RCD without payload",
			mutate: func(ns *NewSession) {
				ns.ClassName = ""
				ns.ReplacedTeacher = ""
			},
			wantFlds: []string{"class_name", "replaced_teacher"},
		},
		{
			name: "DEVOIRS_FAITS without students",
			mutate: func(ns *NewSession) {
				*ns = validNewSession(TypeDevoirsFaits)
				ns.StudentCount = 0
			},
			wantFlds: []string{"student_count"},
		},
		{
			name: "AUTRE without description",
			mutate: func(ns *NewSession) {
				*ns = validNewSession(TypeAutre)
				ns.Description = "   "
			},
			wantFlds: []string{"description"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := validNewSession(TypeRCD)
			tt.mutate(&ns)

			err := ns.Validate()
			if tt.wantValid {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			if !ok {
				t.Fatalf("Validate() error = %T (%v); want validator.ValidationErrors", err, err)
			}
			got := make(map[string]bool, len(vErrs))
			for _, vErr := range vErrs {
				got[vErr.Field()] = true
			}
			for _, fld := range tt.wantFlds {
				if !got[fld] {
					t.Errorf("missing field error %q in %v", fld, vErrs)
				}
			}
		})
	}
}
