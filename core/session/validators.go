package session

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/pacta/core"
)

var (
	timeSlotTag  = "timeslot"
	timeSlotText = "invalid time slot"

	sessionTypeTag  = "sessiontype"
	sessionTypeText = "invalid session type"

	classNameTag     = "rcd_class"
	classNameText    = "a class name is required for an RCD session"
	replacedTag      = "rcd_replaced"
	replacedText     = "the replaced teacher is required for an RCD session"
	studentCountTag  = "df_students"
	studentCountText = "at least 1 student is required for a DEVOIRS_FAITS session"
	descriptionTag   = "autre_desc"
	descriptionText  = "a description is required for an AUTRE session"
)

// register custom validators
func init() {
	_ = core.Validate.RegisterValidation(timeSlotTag, timeSlotValidation)
	core.RegisterCustomTranslation(timeSlotTag, timeSlotText)

	_ = core.Validate.RegisterValidation(sessionTypeTag, sessionTypeValidation)
	core.RegisterCustomTranslation(sessionTypeTag, sessionTypeText)

	core.Validate.RegisterStructValidation(newSessionStructValidation, NewSession{})
	core.RegisterCustomTranslation(classNameTag, classNameText)
	core.RegisterCustomTranslation(replacedTag, replacedText)
	core.RegisterCustomTranslation(studentCountTag, studentCountText)
	core.RegisterCustomTranslation(descriptionTag, descriptionText)
}

// Custom Validators

// timeSlotValidation checks that the value is one of the 8 daily slots.
func timeSlotValidation(fl validator.FieldLevel) bool {
	slot := TimeSlot(fl.Field().String())
	for _, s := range AllTimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// sessionTypeValidation checks that the value is a declarable session type.
func sessionTypeValidation(fl validator.FieldLevel) bool {
	typ := Type(fl.Field().String())
	for _, t := range AllTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// newSessionStructValidation enforces the type-specific payload requirements:
// RCD needs a class and a replaced teacher, DEVOIRS_FAITS needs a student
// count, AUTRE needs a description. HSE carries no payload.
func newSessionStructValidation(sl validator.StructLevel) {
	ns, ok := sl.Current().Interface().(NewSession)
	if !ok {
		return
	}
	switch ns.Type {
	case TypeRCD:
		if ns.ClassName == "" {
			sl.ReportError(ns.ClassName, "class_name", "ClassName", classNameTag, "")
		}
		if ns.ReplacedTeacher == "" {
			sl.ReportError(ns.ReplacedTeacher, "replaced_teacher", "ReplacedTeacher", replacedTag, "")
		}
	case TypeDevoirsFaits:
		if ns.StudentCount < 1 {
			sl.ReportError(ns.StudentCount, "student_count", "StudentCount", studentCountTag, "")
		}
	case TypeAutre:
		if ns.Description == "" {
			sl.ReportError(ns.Description, "description", "Description", descriptionTag, "")
		}
	}
}
