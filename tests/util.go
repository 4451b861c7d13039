package testutil

import (
	"testing"
	"time"

	"github.com/trezcool/pacta/core/session"
	"github.com/trezcool/pacta/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uname + "-" + email,
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateSession(
	t *testing.T,
	repo session.Repository,
	teacherID string,
	date time.Time,
	slot session.TimeSlot,
	typ session.Type,
	status session.Status,
	hours float64,
) session.Session {
	t.Helper()

	now := time.Now().UTC()
	sess := session.Session{
		ID:        teacherID + "-" + date.Format("2006-01-02") + "-" + string(slot),
		TeacherID: teacherID,
		Date:      date,
		TimeSlot:  slot,
		Type:      typ,
		Status:    status,
		Hours:     hours,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch typ {
	case session.TypeRCD:
		sess.ClassName = "3B"
		sess.ReplacedTeacher = "M. Dupont"
	case session.TypeDevoirsFaits:
		sess.StudentCount = 12
	case session.TypeAutre:
		sess.Description = "field trip supervision"
	}
	sess, err := repo.CreateSession(sess)
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return sess
}
