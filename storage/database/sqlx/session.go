package sqlxrepos

import (
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/pacta/core"
	"github.com/trezcool/pacta/core/session"
)

type sessionRow struct {
	ID                 string      `db:"id"`
	TeacherID          string      `db:"teacher_id"`
	Date               time.Time   `db:"date"`
	TimeSlot           string      `db:"time_slot"`
	Type               string      `db:"type"`
	OriginalType       null.String `db:"original_type"`
	Status             string      `db:"status"`
	Hours              float64     `db:"hours"`
	ClassName          null.String `db:"class_name"`
	ReplacedTeacher    null.String `db:"replaced_teacher"`
	StudentCount       null.Int    `db:"student_count"`
	StudentsList       null.String `db:"students_list"` // newline-separated
	Description        null.String `db:"description"`
	Comment            null.String `db:"comment"`
	ReviewComments     null.String `db:"review_comments"`
	ValidationComments null.String `db:"validation_comments"`
	RejectionReason    null.String `db:"rejection_reason"`
	HasAttachment      bool        `db:"has_attachment"`
	AttachmentVerified bool        `db:"attachment_verified"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
}

func toRow(sess session.Session) sessionRow {
	return sessionRow{
		ID:                 sess.ID,
		TeacherID:          sess.TeacherID,
		Date:               sess.Date,
		TimeSlot:           string(sess.TimeSlot),
		Type:               string(sess.Type),
		OriginalType:       null.NewString(string(sess.OriginalType), sess.OriginalType != ""),
		Status:             string(sess.Status),
		Hours:              sess.Hours,
		ClassName:          null.NewString(sess.ClassName, sess.ClassName != ""),
		ReplacedTeacher:    null.NewString(sess.ReplacedTeacher, sess.ReplacedTeacher != ""),
		StudentCount:       null.NewInt(sess.StudentCount, sess.StudentCount != 0),
		StudentsList:       null.NewString(strings.Join(sess.StudentsList, "\n"), len(sess.StudentsList) > 0),
		Description:        null.NewString(sess.Description, sess.Description != ""),
		Comment:            null.NewString(sess.Comment, sess.Comment != ""),
		ReviewComments:     null.NewString(sess.ReviewComments, sess.ReviewComments != ""),
		ValidationComments: null.NewString(sess.ValidationComments, sess.ValidationComments != ""),
		RejectionReason:    null.NewString(sess.RejectionReason, sess.RejectionReason != ""),
		HasAttachment:      sess.HasAttachment,
		AttachmentVerified: sess.AttachmentVerified,
		CreatedAt:          sess.CreatedAt.UTC(),
		UpdatedAt:          sess.UpdatedAt.UTC(),
	}
}

func fromRow(row sessionRow) session.Session {
	var students []string
	if row.StudentsList.Valid && row.StudentsList.String != "" {
		students = strings.Split(row.StudentsList.String, "\n")
	}
	return session.Session{
		ID:                 row.ID,
		TeacherID:          row.TeacherID,
		Date:               row.Date,
		TimeSlot:           session.TimeSlot(row.TimeSlot),
		Type:               session.Type(row.Type),
		OriginalType:       session.Type(row.OriginalType.String),
		Status:             session.Status(row.Status),
		Hours:              row.Hours,
		ClassName:          row.ClassName.String,
		ReplacedTeacher:    row.ReplacedTeacher.String,
		StudentCount:       row.StudentCount.Int,
		StudentsList:       students,
		Description:        row.Description.String,
		Comment:            row.Comment.String,
		ReviewComments:     row.ReviewComments.String,
		ValidationComments: row.ValidationComments.String,
		RejectionReason:    row.RejectionReason.String,
		HasAttachment:      row.HasAttachment,
		AttachmentVerified: row.AttachmentVerified,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

type sessionRepository struct {
	db *sqlx.DB
}

var _ session.Repository = (*sessionRepository)(nil)

func NewSessionRepository(db *sqlx.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

const sessionInsert = `
INSERT INTO session (
	id, teacher_id, date, time_slot, type, original_type, status, hours,
	class_name, replaced_teacher, student_count, students_list, description,
	comment, review_comments, validation_comments, rejection_reason,
	has_attachment, attachment_verified, created_at, updated_at
) VALUES (
	:id, :teacher_id, :date, :time_slot, :type, :original_type, :status, :hours,
	:class_name, :replaced_teacher, :student_count, :students_list, :description,
	:comment, :review_comments, :validation_comments, :rejection_reason,
	:has_attachment, :attachment_verified, :created_at, :updated_at
)`

func (repo *sessionRepository) CreateSession(sess session.Session) (session.Session, error) {
	if _, err := repo.db.NamedExec(sessionInsert, toRow(sess)); err != nil {
		return session.Session{}, errors.Wrap(err, "inserting session")
	}
	return sess, nil
}

func (repo *sessionRepository) GetSessionByID(id string) (session.Session, error) {
	var row sessionRow
	if err := repo.db.Get(&row, `SELECT * FROM session WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, errors.Wrap(err, "getting session")
	}
	return fromRow(row), nil
}

func (repo *sessionRepository) QueryAllSessions() ([]session.Session, error) {
	var rows []sessionRow
	if err := repo.db.Select(&rows, `SELECT * FROM session ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	sessions := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, fromRow(row))
	}
	return sessions, nil
}

func (repo *sessionRepository) FilterSessions(filter session.QueryFilter, ordering ...core.DBOrdering) ([]session.Session, error) {
	q := `SELECT * FROM session WHERE 1=1`
	args := make([]interface{}, 0, 8)

	// clauses use "?" placeholders; the whole query is rebound once at the end
	addArg := func(clause string, val interface{}) {
		args = append(args, val)
		q += " AND " + clause
	}

	if filter.TeacherID != "" {
		addArg("teacher_id = ?", filter.TeacherID)
	}
	if filter.TimeSlot != "" {
		addArg("time_slot = ?", string(filter.TimeSlot))
	}
	if filter.Types != nil {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		inQ, inArgs, err := sqlx.In("type IN (?)", types)
		if err != nil {
			return nil, errors.Wrap(err, "building type filter")
		}
		q += " AND " + inQ
		args = append(args, inArgs...)
	}
	if filter.Statuses != nil {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		inQ, inArgs, err := sqlx.In("status IN (?)", statuses)
		if err != nil {
			return nil, errors.Wrap(err, "building status filter")
		}
		q += " AND " + inQ
		args = append(args, inArgs...)
	}
	if !filter.DateFrom.IsZero() {
		addArg("date >= ?", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		addArg("date <= ?", filter.DateTo)
	}
	if !filter.CreatedBefore.IsZero() {
		addArg("created_at < ?", filter.CreatedBefore)
	}

	if len(ordering) > 0 {
		clauses := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			clauses = append(clauses, ord.String())
		}
		q += " ORDER BY " + strings.Join(clauses, ", ")
	} else {
		q += " ORDER BY created_at"
	}

	q = repo.db.Rebind(q)
	var rows []sessionRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering sessions")
	}
	sessions := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, fromRow(row))
	}
	return sessions, nil
}

const sessionUpdate = `
UPDATE session SET
	type = :type, original_type = :original_type, status = :status, hours = :hours,
	class_name = :class_name, replaced_teacher = :replaced_teacher,
	student_count = :student_count, students_list = :students_list,
	description = :description, comment = :comment,
	review_comments = :review_comments, validation_comments = :validation_comments,
	rejection_reason = :rejection_reason, has_attachment = :has_attachment,
	attachment_verified = :attachment_verified, updated_at = :updated_at
WHERE id = :id AND status = :from_status`

func (repo *sessionRepository) UpdateSessionFromStatus(sess session.Session, from session.Status) (session.Session, error) {
	arg := struct {
		sessionRow
		FromStatus string `db:"from_status"`
	}{sessionRow: toRow(sess), FromStatus: string(from)}

	res, err := repo.db.NamedExec(sessionUpdate, arg)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "updating session")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return session.Session{}, errors.Wrap(err, "updating session")
	}
	if n == 0 {
		// either gone or the status moved under us
		if _, err := repo.GetSessionByID(sess.ID); err != nil {
			return session.Session{}, err
		}
		return session.Session{}, core.NewConflictError("session", sess.ID)
	}
	return sess, nil
}

func (repo *sessionRepository) DeleteSessionsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM session WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting sessions")
	}
	return nil
}
