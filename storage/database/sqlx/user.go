package sqlxrepos

import (
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/pacta/core"
	"github.com/trezcool/pacta/core/user"
)

type userRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Username     null.String `db:"username"`
	Email        null.String `db:"email"`
	IsActive     bool        `db:"is_active"`
	Role         string      `db:"role"`
	PasswordHash null.Bytes  `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	LastLogin    null.Time   `db:"last_login"`
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     null.NewString(usr.Username, usr.Username != ""),
		Email:        null.NewString(usr.Email, usr.Email != ""),
		IsActive:     usr.IsActive,
		Role:         usr.Role,
		PasswordHash: null.BytesFrom(usr.PasswordHash),
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func fromUserRow(row userRow) user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username.String,
		Email:        row.Email.String,
		IsActive:     row.IsActive,
		Role:         row.Role,
		PasswordHash: row.PasswordHash.Bytes,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LastLogin:    row.LastLogin.Time,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	q := `SELECT username, email FROM "user" WHERE (username = ? OR email = ?)`
	args := []interface{}{username, email}

	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		inQ, inArgs, err := sqlx.In("id NOT IN (?)", ids)
		if err != nil {
			return errors.Wrap(err, "building exclusion filter")
		}
		q += " AND " + inQ
		args = append(args, inArgs...)
	}

	var rows []userRow
	if err := repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	for _, row := range rows {
		if username != "" && row.Username.String == username {
			return user.ErrUsernameExists
		}
		if email != "" && row.Email.String == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

const userInsert = `
INSERT INTO "user" (id, name, username, email, is_active, role, password_hash, created_at, updated_at, last_login)
VALUES (:id, :name, :username, :email, :is_active, :role, :password_hash, :created_at, :updated_at, :last_login)`

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	if _, err := repo.db.NamedExec(userInsert, toUserRow(usr)); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, `SELECT * FROM "user" ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, fromUserRow(row))
	}
	return users, nil
}

func (repo *userRepository) getBy(clause string, arg interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, repo.db.Rebind(`SELECT * FROM "user" WHERE `+clause), arg); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return fromUserRow(row), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	return repo.getBy("id = ?", id)
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	return repo.getBy("username = ?", username)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.getBy("email = ?", email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	var row userRow
	q := repo.db.Rebind(`SELECT * FROM "user" WHERE username = ? OR email = ?`)
	if err := repo.db.Get(&row, q, username, username); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return fromUserRow(row), nil
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter, ordering ...core.DBOrdering) ([]user.User, error) {
	q := `SELECT * FROM "user" WHERE 1=1`
	args := make([]interface{}, 0, 6)

	if filter.Search != "" {
		q += ` AND (name ILIKE ? OR username ILIKE ? OR email ILIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like)
	}
	if filter.Roles != nil {
		inQ, inArgs, err := sqlx.In("role IN (?)", filter.Roles)
		if err != nil {
			return nil, errors.Wrap(err, "building role filter")
		}
		q += " AND " + inQ
		args = append(args, inArgs...)
	}
	if filter.IsActive != nil {
		q += " AND is_active = ?"
		args = append(args, *filter.IsActive)
	}
	if !filter.CreatedFrom.IsZero() {
		q += " AND created_at >= ?"
		args = append(args, filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		q += " AND created_at <= ?"
		args = append(args, filter.CreatedTo)
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

	var rows []userRow
	if err := repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, fromUserRow(row))
	}
	return users, nil
}

const userUpdate = `
UPDATE "user" SET
	name = COALESCE(NULLIF(:name, ''), name),
	username = COALESCE(:username, username),
	email = COALESCE(:email, email),
	role = COALESCE(NULLIF(:role, ''), role),
	password_hash = COALESCE(:password_hash, password_hash),
	is_active = COALESCE(:is_active, is_active),
	updated_at = COALESCE(:updated_at, updated_at),
	last_login = COALESCE(:last_login, last_login)
WHERE id = :id`

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	arg := struct {
		ID           string      `db:"id"`
		Name         string      `db:"name"`
		Username     null.String `db:"username"`
		Email        null.String `db:"email"`
		Role         string      `db:"role"`
		PasswordHash null.Bytes  `db:"password_hash"`
		IsActive     null.Bool   `db:"is_active"`
		UpdatedAt    null.Time   `db:"updated_at"`
		LastLogin    null.Time   `db:"last_login"`
	}{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     null.NewString(usr.Username, usr.Username != ""),
		Email:        null.NewString(usr.Email, usr.Email != ""),
		Role:         usr.Role,
		PasswordHash: null.NewBytes(usr.PasswordHash, usr.PasswordHash != nil),
		IsActive:     null.BoolFromPtr(isActive),
		UpdatedAt:    null.NewTime(usr.UpdatedAt.UTC(), !usr.UpdatedAt.IsZero()),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}

	res, err := repo.db.NamedExec(userUpdate, arg)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(usr.ID)
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
