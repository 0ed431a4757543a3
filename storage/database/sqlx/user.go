package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/user"
)

const userColumns = `id, name, username, email, role, password_hash, created_at`

type userRepository struct {
	db core.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DB) user.Repository {
	return &userRepository{db: db}
}

// uniqueErr maps a unique violation on the users table to the matching domain error.
func uniqueErr(err error) error {
	code, constraint := pqCode(err)
	if code != uniqueViolation {
		return err
	}
	if constraint == "users_email_key" {
		return user.ErrEmailExists
	}
	return user.ErrUsernameExists
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = newID()
	q := `INSERT INTO users (` + userColumns + `) VALUES (:id, :name, :username, :email, :role, :password_hash, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, usr); err != nil {
		return user.User{}, errors.Wrap(uniqueErr(err), "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE `
	var arg string
	switch {
	case filter.ID != "":
		if !validID(filter.ID) {
			return user.User{}, user.ErrNotFound
		}
		q, arg = q+`id = $1`, filter.ID
	case filter.Username != "":
		q, arg = q+`username = $1`, filter.Username
	case filter.Email != "":
		q, arg = q+`email = $1`, filter.Email
	case filter.UsernameOrEmail != "":
		q, arg = q+`username = $1 OR email = $1`, filter.UsernameOrEmail
	default:
		return user.User{}, user.ErrNotFound
	}

	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, q+` LIMIT 1`, arg); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	if !validID(usr.ID) {
		return user.User{}, user.ErrNotFound
	}
	q := `UPDATE users SET name = :name, username = :username, email = :email, role = :role`
	if usr.PasswordHash != nil {
		q += `, password_hash = :password_hash`
	}
	q += ` WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, usr)
	if err != nil {
		return user.User{}, errors.Wrap(uniqueErr(err), "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
}
