package services

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"nexusinvest/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewUserService(db, zerolog.Nop()), mock
}

func TestSignupCreatesUserWithZeroBalances(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("a@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "A", "a@x.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, balance, active_investments, total_profit, avatar, created_at, updated_at FROM users WHERE id = ?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "balance", "active_investments", "total_profit", "avatar", "created_at", "updated_at",
		}).AddRow("usr_abc123def456", "A", "a@x.com", "0", "0", "0", "https://ui-avatars.com/api/?name=A&background=random", time.Now(), time.Now()))

	user, err := svc.Signup(&models.SignupRequest{Name: "A", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	assert.True(t, user.Balance.Equal(decimal.Zero))
	assert.True(t, user.ActiveInvestments.Equal(decimal.Zero))
	assert.True(t, user.TotalProfit.Equal(decimal.Zero))
	assert.Empty(t, user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("usr_existing"))

	_, err := svc.Signup(&models.SignupRequest{Name: "A", Email: "a@x.com", Password: "p"})
	require.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRequiresAllFields(t *testing.T) {
	svc, _ := newTestUserService(t)

	for _, req := range []*models.SignupRequest{
		{Email: "a@x.com", Password: "p"},
		{Name: "A", Password: "p"},
		{Name: "A", Email: "a@x.com"},
	} {
		_, err := svc.Signup(req)
		require.ErrorIs(t, err, ErrInvalidRequest)
	}
}

func authRow(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return sqlmock.NewRows([]string{
		"id", "name", "email", "password", "balance", "active_investments", "total_profit", "avatar", "created_at", "updated_at",
	}).AddRow("usr_1", "A", "a@x.com", string(hash), "128450.75", "45000", "8240.20", "avatar", time.Now(), time.Now())
}

func TestAuthenticateSuccess(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("a@x.com").
		WillReturnRows(authRow(t, "secret"))

	user, err := svc.Authenticate(&models.LoginRequest{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, "usr_1", user.ID)
	assert.Empty(t, user.PasswordHash, "credential material must never leave the service")
	assert.True(t, user.Balance.Equal(decimal.RequireFromString("128450.75")))
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("a@x.com").
		WillReturnRows(authRow(t, "secret"))

	_, err := svc.Authenticate(&models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc, mock := newTestUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Authenticate(&models.LoginRequest{Email: "nobody@x.com", Password: "p"})
	require.ErrorIs(t, err, ErrUnauthorized)
}
