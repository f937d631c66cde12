package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func newTestAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAuthHandler(db, zerolog.Nop()), mock
}

func TestSignupEndpointReturnsUserAndToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	h, mock := newTestAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("a@x.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "balance", "active_investments", "total_profit", "avatar", "created_at", "updated_at",
		}).AddRow("usr_new", "A", "a@x.com", "0", "0", "0", "avatar", time.Now(), time.Now()))

	body, _ := json.Marshal(models.SignupRequest{Name: "A", Email: "a@x.com", Password: "p"})
	req := httptest.NewRequest("POST", "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "usr_new", resp.User.ID)
	assert.True(t, resp.User.Balance.Equal(decimal.Zero))
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSignupEndpointDuplicateEmail(t *testing.T) {
	h, mock := newTestAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("usr_existing"))

	body, _ := json.Marshal(models.SignupRequest{Name: "A", Email: "a@x.com", Password: "p"})
	req := httptest.NewRequest("POST", "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginEndpointBadPassword(t *testing.T) {
	h, mock := newTestAuthHandler(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "password", "balance", "active_investments", "total_profit", "avatar", "created_at", "updated_at",
		}).AddRow("usr_1", "A", "a@x.com", string(hash), "0", "0", "0", "avatar", time.Now(), time.Now()))

	body, _ := json.Marshal(models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
