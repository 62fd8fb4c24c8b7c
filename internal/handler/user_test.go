package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jperalta/cinema-ticketing/internal/repository"
)

func registerRequestJSON(email string) string {
	return `{"email":"` + email + `","first_name":"Alice","last_name":"Doe","password":"s3cretpass"}`
}

func postRegister(t *testing.T, h *UserHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Register(e.NewContext(req, rec)))
	return rec
}

func TestRegisterValidation(t *testing.T) {
	h := NewUserHandler(nil, bcrypt.MinCost) // repo never reached

	t.Run("missing email", func(t *testing.T) {
		rec := postRegister(t, h, `{"password":"s3cretpass"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := postRegister(t, h, registerRequestJSON("not-an-email"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		rec := postRegister(t, h, `{"email":"a@b.c","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewUserHandler(repository.NewUserRepo(db), bcrypt.MinCost)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	rec := postRegister(t, h, registerRequestJSON("alice@example.com"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterNormalizesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := NewUserHandler(repository.NewUserRepo(db), bcrypt.MinCost)

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("alice@example.com", "Alice", "Doe", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT created_at FROM users`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))

	rec := postRegister(t, h, registerRequestJSON("  ALICE@Example.com  "))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
