package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"staffdesk-backend/internal/models"
)

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("id-1", "Alice", "alice@x.com", "hash").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	err := s.CreateUser(context.Background(), &models.User{
		ID: "id-1", Name: "Alice", Email: "alice@x.com", PasswordHash: "hash",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCreateUser_SetsCreatedAt(t *testing.T) {
	s, mock := newStorageWithMock(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("id-1", "Alice", "alice@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	user := &models.User{ID: "id-1", Name: "Alice", Email: "alice@x.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), user))
	require.WithinDuration(t, now, user.CreatedAt, time.Second)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email`).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}))

	_, err := s.GetUserByEmail(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetEmployee_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`FROM employees\s+WHERE id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetEmployee(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListEmployees_OwnerScopedSearch(t *testing.T) {
	s, mock := newStorageWithMock(t)

	rows := sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "position", "department",
		"profile_image", "created_by", "created_at",
	}).AddRow("e1", "Sam", "Doe", "sam@corp.com", "Engineer", "Engineering",
		"default.jpg", "alice-id", time.Now())

	mock.ExpectQuery(`WHERE created_by = \$1\s+AND \(first_name ILIKE \$2 OR last_name ILIKE \$2 OR email ILIKE \$2 OR position ILIKE \$2 OR department ILIKE \$2\) ORDER BY created_at DESC`).
		WithArgs("alice-id", "%eng%").
		WillReturnRows(rows)

	employees, err := s.ListEmployees(context.Background(), "alice-id", "eng")
	require.NoError(t, err)
	require.Len(t, employees, 1)
	require.Equal(t, "Engineering", employees[0].Department)
}

func TestListEmployees_NoSearchTerm(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`WHERE created_by = \$1\s+ORDER BY created_at DESC`).
		WithArgs("alice-id").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "position", "department",
			"profile_image", "created_by", "created_at",
		}))

	employees, err := s.ListEmployees(context.Background(), "alice-id", "")
	require.NoError(t, err)
	require.Empty(t, employees)
}

func TestUpdateEmployee_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(`UPDATE employees`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateEmployee(context.Background(), &models.Employee{ID: "missing"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEmployee_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(`DELETE FROM employees WHERE id`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteEmployee(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
