package storage

import (
	"context"
	"database/sql"
	"errors"

	"staffdesk-backend/internal/models"
)

func (s *Storage) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	query := `
		INSERT INTO employees (id, first_name, last_name, email, position, department, profile_image, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	return s.db.QueryRowContext(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.Email,
		emp.Position, emp.Department, emp.ProfileImage, emp.CreatedBy).
		Scan(&emp.CreatedAt)
}

// GetEmployee fetches by id without an owner filter; the handler checks
// ownership after existence so missing and foreign records stay
// distinguishable.
func (s *Storage) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	var emp models.Employee
	query := `
		SELECT id, first_name, last_name, email, position, department, profile_image, created_by, created_at
		FROM employees
		WHERE id = $1
	`
	if err := s.db.GetContext(ctx, &emp, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (s *Storage) UpdateEmployee(ctx context.Context, emp *models.Employee) error {
	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, email = $3, position = $4, department = $5, profile_image = $6
		WHERE id = $7
	`

	res, err := s.db.ExecContext(ctx, query,
		emp.FirstName, emp.LastName, emp.Email, emp.Position, emp.Department, emp.ProfileImage, emp.ID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteEmployee(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEmployees returns the caller's records, newest first. A non-empty
// search term matches case-insensitively against name, email, position
// and department.
func (s *Storage) ListEmployees(ctx context.Context, ownerID, search string) ([]models.Employee, error) {
	query := `
		SELECT id, first_name, last_name, email, position, department, profile_image, created_by, created_at
		FROM employees
		WHERE created_by = $1
	`
	args := []any{ownerID}

	if search != "" {
		query += ` AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2 OR position ILIKE $2 OR department ILIKE $2)`
		args = append(args, "%"+search+"%")
	}

	query += ` ORDER BY created_at DESC`

	employees := []models.Employee{}
	if err := s.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, err
	}
	return employees, nil
}
