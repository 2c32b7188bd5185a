package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// EmployeeRepository stores employees of a company.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByEmail(ctx context.Context, company, email string) (*domain.Employee, error)
	FindForLogin(ctx context.Context, id int64, email, company string) (*domain.Employee, error)
	ListByCompany(ctx context.Context, company string, limit, offset int) ([]domain.Employee, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository builds repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, name, email, role, department, company, admin_id, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (name, email, role, department, company, admin_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		employee.Name,
		employee.Email,
		employee.Role,
		employee.Department,
		employee.Company,
		employee.AdminID,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees SET name=$1, email=$2, role=$3, department=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		employee.Name,
		employee.Email,
		employee.Role,
		employee.Department,
		employee.ID,
	).Scan(&employee.UpdatedAt)
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id=$1`, id)
	var employee domain.Employee
	if err := scanEmployee(row, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) GetByEmail(ctx context.Context, company, email string) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE company=$1 AND email=$2`,
		company, email)
	var employee domain.Employee
	if err := scanEmployee(row, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindForLogin(ctx context.Context, id int64, email, company string) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id=$1 AND email=$2 AND company=$3`,
		id, email, company)
	var employee domain.Employee
	if err := scanEmployee(row, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) ListByCompany(ctx context.Context, company string, limit, offset int) ([]domain.Employee, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE company=$1 ORDER BY id ASC LIMIT $2 OFFSET $3`,
		company, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := scanEmployee(rows, &employee); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}

func scanEmployee(row pgx.Row, employee *domain.Employee) error {
	return row.Scan(
		&employee.ID,
		&employee.Name,
		&employee.Email,
		&employee.Role,
		&employee.Department,
		&employee.Company,
		&employee.AdminID,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
}
