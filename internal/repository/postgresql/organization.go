package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/organization"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type organizationRepositoryImpl struct {
	db *database.DB
}

func NewOrganizationRepository(db *database.DB) organization.OrganizationRepository {
	return &organizationRepositoryImpl{db: db}
}

const organizationColumns = ` id, name, description, created_at, updated_at`

func scanOrganization(row pgx.Row) (organization.Organization, error) {
	var o organization.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Create implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) Create(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `INSERT INTO organizations (name, description) VALUES ($1, $2) RETURNING` + organizationColumns

	created, err := scanOrganization(q.QueryRow(ctx, query, org.Name, org.Description))
	if err != nil {
		if isUniqueViolation(err) {
			return organization.Organization{}, organization.ErrOrganizationNameExists
		}
		return organization.Organization{}, fmt.Errorf("failed to create organization: %w", err)
	}
	return created, nil
}

// GetByID implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	o, err := scanOrganization(q.QueryRow(ctx, `SELECT`+organizationColumns+` FROM organizations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return organization.Organization{}, organization.ErrOrganizationNotFound
		}
		return organization.Organization{}, fmt.Errorf("failed to get organization: %w", err)
	}
	return o, nil
}

// List implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) List(ctx context.Context) ([]organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+organizationColumns+` FROM organizations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}

	orgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (organization.Organization, error) {
		return scanOrganization(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan organizations: %w", err)
	}
	return orgs, nil
}

// Update implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) Update(ctx context.Context, req organization.UpdateOrganizationRequest) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE organizations
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING` + organizationColumns

	o, err := scanOrganization(q.QueryRow(ctx, query, req.ID, req.Name, req.Description))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err):
			return organization.Organization{}, organization.ErrOrganizationNotFound
		case isUniqueViolation(err):
			return organization.Organization{}, organization.ErrOrganizationNameExists
		}
		return organization.Organization{}, fmt.Errorf("failed to update organization: %w", err)
	}
	return o, nil
}

// Delete implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return organization.ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return organization.ErrOrganizationNotFound
	}
	return nil
}

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) organization.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

const departmentSelect = `
	SELECT d.id, d.organization_id, d.name, d.description, d.created_at, d.updated_at,
	       o.name,
	       (SELECT COUNT(*) FROM users u WHERE u.department_id = d.id::text)
	FROM departments d
	JOIN organizations o ON o.id = d.organization_id`

func scanDepartment(row pgx.Row) (organization.Department, error) {
	var d organization.Department
	err := row.Scan(&d.ID, &d.OrganizationID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt,
		&d.OrganizationName, &d.UserCount)
	return d, err
}

// Create implements organization.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, dept organization.Department) (organization.Department, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx,
		`INSERT INTO departments (organization_id, name, description) VALUES ($1, $2, $3) RETURNING id`,
		dept.OrganizationID, dept.Name, dept.Description,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return organization.Department{}, organization.ErrDepartmentNameExists
		}
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return organization.Department{}, organization.ErrOrganizationNotFound
		}
		return organization.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements organization.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (organization.Department, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDepartment(q.QueryRow(ctx, departmentSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return organization.Department{}, organization.ErrDepartmentNotFound
		}
		return organization.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// List implements organization.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context, organizationID string) ([]organization.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := departmentSelect
	var args []any
	if organizationID != "" {
		query += ` WHERE d.organization_id = $1`
		args = append(args, organizationID)
	}
	query += ` ORDER BY o.name, d.name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return nil, organization.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}

	depts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (organization.Department, error) {
		return scanDepartment(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan departments: %w", err)
	}
	return depts, nil
}

// Update implements organization.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, req organization.UpdateDepartmentRequest) (organization.Department, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE departments
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $1`,
		req.ID, req.Name, req.Description,
	)
	if err != nil {
		switch {
		case isInvalidTextRepresentation(err):
			return organization.Department{}, organization.ErrDepartmentNotFound
		case isUniqueViolation(err):
			return organization.Department{}, organization.ErrDepartmentNameExists
		}
		return organization.Department{}, fmt.Errorf("failed to update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return organization.Department{}, organization.ErrDepartmentNotFound
	}
	return r.GetByID(ctx, req.ID)
}

// Delete implements organization.DepartmentRepository.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return organization.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return organization.ErrDepartmentNotFound
	}
	return nil
}

// DetachUsers implements organization.DepartmentRepository.
func (r *departmentRepositoryImpl) DetachUsers(ctx context.Context, departmentIDs []string) (int64, error) {
	if len(departmentIDs) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET department_id = NULL, organization_id = NULL, updated_at = NOW()
		WHERE department_id = ANY($1)`,
		departmentIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to detach department users: %w", err)
	}
	return tag.RowsAffected(), nil
}
