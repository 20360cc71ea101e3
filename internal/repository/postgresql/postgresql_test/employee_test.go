package postgresql_test

import (
	"testing"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/employee"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_ListFiltersAndPages(t *testing.T) {
	ctx := setupTest(t)
	repo := postgresql.NewEmployeeRepository(testDB)
	dept := "dept-a"

	for _, email := range []string{"anil@apmaritime.in", "bala@apmaritime.in", "chitra@apmaritime.in"} {
		createTestUser(t, ctx, email, &dept)
	}
	outsider := createTestUser(t, ctx, "dev@apmaritime.in", nil)
	require.NoError(t, repo.SetActive(ctx, outsider.ID, false, time.Now()))

	page, total, err := repo.List(ctx, employee.EmployeeFilter{DepartmentID: &dept, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "chitra", page[0].Name)

	inactive, total, err := repo.List(ctx, employee.EmployeeFilter{Status: "inactive", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, outsider.ID, inactive[0].ID)
	assert.NotNil(t, inactive[0].StatusUpdatedAt)

	found, _, err := repo.List(ctx, employee.EmployeeFilter{Search: "BALA", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bala@apmaritime.in", found[0].Email)
}

func TestEmployeeRepository_UpdateAndCodeUniqueness(t *testing.T) {
	ctx := setupTest(t)
	repo := postgresql.NewEmployeeRepository(testDB)
	ravi := createTestUser(t, ctx, "ravi@apmaritime.in", nil)
	sita := createTestUser(t, ctx, "sita@apmaritime.in", nil)

	emp, err := repo.GetByID(ctx, ravi.ID)
	require.NoError(t, err)
	joined := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	emp.EmployeeCode = ptr("APMB-001")
	emp.EmploymentType = employee.EmploymentTypeContract
	emp.DateOfJoining = &joined
	emp.Role = user.RoleDepartmentAdmin

	updated, err := repo.Update(ctx, emp)
	require.NoError(t, err)
	assert.Equal(t, "APMB-001", *updated.EmployeeCode)
	assert.Equal(t, employee.EmploymentTypeContract, updated.EmploymentType)
	assert.Equal(t, "2024-06-03", updated.DateOfJoining.Format("2006-01-02"))
	assert.Equal(t, user.RoleDepartmentAdmin, updated.Role)

	other, err := repo.GetByID(ctx, sita.ID)
	require.NoError(t, err)
	other.EmployeeCode = ptr("APMB-001")
	_, err = repo.Update(ctx, other)
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_BankDetailsFromLatestSalary(t *testing.T) {
	ctx := setupTest(t)
	repo := postgresql.NewEmployeeRepository(testDB)
	salaries := postgresql.NewSalaryRepository(testDB)
	u := createTestUser(t, ctx, "ravi@apmaritime.in", nil)

	emp, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, emp.Bank)

	for _, s := range []struct {
		month string
		year  int
		bank  string
	}{
		{"December", 2025, "SBI"},
		{"February", 2026, "Canara Bank"},
		{"September", 2025, "Indian Bank"},
	} {
		_, err := salaries.Upsert(ctx, payroll.Salary{
			UserID: u.ID, Month: s.month, Year: s.year,
			Bank:     payroll.BankDetails{BankName: ptr(s.bank)},
			Earnings: payroll.Earnings{BasicPay: decimal.NewFromInt(30000)},
		})
		require.NoError(t, err)
	}

	emp, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, emp.Bank)
	assert.Equal(t, "Canara Bank", *emp.Bank.BankName)
}
