package organization

import "errors"

var (
	ErrOrganizationNotFound   = errors.New("organization not found")
	ErrOrganizationNameExists = errors.New("organization with this name already exists")
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrDepartmentNameExists   = errors.New("department with this name already exists in the organization")
)
