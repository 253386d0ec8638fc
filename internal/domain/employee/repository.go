package employee

import "context"

// EmployeeRepository is the employee directory lookup consumed by the
// performance engine. Every method is scoped by companyID.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the employee does not exist
	// in the given company.
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	ListActiveByCompany(ctx context.Context, companyID string) ([]Employee, error)
	ListActiveCompanyIDs(ctx context.Context) ([]string, error)
}
