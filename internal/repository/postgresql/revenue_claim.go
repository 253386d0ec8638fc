package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/revenue"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/database"
)

type claimRepositoryImpl struct {
	db *database.DB
}

func NewClaimRepository(db *database.DB) revenue.ClaimRepository {
	return &claimRepositoryImpl{db: db}
}

// ListApprovedPaidBetween implements revenue.ClaimRepository. end is a
// calendar day, so payments anywhere on that day are included.
func (r *claimRepositoryImpl) ListApprovedPaidBetween(ctx context.Context, employeeID string, companyID string, start, end time.Time) ([]revenue.Claim, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT rc.id, rc.employee_id, rc.company_id, rc.transaction_id, rc.status,
			   rc.claim_amount, t.payment_date, rc.created_at
		FROM revenue_claims rc
		JOIN transactions t ON t.id = rc.transaction_id
		WHERE rc.employee_id = $1
		  AND rc.company_id = $2
		  AND rc.status = $3
		  AND t.payment_date >= $4
		  AND t.payment_date < $5
		ORDER BY t.payment_date
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, revenue.ClaimStatusApproved, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list revenue claims: %w", err)
	}
	defer rows.Close()

	var claims []revenue.Claim
	for rows.Next() {
		var c revenue.Claim
		if err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.CompanyID, &c.TransactionID, &c.Status,
			&c.ClaimAmount, &c.PaymentDate, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan revenue claim: %w", err)
		}
		claims = append(claims, c)
	}

	return claims, rows.Err()
}
