package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-performance-go/internal/handler/http/response"
)

type companyIDKey struct{}

// RequireCompany resolves the company_id claim into the request context.
// Pending users and tokens without a company are rejected.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		companyID, ok := claims["company_id"].(string)
		if !ok || companyID == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		if role, _ := claims["role"].(string); user.Role(role) == user.RolePending {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		ctx := context.WithValue(r.Context(), companyIDKey{}, companyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CompanyIDFromContext returns the company resolved by RequireCompany.
func CompanyIDFromContext(ctx context.Context) (string, bool) {
	companyID, ok := ctx.Value(companyIDKey{}).(string)
	return companyID, ok && companyID != ""
}
