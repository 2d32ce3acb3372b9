package middleware

import (
	"net/http"

	"github.com/grocerly/storefront-api/api/responses"
	"github.com/grocerly/storefront-api/pkg/access"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
	"github.com/grocerly/storefront-api/pkg/logger"
)

// Authorize admits callers whose role holds capability under policy. It must
// run after Auth.
func Authorize(policy *access.Policy, capability access.Capability, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !policy.Allows(actor.Role, capability) {
				err := pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted").
					WithDetails(map[string]any{"capability": capability.String()})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
