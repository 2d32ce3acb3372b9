package controllers

import (
	"net/http"

	"github.com/grocerly/storefront-api/api/middleware"
	"github.com/grocerly/storefront-api/pkg/access"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
)

func actorFromRequest(r *http.Request) (access.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return access.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return actor, nil
}
