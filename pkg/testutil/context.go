package testutil

import (
	"net/http"

	"github.com/google/uuid"

	id "medid/pkg/domain"
	"medid/pkg/requestcontext"
)

// WithPrincipal attaches an authenticated caller to the request, as RequireAuth
// would after verifying a token. A zero identity id gets a random one.
func WithPrincipal(req *http.Request, identityID id.IdentityID, role id.Role) *http.Request {
	if identityID.IsNil() {
		identityID = id.IdentityID(uuid.New())
	}
	ctx := requestcontext.WithPrincipal(req.Context(), requestcontext.Principal{
		IdentityID: identityID,
		Role:       role,
		TokenID:    uuid.NewString(),
	})
	return req.WithContext(ctx)
}

// AsAdministrator is WithPrincipal for a random administrator.
func AsAdministrator(req *http.Request) *http.Request {
	return WithPrincipal(req, id.IdentityID{}, id.RoleAdministrator)
}
