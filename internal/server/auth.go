package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pvesely/webplanner/internal/model"
)

// identityHeader carries the authenticated account's email address,
// installed by the upstream session layer.
const identityHeader = "X-Auth-User"

// UserResolver maps an HTTP request to its authenticated owner. The core
// never validates credentials itself; it trusts whatever identity the
// external session layer established.
type UserResolver interface {
	ResolveUser(r *http.Request) (*model.User, error)
}

// UserLookup is the slice of the store the resolver needs.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// RemoteUserResolver trusts the identity header written by an
// authenticating reverse proxy and resolves it to a stored user.
type RemoteUserResolver struct {
	Users UserLookup
}

// ResolveUser reads the identity header and looks the account up.
func (rr *RemoteUserResolver) ResolveUser(r *http.Request) (*model.User, error) {
	email := r.Header.Get(identityHeader)
	if email == "" {
		return nil, fmt.Errorf("missing %s header", identityHeader)
	}
	return rr.Users.GetUserByEmail(r.Context(), email)
}
