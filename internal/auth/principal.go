package auth

import "context"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the resolved identity behind a request: UserPrincipal or AdminPrincipal.
type Principal interface {
	Role() Role
	principal()
}

type UserPrincipal struct {
	ID       uint
	Username string
}

func (UserPrincipal) Role() Role { return RoleUser }
func (UserPrincipal) principal() {}

// AdminPrincipal carries no user identity.
type AdminPrincipal struct{}

func (AdminPrincipal) Role() Role { return RoleAdmin }
func (AdminPrincipal) principal() {}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
