// Package access holds the authorization policy for catalog and directory
// operations. Callers are resolved once per request at the HTTP boundary and
// passed explicitly into every gated operation; nothing here reads ambient state.
package access

import (
	"fmt"

	"github.com/librarydesk/library-admin/internal/core/domain"
)

// Caller is the authenticated principal behind a request.
type Caller struct {
	PersonID int64
	Username string
	Role     domain.Role
}

// Authenticated reports whether the caller was resolved from valid credentials.
func (c Caller) Authenticated() bool {
	return c.Username != "" && c.Role.Valid()
}

func (c Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == domain.RoleAdmin
}

// Rule describes who may run an operation.
type Rule struct {
	role   domain.Role
	selfID int64
	self   bool
}

// AnyCaller admits every authenticated caller.
func AnyCaller() Rule {
	return Rule{}
}

// RequireRole admits callers holding role.
func RequireRole(role domain.Role) Rule {
	return Rule{role: role}
}

// RequireSelf admits only the person identified by id.
func RequireSelf(id int64) Rule {
	return Rule{selfID: id, self: true}
}

// RequireSelfOrRole admits the person identified by id or any caller holding role.
func RequireSelfOrRole(id int64, role domain.Role) Rule {
	return Rule{role: role, selfID: id, self: true}
}

func (r Rule) String() string {
	switch {
	case r.self && r.role != "":
		return fmt.Sprintf("self(%d) or role %s", r.selfID, r.role)
	case r.self:
		return fmt.Sprintf("self(%d)", r.selfID)
	case r.role != "":
		return "role " + string(r.role)
	default:
		return "authenticated"
	}
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns nil for an allowed decision and an error wrapping domain.ErrForbidden otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
}

// Authorize evaluates rule for caller.
func Authorize(caller Caller, rule Rule) Decision {
	if !caller.Authenticated() {
		return Decision{Reason: "caller is not authenticated"}
	}
	if rule.role != "" && caller.Role == rule.role {
		return Decision{Allowed: true}
	}
	if rule.self && caller.PersonID == rule.selfID {
		return Decision{Allowed: true}
	}
	if rule.role == "" && !rule.self {
		return Decision{Allowed: true}
	}
	return Decision{Reason: "requires " + rule.String()}
}
