package domain

// Roles. The id is the stored identifier carried in the session token's
// role claim; the name drives authorization checks.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"

	RoleIDAdmin    = "rol_admin"
	RoleIDCustomer = "rol_customer"
)

// RoleIDFor maps a role name to its stored identifier.
func RoleIDFor(name string) string {
	if name == RoleAdmin {
		return RoleIDAdmin
	}
	return RoleIDCustomer
}
