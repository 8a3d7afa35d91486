package ports

// Actor identifies the authenticated caller of a use case. Services use it to
// enforce RBAC: carrier actors only see orders dispatched to their company.
type Actor struct {
	Username  string
	Role      string
	CompanyID string
}
