package model

// Role values carried by authors and authenticated actors.
const (
	RoleFarmer   = "farmer"
	RoleExpert   = "expert"
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Actor is the already-authenticated caller of a core operation.
// Resolved by the transport layer; the core never checks credentials.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// AuthorInfo describes who wrote a post or comment.
type AuthorInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Location string `json:"location,omitempty"`
	Verified bool   `json:"verified"`
	Role     string `json:"role"`
}

// IsValidRole reports whether role is one of the known author roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleFarmer, RoleExpert, RoleCustomer:
		return true
	}
	return false
}
