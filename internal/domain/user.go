package domain

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id,omitempty"`
}

// Session holds the credentials attached to every authenticated request.
// The password is kept verbatim because the backend expects Basic auth on
// each call.
type Session struct {
	User     User
	Username string
	Password string
}
