package core

// UserRole is a role assignment as the backend reports it.
type UserRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// User mirrors the backend's user response shape.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	FullName  string     `json:"fullName"`
	IsActive  bool       `json:"isActive"`
	CreatedAt string     `json:"createdAt,omitempty"`
	Roles     []UserRole `json:"roles,omitempty"`
}

// HasRole reports whether the user carries a role with the given code.
func (u *User) HasRole(code string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Code == code {
			return true
		}
	}
	return false
}

// AdminRoleCode is the role code the backend seeds for administrators.
const AdminRoleCode = "ADMIN"

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the backend payload for a successful login.
type LoginResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// LoginResult is the structured outcome of SessionStore.Login.
// Error carries a display-ready message when Success is false.
type LoginResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RegisterData are the inputs for creating a user account.
// Registration is admin-gated on the backend; it is not a public sign-up.
type RegisterData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RegisterResponse is the backend payload for a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// MessageResponse is the generic {message} payload the backend returns for
// forgot-password and reset-password calls.
type MessageResponse struct {
	Message string `json:"message"`
}

// Page is the paginated list envelope the backend uses for feature list
// endpoints.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// TotalPages derives the page count from Total and Limit.
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	pages := p.Total / p.Limit
	if p.Total%p.Limit != 0 {
		pages++
	}
	return pages
}
