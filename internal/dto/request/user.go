package request

// CreateUserRequest is the admin provisioning form. Unlike self-registration
// it may assign any role; the role is immutable once set.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Address  string `json:"address" validate:"required,max=400"`
	Role     string `json:"role" validate:"required,oneof=admin user store_owner"`
}
