package user

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type RoleResponse struct {
	Role string `json:"role"`
}
