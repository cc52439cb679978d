package decorator

type ApplyRequest struct {
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone"`
	PhotoURL     string   `json:"photoURL"`
	Specialities []string `json:"specialities" validate:"required,min=1,dive,required"`
	Experience   string   `json:"experience"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}
