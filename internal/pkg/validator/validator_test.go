package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type application struct {
	Email        string   `json:"email" validate:"required,email"`
	Specialities []string `json:"specialities" validate:"min=1"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(application{Email: "a@test.com", Specialities: []string{"wedding"}}))

	errs := Validate(application{Email: "nope"})
	assert.Equal(t, "email", errs["email"])
	assert.Equal(t, "min", errs["specialities"])
}
