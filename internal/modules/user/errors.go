package user

import "errors"

var ErrUserExists = errors.New("user already exists")

// msgUserExists is the storefront's wording for a repeated registration.
const msgUserExists = "user already exist!"
