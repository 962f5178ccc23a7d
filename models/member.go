// File: models/member.go
package models

// Member is a gym member who can log in and sign up for classes.
type Member struct {
	ID       string `yaml:"id" validate:"required"`
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password" validate:"required"` // bcrypt hash
	Name     string `yaml:"name"`
}
