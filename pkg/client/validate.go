package client

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var formValidator = validator.New()

// loginForm mirrors the backend's login contract for pre-flight checks.
type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// ValidateLogin checks a login form before it reaches the network. A nil
// return means the form is submittable; otherwise the error is a
// *ValidationError keyed by field.
func ValidateLogin(email, password string) error {
	err := formValidator.Struct(loginForm{Email: email, Password: password})
	if err == nil {
		return nil
	}

	ve := &ValidationError{Fields: map[string]string{}}
	for _, fe := range err.(validator.ValidationErrors) {
		switch fe.Field() {
		case "Email":
			ve.Fields["email"] = "Please enter a valid email address"
		case "Password":
			ve.Fields["password"] = "Password is required"
		}
	}
	return ve
}

// ValidateLoginForm checks a login form whose identifier may be a username
// or an email address. Identifiers containing "@" must be syntactically
// valid addresses; the password is always required. Session operations run
// this before any network call.
func ValidateLoginForm(login, password string) error {
	if strings.Contains(login, "@") {
		return ValidateLogin(login, password)
	}

	ve := &ValidationError{Fields: map[string]string{}}
	if login == "" {
		ve.Fields["login"] = "Username or email is required"
	}
	if password == "" {
		ve.Fields["password"] = "Password is required"
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

type registrationForm struct {
	Email    string `validate:"required,email"`
	Username string `validate:"required,alphanum,min=3,max=50"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"required,oneof=artist promoter venue user"`
}

// ValidateRegistration checks a registration form, including password
// confirmation, before submission.
func ValidateRegistration(in RegisterInput) error {
	ve := &ValidationError{Fields: map[string]string{}}

	err := formValidator.Struct(registrationForm{
		Email:    in.Email,
		Username: in.Username,
		Password: in.Password,
		Role:     string(in.Role),
	})
	if err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "Email":
				ve.Fields["email"] = "Please enter a valid email address"
			case "Username":
				ve.Fields["username"] = "Username must be 3-50 letters and digits"
			case "Password":
				ve.Fields["password"] = "Password must be at least 8 characters"
			case "Role":
				ve.Fields["role"] = "Please choose an account type"
			}
		}
	}

	if in.ConfirmPassword != in.Password {
		ve.Fields["confirm_password"] = "Passwords do not match"
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}
