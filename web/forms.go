package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names double as the HTML input names and as keys of page.Errors.

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	From     string `form:"from"`
}

type registerForm struct {
	FirstName   string `form:"firstName" validate:"required,max=100"`
	LastName    string `form:"lastName" validate:"required,max=100"`
	Email       string `form:"email" validate:"required,email"`
	PhoneNumber string `form:"phoneNumber" validate:"required,max=32"`
	Password    string `form:"password" validate:"required,min=6"`
}

type forgotPasswordForm struct {
	Email string `form:"email" validate:"required,email"`
}

type resetPasswordForm struct {
	Code            string `form:"code" validate:"required"`
	NewPassword     string `form:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type updatePasswordForm struct {
	OldPassword     string `form:"oldPassword" validate:"required"`
	NewPassword     string `form:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type transferForm struct {
	AccountNumber            string  `form:"accountNumber" validate:"required"`
	DestinationAccountNumber string  `form:"destinationAccountNumber" validate:"required,nefield=AccountNumber"`
	AmountText               string  `form:"-"`
	Amount                   float64 `form:"amount" validate:"gt=0"`
	Description              string  `form:"description" validate:"max=255"`
}

type depositForm struct {
	AccountNumber string  `form:"accountNumber" validate:"required"`
	AmountText    string  `form:"-"`
	Amount        float64 `form:"amount" validate:"gt=0"`
	Description   string  `form:"description" validate:"required,max=255"`
}

var fieldLabels = map[string]string{
	"email":                    "Email",
	"password":                 "Password",
	"firstName":                "First name",
	"lastName":                 "Last name",
	"phoneNumber":              "Phone number",
	"code":                     "Reset code",
	"oldPassword":              "Current password",
	"newPassword":              "New password",
	"confirmPassword":          "Password confirmation",
	"accountNumber":            "Account number",
	"destinationAccountNumber": "Destination account",
	"amount":                   "Amount",
	"description":              "Description",
}

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// check validates form and returns user-facing messages keyed by input name. A nil map
// means the form is valid.
func (s *Server) check(form any) map[string]string {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "nefield":
		return "Cannot transfer to the same account"
	case "gt":
		return label + " must be greater than 0"
	}
	return label + " is invalid"
}

func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

// parseAmount returns 0 for anything that is not a finite number, which the gt=0 rule
// then rejects.
func parseAmount(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func readLoginForm(r *http.Request) loginForm {
	return loginForm{
		Email:    formValue(r, "email"),
		Password: r.PostFormValue("password"),
		From:     r.PostFormValue("from"),
	}
}

func readRegisterForm(r *http.Request) registerForm {
	return registerForm{
		FirstName:   formValue(r, "firstName"),
		LastName:    formValue(r, "lastName"),
		Email:       formValue(r, "email"),
		PhoneNumber: formValue(r, "phoneNumber"),
		Password:    r.PostFormValue("password"),
	}
}

func readResetPasswordForm(r *http.Request) resetPasswordForm {
	return resetPasswordForm{
		Code:            formValue(r, "code"),
		NewPassword:     r.PostFormValue("newPassword"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
}

func readUpdatePasswordForm(r *http.Request) updatePasswordForm {
	return updatePasswordForm{
		OldPassword:     r.PostFormValue("oldPassword"),
		NewPassword:     r.PostFormValue("newPassword"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
}

func readTransferForm(r *http.Request) transferForm {
	amount := formValue(r, "amount")
	return transferForm{
		AccountNumber:            formValue(r, "accountNumber"),
		DestinationAccountNumber: formValue(r, "destinationAccountNumber"),
		AmountText:               amount,
		Amount:                   parseAmount(amount),
		Description:              formValue(r, "description"),
	}
}

func readDepositForm(r *http.Request) depositForm {
	amount := formValue(r, "amount")
	return depositForm{
		AccountNumber: formValue(r, "accountNumber"),
		AmountText:    amount,
		Amount:        parseAmount(amount),
		Description:   formValue(r, "description"),
	}
}
