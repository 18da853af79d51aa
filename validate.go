package session

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	emailShape      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	employeeIDShape = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

// FormContext carries the cross-field state a single field needs: the
// selected role decides which fields are required, and confirm-password
// compares against the password entry.
type FormContext struct {
	Role     UserRole
	Password string
}

// ValidateLoginField validates one login form field and returns the inline
// error message, or "" when the value is acceptable. Admin-only fields pass
// unconditionally for regular users.
func ValidateLoginField(name, value string, ctx FormContext) string {
	switch name {
	case "email":
		return ruleError(value,
			validation.Required.Error("Email is required"),
			validation.Match(emailShape).Error("Invalid email"),
		)
	case "password":
		return ruleError(value,
			validation.Required.Error("Password is required"),
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
		)
	case "department":
		if ctx.Role != RoleAdmin {
			return ""
		}
		return ruleError(value, validation.Required.Error("Department is required"))
	case "employeeId":
		if ctx.Role != RoleAdmin {
			return ""
		}
		return ruleError(value,
			validation.Required.Error("Employee ID is required"),
			validation.Match(employeeIDShape).Error("Employee ID must be alphanumeric"),
		)
	default:
		return ""
	}
}

// ValidateSignupField validates one signup form field. Department, employee
// ID, designation, and the location fields apply to admins; SSN applies to
// regular users.
func ValidateSignupField(name, value string, ctx FormContext) string {
	switch name {
	case "name":
		return ruleError(value, validation.Required.Error("Name is required"))
	case "email":
		return ruleError(value,
			validation.Required.Error("Email is required"),
			validation.Match(emailShape).Error("Invalid email"),
		)
	case "password":
		return ruleError(value,
			validation.Required.Error("Password is required"),
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
		)
	case "confirmPassword":
		return ruleError(value,
			validation.Required.Error("Confirm password is required"),
			validation.By(stringEquals(ctx.Password, "Passwords do not match")),
		)
	case "ssn":
		if ctx.Role != RoleUser {
			return ""
		}
		return ruleError(value, validation.Required.Error("SSN is required"))
	case "department":
		if ctx.Role != RoleAdmin {
			return ""
		}
		return ruleError(value, validation.Required.Error("Department No is required"))
	case "employeeId":
		if ctx.Role != RoleAdmin {
			return ""
		}
		return ruleError(value,
			validation.Required.Error("Employee ID is required"),
			validation.Match(employeeIDShape).Error("Employee ID must be alphanumeric"),
		)
	case "designation":
		if ctx.Role != RoleAdmin {
			return ""
		}
		return ruleError(value, validation.Required.Error("Designation is required"))
	case "state", "district", "city", "ward":
		if ctx.Role != RoleAdmin {
			return ""
		}
		return ruleError(value, validation.Required.Error(name+" is required"))
	default:
		return ""
	}
}

// ValidateLoginForm aggregates per-field results; an empty map means the
// submission may proceed. Admin-only fields are skipped for regular users.
func ValidateLoginForm(r LoginRequest) map[string]string {
	ctx := FormContext{Role: r.Role}
	fields := map[string]string{
		"email":      r.Email,
		"password":   r.Password,
		"department": r.Department,
		"employeeId": r.EmployeeID,
	}

	fieldErrors := map[string]string{}
	for name, value := range fields {
		if r.Role == RoleUser && (name == "department" || name == "employeeId") {
			continue
		}
		if msg := ValidateLoginField(name, value, ctx); msg != "" {
			fieldErrors[name] = msg
		}
	}
	return fieldErrors
}

// ValidateSignupForm aggregates per-field results for the signup payload.
// Regular users skip the department entry; admins skip SSN.
func ValidateSignupForm(r SignupRequest) map[string]string {
	ctx := FormContext{Role: r.Role, Password: r.Password}
	fields := map[string]string{
		"name":            r.Name,
		"email":           r.Email,
		"password":        r.Password,
		"confirmPassword": r.ConfirmPassword,
		"ssn":             r.SSN,
		"department":      r.Department,
		"employeeId":      r.EmployeeID,
		"designation":     r.Designation,
		"state":           r.State,
		"district":        r.District,
		"city":            r.City,
		"ward":            r.Ward,
	}

	fieldErrors := map[string]string{}
	for name, value := range fields {
		if r.Role == RoleUser && name == "department" {
			continue
		}
		if r.Role == RoleAdmin && name == "ssn" {
			continue
		}
		if msg := ValidateSignupField(name, value, ctx); msg != "" {
			fieldErrors[name] = msg
		}
	}
	return fieldErrors
}

func ruleError(value string, rules ...validation.Rule) string {
	if err := validation.Validate(value, rules...); err != nil {
		return err.Error()
	}
	return ""
}

func stringEquals(expected, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != expected {
			return errors.New(message)
		}
		return nil
	}
}
