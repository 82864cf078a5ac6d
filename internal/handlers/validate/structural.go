package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/socialnet/internal/apperrors"
	"github.com/nkiryanov/socialnet/internal/messages"
	"github.com/nkiryanov/socialnet/internal/models"
)

// Same set validator.js uses for strong password symbols
const passwordSymbols = "-#!$@£%^&*()_+|~=`{}[]:\";'<>?,./\\ "

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	configureValidator(v)
	return v
}

func configureValidator(validate *validator.Validate) {
	_ = validate.RegisterValidation("strongpassword", validateStrongPassword)
	_ = validate.RegisterValidation("iso8601", validateISO8601)
	_ = validate.RegisterValidation("username", validateUsername)
	validate.RegisterTagNameFunc(useJSONTagNames)
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// At least one lowercase, one uppercase, one digit and one symbol. ASCII classes only
func validateStrongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, symbol bool

	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	return lower && upper && digit && symbol
}

func validateISO8601(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

// 4-15 letters, digits or underscores, but not digits only
func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if len(username) < 4 || len(username) > 15 {
		return false
	}

	onlyDigits := true
	for _, r := range username {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			onlyDigits = false
		default:
			return false
		}
	}

	return !onlyDigits
}

// Messages for structural failures keyed by 'field.tag'
var defaultMessages = map[string]string{
	"name.required": messages.NameIsRequired,
	"name.min":      messages.NameLengthFrom3To10,
	"name.max":      messages.NameLengthFrom3To10,

	"email.required": messages.EmailIsRequired,
	"email.email":    messages.EmailIsInvalid,

	"password.required":       messages.PasswordIsRequired,
	"password.min":            messages.PasswordLengthFrom6To50,
	"password.max":            messages.PasswordLengthFrom6To50,
	"password.strongpassword": messages.PasswordMustBeStrong,

	"confirm_password.required":       messages.ConfirmPasswordIsRequired,
	"confirm_password.min":            messages.ConfirmPasswordLengthFrom6To50,
	"confirm_password.max":            messages.ConfirmPasswordLengthFrom6To50,
	"confirm_password.strongpassword": messages.ConfirmPasswordMustBeStrong,
	"confirm_password.eqfield":        messages.ConfirmPasswordNotMatch,

	"date_of_birth.required": messages.DateOfBirthMustBeISO8601,
	"date_of_birth.iso8601":  messages.DateOfBirthMustBeISO8601,

	"bio.max":         messages.BioLengthMax200,
	"location.max":    messages.LocationLengthMax200,
	"website.max":     messages.WebsiteLengthMax200,
	"avatar.max":      messages.ImageURLLengthMax400,
	"cover_photo.max": messages.ImageURLLengthMax400,

	"username.username": messages.UsernameIsInvalid,

	"followed_user_id.required": messages.InvalidUserID,
	"followed_user_id.uuid":     messages.InvalidUserID,
	"user_id.required":          messages.InvalidUserID,
	"user_id.uuid":              messages.InvalidUserID,
}

// Run struct tags validation and return failures keyed by field. First failed tag per field wins
func structural(v *validator.Validate, value any, location Location, overrides map[string]string) (map[string]apperrors.FieldError, error) {
	err := v.Struct(value)
	if err == nil {
		return nil, nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// Not a struct passed or similar programming error
		return nil, err
	}

	errs := make(map[string]apperrors.FieldError, len(validationErrs))
	for _, fe := range validationErrs {
		field := fe.Field()
		if _, failed := errs[field]; failed {
			continue
		}
		errs[field] = apperrors.FieldError{
			Msg:      message(field, fe.Tag(), overrides),
			Path:     field,
			Location: string(location),
		}
	}

	return errs, nil
}

func message(field string, tag string, overrides map[string]string) string {
	key := field + "." + tag
	if msg, ok := overrides[key]; ok {
		return msg
	}
	if msg, ok := defaultMessages[key]; ok {
		return msg
	}
	return messages.InvalidValue
}
