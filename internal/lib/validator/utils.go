package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"reviewhub/proj/internal/domain/errs"
	"reviewhub/proj/internal/domain/models"
	"reviewhub/proj/internal/utils"

	govalidator "github.com/go-playground/validator/v10"
)

// ReservedUsername is the alias of the current user's profile endpoint.
const ReservedUsername = "me"

var (
	usernameRx = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRx     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// New returns a validator with the custom tags used by the request inputs.
func New() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterValidation("username", ValidateUsername)
	v.RegisterValidation("notreserved", ValidateNotReserved)
	v.RegisterValidation("slug", ValidateSlug)
	v.RegisterValidation("notfuture", ValidateNotFutureYear)
	v.RegisterValidation("role", ValidateRole)
	return v
}

func structType(obj any) reflect.Type {
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func lookupField(obj any, origFieldName string) reflect.StructField {
	if i := strings.IndexByte(origFieldName, '['); i >= 0 {
		origFieldName = origFieldName[:i]
	}
	t := structType(obj)
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	return field
}

func getFieldName(obj any, origFieldName string) (fieldName string) {
	field := lookupField(obj, origFieldName)
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName != "" {
			return jsonName
		}
	}
	return utils.CamelToSnake(field.Name)
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		name := getFieldName(obj, e.StructField())
		if _, seen := processedErrors[name]; seen {
			continue
		}
		processedErrors[name] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		var vErrs govalidator.ValidationErrors
		if !errors.As(err, &vErrs) {
			panic(err)
		}
		validationErrs = ProcessValidationErrors(obj, vErrs)
	}
	return
}

// Validate is ValidateStruct wrapped into the shared validation error kind.
func Validate(validator *govalidator.Validate, obj any) error {
	return errs.NewValidation(ValidateStruct(validator, obj))
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	field := lookupField(obj, err.StructField())
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			if err.Kind() == reflect.String {
				errorMsg = fmt.Sprintf("Ensure this field has no more than %s characters", err.Param())
			} else {
				errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
			}
		case "min":
			if err.Kind() == reflect.Slice {
				errorMsg = fmt.Sprintf("Ensure this field has at least %s items", err.Param())
			} else {
				errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
			}
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "lt":
			errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
		case "gt":
			errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "unique":
			errorMsg = "Value must not contain duplicate values"
		case "email":
			errorMsg = "Value must be a valid email address"
		case "username":
			errorMsg = "Value may contain only letters, digits and @/./+/-/_ characters"
		case "notreserved":
			errorMsg = fmt.Sprintf("Username %q is reserved", ReservedUsername)
		case "slug":
			errorMsg = "Value may contain only letters, digits, hyphens and underscores"
		case "notfuture":
			errorMsg = "Year cannot be greater than the current year"
		case "role":
			errorMsg = fmt.Sprintf("Value should be one of %s, %s, %s", models.RoleUser, models.RoleModerator, models.RoleAdmin)
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

func ValidateUsername(fl govalidator.FieldLevel) bool {
	return usernameRx.MatchString(fl.Field().String())
}

func ValidateNotReserved(fl govalidator.FieldLevel) bool {
	return fl.Field().String() != ReservedUsername
}

func ValidateSlug(fl govalidator.FieldLevel) bool {
	return slugRx.MatchString(fl.Field().String())
}

func ValidateRole(fl govalidator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func ValidateNotFutureYear(fl govalidator.FieldLevel) bool {
	return fl.Field().Int() <= int64(time.Now().Year())
}
