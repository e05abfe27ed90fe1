package validator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages used in validation reports.
const (
	MsgRequired    = "is required"
	MsgBlank       = "can't be blank"
	MsgInvalid     = "is invalid"
	MsgTaken       = "has already been taken"
	MsgNotIncluded = "is not included in the list"
)

// mailboxRegex accepts the addr-spec subset most mail clients produce:
// a dot-atom local part and a hostname of LDH labels.
var mailboxRegex = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$",
)

// New returns a validator with the project's custom tags registered and
// field names reported by their json name.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("present", Present)
	_ = v.RegisterValidation("mailbox", Mailbox)
	return v
}

// Present fails on empty or whitespace-only strings.
func Present(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Mailbox validates an email address against mailboxRegex.
func Mailbox(fl validator.FieldLevel) bool {
	return mailboxRegex.MatchString(fl.Field().String())
}

// Errors collects failure messages per field.
type Errors map[string][]string

// Add appends msg to field, skipping exact duplicates.
func (e Errors) Add(field, msg string) {
	for _, m := range e[field] {
		if m == msg {
			return
		}
	}
	e[field] = append(e[field], msg)
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+" "+strings.Join(e[f], ", "))
	}
	return strings.Join(parts, "; ")
}

// ParseError turns a struct validation error into per-field messages.
// Errors that did not come from the validator end up under "error".
func ParseError(err error) Errors {
	errs := Errors{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if fe.Tag() == "required" {
				errs.Add(fe.Field(), MsgRequired)
				continue
			}
			errs.Add(fe.Field(), Message(fe))
		}
	} else if err != nil {
		errs.Add("error", err.Error())
	}
	return errs
}

// Message renders a single field error.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "present":
		return MsgBlank
	case "mailbox", "email":
		return MsgInvalid
	case "oneof":
		return MsgNotIncluded
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	default:
		return fmt.Sprintf("is invalid (%s)", fe.Tag())
	}
}

// Check reports the failure message of one rule, or "" when it holds.
type Check func(ctx context.Context) (string, error)

// Rule binds a check to the field its failure is reported on.
type Rule struct {
	Field string
	Check Check
}

// Tag checks value against a validator tag expression.
func Tag(v *validator.Validate, value any, tag string) Check {
	return func(context.Context) (string, error) {
		err := v.Var(value, tag)
		if err == nil {
			return "", nil
		}
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return Message(ve[0]), nil
		}
		return "", err
	}
}

// Run evaluates every rule and aggregates all failures. It stops only when a
// check itself errors, which means the rule could not be evaluated.
func Run(ctx context.Context, rules ...Rule) (Errors, error) {
	errs := Errors{}
	for _, r := range rules {
		msg, err := r.Check(ctx)
		if err != nil {
			return nil, fmt.Errorf("validate %s: %w", r.Field, err)
		}
		if msg != "" {
			errs.Add(r.Field, msg)
		}
	}
	return errs, nil
}
