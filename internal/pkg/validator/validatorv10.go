package validator

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// ErrTranslatorNotFound is returned when the English translator cannot be built.
var ErrTranslatorNotFound = errors.New("translator not found")

// rule is a custom tag: an optional pattern the string field must match and
// the English message shown when it does not. Rules without a pattern only
// add a translation for a builtin tag.
type rule struct {
	tag     string
	pattern *regexp.Regexp
	message string
}

var rules = []rule{
	// NIST 800-63B length bounds; bcrypt ignores input past 72 bytes.
	{tag: "password", pattern: regexp.MustCompile(`^.{8,72}$`), message: "{0} must be 8-72 characters"},
	{tag: "phone", pattern: regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`), message: "{0} must be a valid phone number"},
	{tag: "otpcode", pattern: regexp.MustCompile(`^[0-9]{1,18}$`), message: "{0} must contain only digits"},
	{tag: "alphaspace", message: "{0} can contain only letters and spaces"},
}

// V10ValidationError maps snake_case field names to translated messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}
	b, _ := json.Marshal(map[string]string(vs))
	return string(b)
}

func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// V10Validator is the Validator backed by go-playground/validator with
// English messages.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	lang := en.New()
	trans, ok := ut.New(lang, lang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	for _, r := range rules {
		if err := register(validate, trans, r); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: validate, translator: trans}, nil
}

func register(validate *validator.Validate, trans ut.Translator, r rule) error {
	if r.pattern != nil {
		err := validate.RegisterValidation(r.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && r.pattern.MatchString(s)
		})
		if err != nil {
			return err
		}
	}

	return validate.RegisterTranslation(r.tag, trans,
		func(t ut.Translator) error { return t.Add(r.tag, r.message, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// Validate returns nil, a V10ValidationError, or the validator's own error
// for input it cannot inspect (a nil pointer, a non-struct).
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[snakeCase(fe.Field())] = fe.Translate(v.translator)
	}
	return out
}

// snakeCase turns a Go field name into its JSON key: UserID -> user_id,
// HTTPServer -> http_server, RoleID2 -> role_id2.
func snakeCase(s string) string {
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			wordEnds := unicode.IsLower(prev) || unicode.IsDigit(prev)
			acronymEnds := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if wordEnds || acronymEnds {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
