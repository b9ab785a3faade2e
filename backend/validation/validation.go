// Package validation holds the shared request validator.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"coursehub/backend/apperr"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag  = "notblank"
	youtubeIDTag = "youtube_id"

	youtubeIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	youtubeURLPattern = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|embed/|v/)|youtu\.be/)([A-Za-z0-9_-]{11})`)
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// report JSON field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = Validate.RegisterValidation(youtubeIDTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && youtubeIDPattern.MatchString(s)
	})

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, youtubeIDTag} {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case youtubeIDTag:
		return fe.Field() + " must be an 11 character YouTube video id"
	default:
		return fe.Field() + " is invalid"
	}
}

// Struct validates v and reports failures as apperr.FieldErrors.
func Struct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Invalid(err.Error())
	}
	fields := make(apperr.FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(Translator)
	}
	return fields
}

// NormalizeYouTubeID accepts a bare video id or a watch, embed or youtu.be
// URL and returns the 11 character id. Anything else is returned trimmed
// so the youtube_id rule rejects it.
func NormalizeYouTubeID(input string) string {
	s := strings.TrimSpace(input)
	if youtubeIDPattern.MatchString(s) {
		return s
	}
	if m := youtubeURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
