package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/id"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	id_translations "github.com/go-playground/validator/v10/translations/id"

	"inheritance-engine/internal/model"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags & texts
	heirRelationTag  = "heir_relation"
	heirRelationText = "{0} tidak dikenal"

	overrides = map[string]string{
		"required": "{0} wajib diisi",
		"gt":       "{0} harus lebih besar dari {1}",
		"gte":      "{0} tidak boleh negatif",
		"min":      "{0} minimal {1}",
		"oneof":    "{0} harus salah satu dari: {1}",
	}
)

// Instantiate the validator with Indonesian messages.
func init() {
	validate = validator.New()

	_id := id.New()
	uni := ut.New(_id, _id)
	translator, _ = uni.GetTranslator("id")
	_ = id_translations.RegisterDefaultTranslations(validate, translator)

	// Use the label tag (or the JSON name) in messages instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(heirRelationTag, heirRelationValidation)
	registerCustomTranslation(heirRelationTag, heirRelationText, false)
	for tag, text := range overrides {
		registerCustomTranslation(tag, text, true)
	}
}

func registerCustomTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

func heirRelationValidation(fl validator.FieldLevel) bool {
	return model.Relation(fl.Field().String()).Valid()
}

// structErrors validates v and returns translated messages for the fields
// whose Go namespace passes keep.
func structErrors(v interface{}, keep func(ns string) bool) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	var msgs []string
	for _, fe := range verrs {
		if keep != nil && !keep(fe.StructNamespace()) {
			continue
		}
		msgs = append(msgs, fe.Translate(translator))
	}
	return msgs
}
