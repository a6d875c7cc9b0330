package validation

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

	// Human-chosen company handles: letters, digits, dash, underscore.
	companyIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{2,64}$`)

	// Keys under certificates.<type>; anything else could address another field.
	certTypeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,40}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("objectid", ObjectID)
	_ = v.RegisterValidation("company_id", CompanyID)
	_ = v.RegisterValidation("cert_type", CertificateType)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

func ObjectID(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return objectIDRegex.MatchString(val)
}

func CompanyID(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return companyIDRegex.MatchString(val)
}

func CertificateType(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return IsCertificateType(val)
}

// IsCertificateType reports whether s is safe to use as a certificates map key.
func IsCertificateType(s string) bool {
	return certTypeRegex.MatchString(s)
}

// NoEmoji rejects strings containing emoji or pictographic symbols.
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}
