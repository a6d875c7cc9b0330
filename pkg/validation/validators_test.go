package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	JobID     string `validate:"required,objectid"`
	CompanyID string `validate:"company_id"`
	Name      string `validate:"no_emoji"`
	CertType  string `validate:"cert_type"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator()

	t.Run("valid", func(t *testing.T) {
		err := v.Struct(sample{JobID: "64b7f0c2a1b2c3d4e5f60718", CompanyID: "acme_01", Name: "Jane Doe", CertType: "aws-cloud"})
		assert.NoError(t, err)
	})

	t.Run("bad object id", func(t *testing.T) {
		err := v.Struct(sample{JobID: "not-an-id"})
		require.Error(t, err)
		msgs := FormatValidationErrors(err)
		assert.Equal(t, []string{"jobId must be a valid id"}, msgs)
	})

	t.Run("company id rejects spaces", func(t *testing.T) {
		err := v.Struct(sample{JobID: "64b7f0c2a1b2c3d4e5f60718", CompanyID: "acme corp"})
		require.Error(t, err)
		assert.Contains(t, FormatValidationErrors(err)[0], "companyId")
	})

	t.Run("emoji rejected", func(t *testing.T) {
		err := v.Struct(sample{JobID: "64b7f0c2a1b2c3d4e5f60718", Name: "Jane \U0001F600"})
		assert.Error(t, err)
	})

	t.Run("cert type cannot address nested fields", func(t *testing.T) {
		assert.False(t, IsCertificateType("a.b"))
		assert.False(t, IsCertificateType("$set"))
		assert.True(t, IsCertificateType("other"))
	})
}

func TestFormatValidationErrorsNonValidator(t *testing.T) {
	msgs := FormatValidationErrors(assert.AnError)
	assert.Equal(t, []string{assert.AnError.Error()}, msgs)
}
