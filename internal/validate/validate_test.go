package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

type loginPayload struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Password    string `json:"password" validate:"required,min=6"`
}

func TestStructAcceptsValidPayload(t *testing.T) {
	require.NoError(t, Struct(loginPayload{PhoneNumber: "+919876543210", Password: "secret1"}))
}

func TestStructReportsFieldDetailsWithJSONNames(t *testing.T) {
	err := Struct(loginPayload{PhoneNumber: "", Password: "abc"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.KindValidation, typed.Kind())

	details := typed.Details()
	require.Len(t, details, 2)
	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "is required", byField["phoneNumber"])
	assert.Equal(t, "must be at least 6", byField["password"])
}
