package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	About    string `json:"about" binding:"omitempty,desc"`
}

func TestDetailsUsesJSONFieldNames(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&sampleForm{
		Email:    "not-an-email",
		Password: "12345",
		About:    "1234",
	})
	require.Error(t, err)

	details := Details(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
	assert.Equal(t, "must be at least 5 characters long", details["about"])
}

func TestDetailsValidInput(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&sampleForm{
		Email:    "alice@example.com",
		Password: "password123",
		About:    "long enough",
	})
	assert.NoError(t, err)
	assert.Nil(t, Details(err))
}
