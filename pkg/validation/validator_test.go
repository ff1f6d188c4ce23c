package validation

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,pwd"`
}

func TestPasswordAlias(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&signup{Password: "short"})
	assert.Equal(t, "min", FailedRule(err, "pwd"))
	assert.Equal(t, "must be at least 8 characters long", ToDetails(err)["password"])

	err = binding.Validator.ValidateStruct(&signup{Password: strings.Repeat("x", 73)})
	assert.Equal(t, "max", FailedRule(err, "pwd"))
	assert.Equal(t, "must be at most 72 characters long", ToDetails(err)["password"])

	assert.NoError(t, binding.Validator.ValidateStruct(&signup{Password: strings.Repeat("x", 72)}))

	err = binding.Validator.ValidateStruct(&signup{Email: "nope", Password: "password1"})
	assert.Empty(t, FailedRule(err, "pwd"))
	assert.Equal(t, "must be a valid email", ToDetails(err)["email"])
}
