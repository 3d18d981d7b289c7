package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ID    int64  `json:"id" binding:"required,gt=0"`
	Title string `json:"title" binding:"required,max=5"`
	Image string `json:"image" binding:"omitempty,url"`
	Qty   int    `json:"quantity" binding:"omitempty,lte=3"`
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()

	t.Run("uses json names and readable messages", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&sampleRequest{Title: "too long", Image: "nope", Qty: 9})
		require.Error(t, err)

		got := map[string]string{}
		for _, d := range ValidationDetails(err) {
			got[d.Field] = d.Message
		}
		assert.Equal(t, "This field is required", got["id"])
		assert.Equal(t, "Must be at most 5 characters", got["title"])
		assert.Equal(t, "Invalid URL format", got["image"])
		assert.Equal(t, "Must be less than or equal to 3", got["quantity"])
	})

	t.Run("other errors have no details", func(t *testing.T) {
		assert.Nil(t, ValidationDetails(errors.New("unexpected EOF")))
	})
}
