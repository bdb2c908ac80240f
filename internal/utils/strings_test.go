package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelToSnake(t *testing.T) {
	cases := map[string]string{
		"Name":             "name",
		"FirstName":        "first_name",
		"ConfirmationCode": "confirmation_code",
		"UserID":           "user_id",
		"HTTPServer":       "http_server",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CamelToSnake(in), in)
	}
}
