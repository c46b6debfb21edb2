package apiclient

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessage_ProbeOrder(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		json   bool
		want   string
	}{
		{"message wins", 400, `{"message":"m","detail":"d","error":"e"}`, true, "m"},
		{"detail next", 400, `{"detail":"d","error":"e"}`, true, "d"},
		{"error next", 400, `{"error":"e","email":["taken"]}`, true, "e"},
		{"detail list", 400, `{"detail":["first","second"]}`, true, "first"},
		{"first field list sorted", 400, `{"phone_number":["bad phone"],"email":["taken"]}`, true, "email: taken"},
		{"non field errors", 400, `{"non_field_errors":["Passwords do not match"]}`, true, "Passwords do not match"},
		{"bare string", 400, `"plain failure"`, true, "plain failure"},
		{"empty object falls back", 404, `{}`, true, "Not Found"},
		{"non json body", 502, `<html>bad gateway</html>`, false, "Bad Gateway"},
		{"unknown status", 599, ``, false, "Request failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractMessage(tc.status, []byte(tc.body), tc.json))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil, "fallback"))
	assert.Equal(t, "bad creds", Message(&Error{Status: 401, Message: "bad creds"}, "fallback"))
	assert.Equal(t, "boom", Message(errors.New("boom"), "fallback"))
	assert.Equal(t, "fallback", Message(&Error{Status: 500, Message: " "}, "fallback"))
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsUnauthorized(&Error{Status: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&Error{Status: http.StatusForbidden}))
	assert.True(t, IsTransport(&Error{Message: NetworkErrorMessage}))
	assert.False(t, IsTransport(errors.New("plain")))
}
