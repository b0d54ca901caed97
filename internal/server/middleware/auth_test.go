package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticClaims struct {
	subject string
}

func (c staticClaims) GetSubject() (string, error) {
	return c.subject, nil
}

// mapValidator accepts tokens listed in its map.
type mapValidator map[string]string

func (v mapValidator) ValidateToken(token string) (SubjectGetter, error) {
	subject, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return staticClaims{subject: subject}, nil
}

func TestAuthenticate(t *testing.T) {
	validator := mapValidator{"good-token": "ci-bot", "anonymous": ""}

	var seen string
	handler := Authenticate(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := GetSubject(r)
		require.NoError(t, err)
		seen = subject
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer good-token", want: http.StatusNoContent},
		{name: "lowercase scheme", header: "bearer good-token", want: http.StatusNoContent},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good-token", want: http.StatusUnauthorized},
		{name: "extra parts", header: "Bearer good-token extra", want: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "empty subject", header: "Bearer anonymous", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/analyses/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "ci-bot", seen)
			} else {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestGetSubject_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetSubject(req)
	assert.Error(t, err)
}
