package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", Validation("question cannot be empty"), http.StatusBadRequest, "question cannot be empty"},
		{"gating", Gating("Query is not about research"), http.StatusBadRequest, "Query is not about research"},
		{"not found", NotFound("Blog not found"), http.StatusNotFound, "Blog not found"},
		{"upstream hides cause", Upstream(errors.New("status 403: key leaked")), http.StatusInternalServerError, GenericUpstreamMessage},
		{"wrapped", fmt.Errorf("handler: %w", Validation("bad")), http.StatusBadRequest, "bad"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := Status(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestUpstreamUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Upstream(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "timeout")
	assert.True(t, IsKind(err, KindUpstream))
	assert.False(t, IsKind(err, KindValidation))
}
