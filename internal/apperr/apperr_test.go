package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", Unauthorized(), http.StatusUnauthorized},
		{"validation", Validation("bad %s", "name"), http.StatusBadRequest},
		{"not found", NotFound("playlist %q not found", "p1"), http.StatusNotFound},
		{"rule", Rule("self review"), http.StatusUnprocessableEntity},
		{"wrapped", fmt.Errorf("create: %w", NotFound("x")), http.StatusNotFound},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "not authorized", Message(Unauthorized()))
	assert.Equal(t, "bad name", Message(Validation("bad %s", "name")))
	assert.Equal(t, "internal error", Message(errors.New("pq: connection refused")))
	assert.True(t, Is(Rule("x"), KindRule))
	assert.False(t, Is(nil, KindRule))
}
