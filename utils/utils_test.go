package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", InvalidInput("bad hour"), http.StatusBadRequest},
		{"conflict answers 400", Conflict("booked"), http.StatusBadRequest},
		{"not found", NotFound("no product"), http.StatusNotFound},
		{"unauthorized", Unauthorized("nope"), http.StatusUnauthorized},
		{"upstream", Upstream("store down", errors.New("timeout")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound("x")), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestIsKindAndPublicMessage(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Conflict("This day is already fully booked"))
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindInvalidInput))
	assert.Equal(t, "This day is already fully booked", PublicMessage(err))
	assert.Equal(t, "Internal Server Error", PublicMessage(errors.New("secret detail")))
}

func TestUpstreamUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("failed to save booking", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealthMonitor_Check(t *testing.T) {
	m := NewHealthMonitor(map[string]Pinger{
		"documentStore": fakePinger{},
		"cache":         fakePinger{err: errors.New("down")},
	}, time.Minute)

	status := m.Check(context.Background())
	assert.True(t, status.Services["documentStore"])
	assert.False(t, status.Services["cache"])
	assert.False(t, status.Healthy())
	assert.Equal(t, status, m.Status())
}
