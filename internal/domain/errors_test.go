package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteError_Kinds(t *testing.T) {
	tests := []struct {
		status int
		kind   error
	}{
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnprocessableEntity, ErrValidation},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusInternalServerError, ErrTransport},
		{http.StatusBadGateway, ErrTransport},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &RemoteError{StatusCode: tt.status})
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	assert.NotErrorIs(t, &RemoteError{StatusCode: http.StatusConflict}, ErrNotFound)
}

func TestUserMessage_Precedence(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil, "fallback"))
	assert.Equal(t, "order id already exists",
		UserMessage(&RemoteError{StatusCode: 409, Message: "order id already exists"}, "fallback"))
	assert.Equal(t, "market service returned status 500",
		UserMessage(&RemoteError{StatusCode: 500}, "fallback"))
	assert.Equal(t, "market service returned status 502",
		UserMessage(fmt.Errorf("save address: %w", &RemoteError{StatusCode: 502}), "fallback"))
	assert.Equal(t, "fallback",
		UserMessage(&RemoteError{StatusCode: 422}, "fallback"))
	assert.Equal(t, "service unavailable: dial tcp: connection refused",
		UserMessage(fmt.Errorf("%w: dial tcp: connection refused", ErrTransport), "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New(""), "fallback"))
}
