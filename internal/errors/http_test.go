package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_FromResponse(t *testing.T) {
	resource := Policy{NotFoundMessage: "product not found"}
	auth := Policy{}

	tests := []struct {
		name     string
		policy   Policy
		details  ResponseDetails
		wantCode ErrorCode
		wantMsg  string
	}{
		{"401", auth, ResponseDetails{Status: 401, Message: "bad password"}, ErrCodeUnauthorized, MsgUnauthorized},
		{"403", resource, ResponseDetails{Status: 403}, ErrCodeForbidden, MsgForbidden},
		{"400 with message", auth, ResponseDetails{Status: 400, Message: "username taken"}, ErrCodeValidation, "username taken"},
		{"400 without message", auth, ResponseDetails{Status: 400}, ErrCodeValidation, MsgInvalidData},
		{
			"400 with field errors",
			resource,
			ResponseDetails{Status: 400, Message: "validation failed", Errors: []string{"codigo is required", " ", "precio must be positive"}},
			ErrCodeValidation,
			"validation failed: codigo is required, precio must be positive",
		},
		{"404 resource", resource, ResponseDetails{Status: 404, Message: "nope"}, ErrCodeNotFound, "product not found"},
		{"404 auth falls through", auth, ResponseDetails{Status: 404}, ErrCodeServer, "server error: 404"},
		{"status 0", auth, ResponseDetails{Status: 0}, ErrCodeUnreachable, MsgUnreachable},
		{"500 with message", resource, ResponseDetails{Status: 500, Message: "database down"}, ErrCodeServer, "database down"},
		{"502 without message", resource, ResponseDetails{Status: 502}, ErrCodeServer, "server error: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.FromResponse(tt.details)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.Equal(t, tt.details.Status, err.Status)
		})
	}
}

func TestPolicy_SameMappingForEveryGateway(t *testing.T) {
	auth := Policy{}
	resource := Policy{NotFoundMessage: "product not found"}

	for _, status := range []int{0, 400, 401, 403, 409, 500, 503} {
		d := ResponseDetails{Status: status, Message: "server said so"}
		a, r := auth.FromResponse(d), resource.FromResponse(d)
		assert.Equal(t, a.Code, r.Code, "status %d", status)
		assert.Equal(t, a.Message, r.Message, "status %d", status)
	}
}

func TestFromTransport(t *testing.T) {
	assert.Nil(t, FromTransport(nil))

	err := FromTransport(errors.New("dial tcp 127.0.0.1:7296: connect: connection refused"))
	assert.True(t, IsUnreachable(err))
	assert.Equal(t, MsgUnreachable, err.Message)

	canceled := FromTransport(fmt.Errorf("get: %w", context.Canceled))
	assert.True(t, IsCanceled(canceled))
}
