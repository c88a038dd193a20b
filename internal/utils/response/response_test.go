package response

import (
	"errors"
	"fmt"
	"testing"

	apperrors "cardfields/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.Configuration("Do not pass intent with an action."), fiber.StatusBadRequest},
		{apperrors.ConflictingCallbacks("Do not pass both createBillingAgreement and createOrder"), fiber.StatusBadRequest},
		{apperrors.UnsupportedAction("Intent subscription is not supported by Card Fields"), fiber.StatusBadRequest},
		{apperrors.FieldsUnavailable("Card not available to submit"), fiber.StatusUnprocessableEntity},
		{fmt.Errorf("wrapped: %w", apperrors.InvalidVaultToken("Expected a vault setup token")), fiber.StatusUnprocessableEntity},
		{apperrors.Upstream(errors.New("timeout")), fiber.StatusBadGateway},
		{apperrors.RestartNotImplemented("Restart not implemented for card fields flow"), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
