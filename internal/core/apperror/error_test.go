package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpersSeeThroughWrapping(t *testing.T) {
	base := NewInsufficientStock("item-1", "10", "4")
	wrapped := fmt.Errorf("post sale: %w", base)

	assert.True(t, IsInsufficientStock(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(wrapped))

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "4", appErr.Details["available"])
}

func TestGetHTTPStatusDefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
}

func TestInvalidStateMessage(t *testing.T) {
	err := NewInvalidState("stock transfer", "cancelled", "cancel")

	assert.True(t, IsInvalidState(err))
	assert.Equal(t, http.StatusConflict, err.HTTPStatus)
	assert.Equal(t, `INVALID_STATE: cannot cancel stock transfer in status "cancelled"`, err.Error())
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewDatabase(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by: connection reset")
}
