package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	err := Validation("harga harus lebih dari 0")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "harga harus lebih dari 0", err.Error())

	wrapped := fmt.Errorf("add product: %w", err)
	assert.ErrorIs(t, wrapped, ErrValidation)
	assert.Equal(t, "harga harus lebih dari 0", Message(wrapped))
}

func TestSystemHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	err := System("checkout", cause)

	assert.ErrorIs(t, err, ErrSystem)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "10.0.0.1")
	assert.Equal(t, "terjadi kesalahan sistem", Message(err))
}

func TestStockError(t *testing.T) {
	err := fmt.Errorf("checkout: %w", &StockError{ProductID: 7, Name: "Es Jeruk", Required: 5, Available: 2})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	var se *StockError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, int64(7), se.ProductID)
	assert.Contains(t, Message(err), "Es Jeruk")
}

func TestMessageUnknown(t *testing.T) {
	assert.Equal(t, "terjadi kesalahan sistem", Message(errors.New("boom")))
}
