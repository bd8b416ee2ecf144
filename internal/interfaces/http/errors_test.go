package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

func TestErrorMapper_Classify(t *testing.T) {
	m := errorMapper{log: logger.Nop()}
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.Invalid("x"), fiber.StatusBadRequest, "VALIDATION"},
		{"no encontrado envuelto", fmt.Errorf("cargar: %w", domain.NotFound("variant", "v1")), fiber.StatusNotFound, "NOT_FOUND"},
		{"stock", domain.InsufficientStock("v1", "Lija", 3, 1), fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"ciclo", domain.CircularConversion("v1"), fiber.StatusBadRequest, "CIRCULAR_CONVERSION"},
		{"otro producto", &domain.Error{Kind: domain.ErrInvalidConversion, Entity: "variant", ID: "v2"}, fiber.StatusBadRequest, "INVALID_CONVERSION"},
		{"pago", &domain.PaymentError{Total: decimal.NewFromInt(10), Paid: decimal.NewFromInt(5)}, fiber.StatusBadRequest, "AMOUNT_INSUFFICIENT"},
		{"duplicado", &domain.Error{Kind: domain.ErrDuplicate, Entity: "category"}, fiber.StatusConflict, "DUPLICATE"},
		{"abortada", domain.TransactionAborted(errors.New("40001")), fiber.StatusInternalServerError, "TRANSACTION_ABORTED"},
		{"desconocido", errors.New("dial tcp 10.0.0.1:5432: refused"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := m.classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorMapper_DetallesYReintento(t *testing.T) {
	m := errorMapper{log: logger.Nop()}

	_, body := m.classify(domain.InsufficientStock("v1", "Lija", 3, 1))
	assert.Equal(t, map[string]any{"variant_id": "v1", "product_name": "Lija", "requested": 3, "available": 1}, body.Details)

	_, body = m.classify(domain.TransactionAborted(errors.New("deadlock")))
	assert.True(t, body.Retryable)

	_, body = m.classify(errors.New("password=secreto"))
	assert.NotContains(t, body.Message, "secreto")
	assert.False(t, body.Retryable)
}
