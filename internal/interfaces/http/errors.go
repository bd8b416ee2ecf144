package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// errorMapper traduce errores de dominio a respuestas HTTP. Los errores internos se registran
// y nunca se devuelven al cliente.
type errorMapper struct {
	log *logger.Logger
}

func (m errorMapper) respond(c *fiber.Ctx, err error) error {
	status, body := m.classify(err)
	if status == fiber.StatusInternalServerError {
		m.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(body)
}

func (m errorMapper) classify(err error) (int, dto.ErrorResponse) {
	var payErr *domain.PaymentError
	if errors.As(err, &payErr) {
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    "AMOUNT_INSUFFICIENT",
			Message: err.Error(),
			Details: map[string]any{"total": payErr.Total, "amount_paid": payErr.Paid},
		}
	}

	var details map[string]any
	var derr *domain.Error
	if errors.As(err, &derr) {
		details = map[string]any{}
		if derr.ID != "" {
			details[derr.Entity+"_id"] = derr.ID
		}
		if derr.ProductName != "" {
			details["product_name"] = derr.ProductName
		}
		if errors.Is(derr.Kind, domain.ErrInsufficientStock) {
			details["requested"] = derr.Requested
			details["available"] = derr.Available
		}
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error(), Details: details}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error(), Details: details}
	case errors.Is(err, domain.ErrInvalidConversion):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_CONVERSION", Message: err.Error(), Details: details}
	case errors.Is(err, domain.ErrCircularConversion):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "CIRCULAR_CONVERSION", Message: err.Error(), Details: details}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error(), Details: details}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"}
	case errors.Is(err, domain.ErrTransactionAborted):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "TRANSACTION_ABORTED", Message: "la transacción no se pudo completar, reintente", Retryable: true}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

// bind parsea el body y lo valida con las etiquetas validate del DTO.
func bind(c *fiber.Ctx, v *validator.Validate, out any) *dto.ErrorResponse {
	if err := c.BodyParser(out); err != nil {
		return &dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	if err := v.Struct(out); err != nil {
		fields := map[string]any{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Namespace()] = fe.Tag()
			}
		}
		return &dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fields}
	}
	return nil
}
