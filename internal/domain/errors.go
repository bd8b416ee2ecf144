package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidConversion  = errors.New("la variante origen pertenece a otro producto")
	ErrCircularConversion = errors.New("conversión circular detectada")
	ErrAmountInsufficient = errors.New("monto pagado insuficiente")
	ErrTransactionAborted = errors.New("transacción abortada")
)

// Error agrega identidad y cantidades a un error de dominio.
// Unwrap devuelve el sentinel (Kind) para usar errors.Is en los callers.
type Error struct {
	Kind        error
	Entity      string // variant, product, category, sale, reservation
	ID          string
	ProductName string
	Requested   int
	Available   int
	Detail      string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Entity != "" {
		fmt.Fprintf(&b, ": %s %s", e.Entity, e.ID)
	}
	if e.ProductName != "" {
		fmt.Fprintf(&b, " (%s)", e.ProductName)
	}
	if errors.Is(e.Kind, ErrInsufficientStock) {
		fmt.Fprintf(&b, ", solicitado %d, disponible %d", e.Requested, e.Available)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

// NotFound construye un ErrNotFound para la entidad indicada.
func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id}
}

// Invalid construye un ErrInvalidInput con detalle.
func Invalid(detail string) error {
	return &Error{Kind: ErrInvalidInput, Detail: detail}
}

// InsufficientStock construye un ErrInsufficientStock con solicitado vs disponible.
func InsufficientStock(variantID, productName string, requested, available int) error {
	return &Error{
		Kind:        ErrInsufficientStock,
		Entity:      "variant",
		ID:          variantID,
		ProductName: productName,
		Requested:   requested,
		Available:   available,
	}
}

// CircularConversion construye un ErrCircularConversion sobre la variante que cierra el ciclo.
func CircularConversion(variantID string) error {
	return &Error{Kind: ErrCircularConversion, Entity: "variant", ID: variantID}
}

// TransactionAborted envuelve un fallo de la capa de almacenamiento (seguro reintentar).
func TransactionAborted(cause error) error {
	return fmt.Errorf("%w: %v", ErrTransactionAborted, cause)
}

// PaymentError indica que el monto pagado no cubre el total calculado.
type PaymentError struct {
	Total decimal.Decimal
	Paid  decimal.Decimal
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: total %s, pagado %s", ErrAmountInsufficient, e.Total.StringFixed(2), e.Paid.StringFixed(2))
}

func (e *PaymentError) Unwrap() error { return ErrAmountInsufficient }
