package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Metalica-api/internal/application/dto"
	"github.com/jhoicas/Metalica-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bodyError cuerpo JSON que no se pudo leer.
type bodyError struct{ err error }

func (e *bodyError) Error() string { return "cuerpo inválido: " + e.err.Error() }

// parseBody lee el JSON de la petición y aplica los tags validate.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &bodyError{err: err}
	}
	return validate.Struct(out)
}

// queryError parámetros de consulta con formato inválido.
type queryError struct{ err error }

func (e *queryError) Error() string { return "consulta inválida: " + e.err.Error() }

// parsePage lee limit/offset de la consulta. Sin limit se usan 20 filas; más de 100 o un offset
// negativo es un error de validación.
func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, &queryError{err: err}
	}
	page.DefaultPage()
	return page, validate.Struct(page)
}

// writeError traduce errores de dominio a status HTTP y dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	msg := err.Error()

	var bodyErr *bodyError
	var queryErr *queryError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &bodyErr):
		status, code, msg = fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido"
	case errors.As(err, &queryErr):
		status, code, msg = fiber.StatusBadRequest, "INVALID_QUERY", "parámetros de consulta inválidos"
	case errors.As(err, &verrs):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", validationMessage(verrs)
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrOverPayment):
		status, code = fiber.StatusConflict, "OVERPAYMENT"
	case errors.Is(err, domain.ErrAlreadyReversed):
		status, code = fiber.StatusConflict, "ALREADY_REVERSED"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnknownMetal),
		errors.Is(err, domain.ErrUnknownParty),
		errors.Is(err, domain.ErrUnknownTransaction),
		errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrPersistence):
		status, code = fiber.StatusInternalServerError, "PERSISTENCE"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
