package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/pkg/logger"
)

const internalMessage = "error interno del servidor"

// ErrorMapper traduce errores de dominio a respuestas HTTP {success:false, code, message}.
type ErrorMapper struct {
	log        *logger.Logger
	production bool
}

// NewErrorMapper crea el mapper. En producción los errores internos no exponen detalle.
func NewErrorMapper(log *logger.Logger, production bool) *ErrorMapper {
	return &ErrorMapper{log: log.Component("http"), production: production}
}

// StatusOf devuelve el código HTTP de un tipo de error.
func StatusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict, domain.KindConsistency:
		return fiber.StatusConflict
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond escribe la respuesta de error para err.
func (m *ErrorMapper) Respond(c *fiber.Ctx, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		m.log.Warn().Str("method", c.Method()).Str("path", c.Path()).Msg("tiempo de espera agotado")
		return c.Status(fiber.StatusRequestTimeout).JSON(dto.NewError("TIMEOUT", "tiempo de espera agotado"))
	}
	kind := domain.KindOf(err)
	if kind != domain.KindInternal {
		return c.Status(StatusOf(kind)).JSON(dto.NewError(kind.String(), m.publicMessage(c, err)))
	}

	m.log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetUserID(c)).
		Msg("error interno")
	msg := internalMessage
	if !m.production {
		msg = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError(kind.String(), msg))
}

// publicMessage evita exponer constraints y columnas: si el error viene del driver se responde
// con el mensaje del error de dominio y el detalle queda en el log.
func (m *ErrorMapper) publicMessage(c *fiber.Ctx, err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err.Error()
	}
	m.log.Warn().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("pg_code", pgErr.Code).
		Msg("error de base de datos clasificado")
	if sentinel := domain.SentinelOf(err); sentinel != nil {
		return sentinel.Error()
	}
	return err.Error()
}

// FiberErrorHandler atiende los errores que llegan a fiber sin pasar por un handler
// (rutas inexistentes, timeouts del middleware, pánicos recuperados).
func (m *ErrorMapper) FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = domain.KindNotFound.String()
		case fiber.StatusRequestTimeout:
			code = "TIMEOUT"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.NewError(code, fe.Message))
	}
	return m.Respond(c, err)
}
