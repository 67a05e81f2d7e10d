package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
)

// pageParams lee limit/offset de la query aplicando los mismos límites que el resto de listados.
func pageParams(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

// dateRange lee desde/hasta (YYYY-MM-DD). hasta incluye el día completo.
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if raw := c.Query("desde"); raw != "" {
		d, perr := dto.ParseDate(raw)
		if perr != nil {
			return nil, nil, fmt.Errorf("%w: desde debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		from = &d
	}
	if raw := c.Query("hasta"); raw != "" {
		d, perr := dto.ParseDate(raw)
		if perr != nil {
			return nil, nil, fmt.Errorf("%w: hasta debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
