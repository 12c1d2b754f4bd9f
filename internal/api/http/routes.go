package httpapi

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-tagger/internal/weather"
)

const (
	msgCityRequired  = "City parameter is required."
	msgFetchFailed   = "Failed to fetch weather data."
	msgFetchSaved    = "Weather data fetched and saved successfully."
	msgTagsArray     = "Tags must be provided as an array."
	msgNotFound      = "Weather data not found."
	msgBadPagination = "page and limit must be positive integers."
	msgInternal      = "Internal server error."
)

var validate = validator.New()

type handlers struct {
	service *weather.Service
	log     zerolog.Logger
}

// RegisterRoutes wires the weather handlers under /api/weather.
func RegisterRoutes(app *fiber.App, service *weather.Service, log zerolog.Logger) {
	h := &handlers{service: service, log: log}

	api := app.Group("/api/weather")
	api.Get("/fetch", h.fetch)
	api.Get("/", h.list)
	api.Put("/:id/tags", h.updateTags)
}

func (h *handlers) fetch(c *fiber.Ctx) error {
	rec, err := h.service.Fetch(c.UserContext(), c.Query("city"))
	if err != nil {
		if errors.Is(err, weather.ErrInvalidRequest) {
			fetchTotal.WithLabelValues("invalid").Inc()
			return fiber.NewError(fiber.StatusBadRequest, msgCityRequired)
		}
		fetchTotal.WithLabelValues("failed").Inc()
		h.log.Error().Stack().Err(pkgerrors.WithStack(err)).Str("city", c.Query("city")).Msg("Error fetching weather data")
		return fiber.NewError(fiber.StatusInternalServerError, msgFetchFailed)
	}

	fetchTotal.WithLabelValues("stored").Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": msgFetchSaved,
		"data":    rec,
	})
}

func (h *handlers) list(c *fiber.Ctx) error {
	var q listQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgBadPagination)
	}

	page, err := h.service.List(c.UserContext(), q.toListQuery())
	if err != nil {
		if errors.Is(err, weather.ErrInvalidRequest) {
			return fiber.NewError(fiber.StatusBadRequest, msgBadPagination)
		}
		return err
	}

	listTotal.Inc()
	return c.JSON(page)
}

func (h *handlers) updateTags(c *fiber.Ctx) error {
	var body tagsBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgTagsArray)
	}
	if err := validate.Struct(body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgTagsArray)
	}

	rec, err := h.service.UpdateTags(c.UserContext(), c.Params("id"), body.Tags)
	if err != nil {
		switch {
		case errors.Is(err, weather.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, msgNotFound)
		case errors.Is(err, weather.ErrInvalidRequest):
			return fiber.NewError(fiber.StatusBadRequest, msgTagsArray)
		}
		return err
	}

	tagUpdatesTotal.Inc()
	return c.JSON(rec)
}

// listQuery holds the query parameters of the listing endpoint.
type listQuery struct {
	Page  int `validate:"min=1"`
	Limit int `validate:"min=1"`
	Tag   string
	City  string
}

func (q *listQuery) bind(c *fiber.Ctx) error {
	var err error
	if q.Page, err = intQuery(c, "page", weather.DefaultPage); err != nil {
		return err
	}
	if q.Limit, err = intQuery(c, "limit", weather.DefaultLimit); err != nil {
		return err
	}
	q.Tag = c.Query("tag")
	q.City = c.Query("city")
	return validate.Struct(q)
}

func (q listQuery) toListQuery() weather.ListQuery {
	return weather.ListQuery{
		Page:  q.Page,
		Limit: q.Limit,
		Filter: weather.Filter{
			Tag:    q.Tag,
			Cities: weather.ParseCities(q.City),
		},
	}
}

// intQuery parses an integer query parameter; absent or empty yields def.
func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// tagsBody is the PUT /:id/tags payload. A missing or null "tags" is rejected.
type tagsBody struct {
	Tags []string `json:"tags" validate:"required"`
}
