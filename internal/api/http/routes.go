package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		d, banner, err := service.Current()
		if err != nil {
			if errors.Is(err, weather.ErrNoData) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "weather data is still loading")
			}
			return fiber.NewError(fiber.StatusBadGateway, banner)
		}

		return c.JSON(fiber.Map{
			"dashboard": d,
			"error":     banner,
		})
	})

	v1.Post("/dashboard/locate", func(c *fiber.Ctx) error {
		var req locateRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}
		if err := req.validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var (
			d   weather.Dashboard
			err error
		)
		if req.Lat != nil {
			d, err = service.LoadWith(c.UserContext(), geo.StaticLocator{
				Coords: weather.Coordinates{Lat: *req.Lat, Lon: *req.Lon},
			})
		} else {
			d, err = service.Load(c.UserContext())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, weather.UserMessage(err))
		}

		return c.JSON(fiber.Map{"dashboard": d})
	})

	v1.Post("/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		req.City = strings.TrimSpace(req.City)
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		d, err := service.Search(c.UserContext(), req.City)
		if err != nil {
			if errors.Is(err, weather.ErrCityNotFound) {
				return fiber.NewError(fiber.StatusNotFound, weather.UserMessage(err))
			}
			return fiber.NewError(fiber.StatusBadGateway, weather.UserMessage(err))
		}

		return c.JSON(fiber.Map{"dashboard": d})
	})

	v1.Get("/recent", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"searches": service.RecentSearches(),
			"cards":    service.RecentCards(c.UserContext()),
		})
	})

	v1.Delete("/recent", func(c *fiber.Ctx) error {
		service.ClearRecentSearches()
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// searchRequest is the body of a city search.
type searchRequest struct {
	City string `json:"city" validate:"required,max=100"`
}

// locateRequest carries browser-reported coordinates. Both or neither must be set.
type locateRequest struct {
	Lat *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lon *float64 `json:"lon" validate:"omitempty,min=-180,max=180"`
}

func (r locateRequest) validate() error {
	if (r.Lat == nil) != (r.Lon == nil) {
		return errors.New("lat and lon must be provided together")
	}
	return validate.Struct(r)
}
