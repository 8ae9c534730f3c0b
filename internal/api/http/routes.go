package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/forecast"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, board *dashboard.Dashboard, predictor *forecast.Predictor) {
	v1 := app.Group("/api/v1")

	v1.Get("/options", func(c *fiber.Ctx) error {
		return c.JSON(board.Options())
	})

	v1.Get("/controls", func(c *fiber.Ctx) error {
		return c.JSON(board.Controls())
	})

	v1.Put("/controls", func(c *fiber.Ctx) error {
		// Omitted fields keep their current value.
		req := board.Controls()
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		views, err := board.SetControls(c.UserContext(), req)
		if err != nil {
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{
			"controls": board.Controls(),
			"panels":   views,
		})
	})

	v1.Get("/panels", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"panels": board.Views()})
	})

	v1.Get("/panels/:id", func(c *fiber.Ctx) error {
		view, err := board.View(panelID(c))
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(view)
	})

	v1.Post("/panels/:id/refresh", func(c *fiber.Ctx) error {
		view, err := board.Refresh(c.UserContext(), panelID(c), dashboard.TriggerManual)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(view)
	})

	v1.Put("/panels/:id/selection", func(c *fiber.Ctx) error {
		var req dashboard.Selection
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		view, err := board.Select(c.UserContext(), panelID(c), req)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(view)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		return c.JSON(predictor.Current())
	})

	v1.Post("/forecast", func(c *fiber.Ctx) error {
		// Sliders left out of the body stay at their initial position.
		req := forecast.DefaultRequest()
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		res, err := predictor.Run(req)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(res)
	})
}

// ErrorHandler renders every handler error as a JSON body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func panelID(c *fiber.Ctx) dashboard.PanelID {
	return dashboard.PanelID(c.Params("id"))
}

// toHTTPError maps domain errors to status codes.
func toHTTPError(err error) error {
	var inputErr *forecast.InputError

	switch {
	case errors.Is(err, dashboard.ErrUnknownPanel):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, dashboard.ErrInvalidSelection),
		errors.Is(err, dashboard.ErrInvalidControls),
		errors.As(err, &inputErr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, forecast.ErrUnknownClass):
		return fiber.NewError(fiber.StatusInternalServerError, "forecasting model returned an unknown class")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "internal error")
}
