package httpapi

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/stevelisz/ANiceClock/internal/events"
	"github.com/stevelisz/ANiceClock/internal/gallery"
	"github.com/stevelisz/ANiceClock/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, wc *weather.Client, gm *gallery.Manager, bus *events.Bus) {
	v1 := app.Group("/api/v1")

	registerWeatherRoutes(v1, wc)
	registerGalleryRoutes(v1, gm)

	v1.Get("/events", eventStreamHandler(bus))
}

func registerWeatherRoutes(v1 fiber.Router, wc *weather.Client) {
	v1.Get("/weather", func(c *fiber.Ctx) error {
		snap, ok := wc.Snapshot()
		resp := fiber.Map{
			"loading": wc.Loading(),
		}
		if sel := wc.Selection(); sel.City != nil {
			resp["selectedCity"] = sel.City
		} else {
			resp["usingCurrentLocation"] = true
		}
		if errMsg := wc.Err(); errMsg != "" {
			resp["error"] = errMsg
		}
		if ok {
			resp["snapshot"] = snap
			resp["icon"] = weather.IconForCondition(snap.Current.Condition)
		}
		return c.JSON(resp)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		var req forecastQuery
		req.Days = c.QueryInt("days")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snap, ok := wc.Snapshot()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather snapshot available")
		}

		daily := snap.Daily
		if req.Days < len(daily) {
			daily = daily[:req.Days]
		}
		return c.JSON(fiber.Map{
			"location": snap.LocationLabel,
			"days":     daily,
		})
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		wc.Refresh()
		return c.SendStatus(fiber.StatusAccepted)
	})

	v1.Put("/weather/location", func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.City == "" && !req.Current {
			return fiber.NewError(fiber.StatusBadRequest, "either city or current must be set")
		}
		if req.City != "" && req.Current {
			return fiber.NewError(fiber.StatusBadRequest, "city and current are mutually exclusive")
		}

		if req.Current {
			wc.SelectLocation(weather.SelectCurrentDevice())
			return c.SendStatus(fiber.StatusAccepted)
		}

		city, ok := weather.FindPresetCity(req.City)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown preset city %q", req.City))
		}
		wc.SelectLocation(weather.SelectCity(city))
		return c.SendStatus(fiber.StatusAccepted)
	})

	v1.Get("/weather/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"cities": weather.PresetCities})
	})
}

func registerGalleryRoutes(v1 fiber.Router, gm *gallery.Manager) {
	v1.Get("/gallery", func(c *fiber.Ctx) error {
		_, loadedHandle, loaded := gm.CurrentImage()
		return c.JSON(fiber.Map{
			"assetIds":        gm.Handles(),
			"currentIndex":    gm.CurrentIndex(),
			"durationSeconds": gm.Duration().Seconds(),
			"running":         gm.Running(),
			"loadedHandle":    loadedHandle,
			"imageLoaded":     loaded,
		})
	})

	v1.Post("/gallery/photos", func(c *fiber.Ctx) error {
		var req addPhotoRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		gm.Add(req.AssetID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"assetIds": gm.Handles(),
		})
	})

	v1.Delete("/gallery/photos/:index", func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
		}

		if err := gm.RemoveAt(index); err != nil {
			if errors.Is(err, gallery.ErrIndexOutOfRange) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"assetIds": gm.Handles()})
	})

	v1.Delete("/gallery/photos", func(c *fiber.Ctx) error {
		gm.Clear()
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/gallery/next", func(c *fiber.Ctx) error {
		gm.Advance()
		return c.JSON(fiber.Map{"currentIndex": gm.CurrentIndex()})
	})

	v1.Post("/gallery/prev", func(c *fiber.Ctx) error {
		gm.Retreat()
		return c.JSON(fiber.Map{"currentIndex": gm.CurrentIndex()})
	})

	v1.Post("/gallery/slideshow/start", func(c *fiber.Ctx) error {
		if err := gm.Start(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.SendStatus(fiber.StatusAccepted)
	})

	v1.Post("/gallery/slideshow/stop", func(c *fiber.Ctx) error {
		gm.StopTimer()
		return c.SendStatus(fiber.StatusAccepted)
	})

	v1.Put("/gallery/slideshow/interval", func(c *fiber.Ctx) error {
		var req intervalRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		d := time.Duration(req.Seconds * float64(time.Second))
		if err := gm.SetInterval(d); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.SendStatus(fiber.StatusAccepted)
	})

	v1.Get("/gallery/current", func(c *fiber.Ctx) error {
		data, handle, ok := gm.CurrentImage()
		if !ok {
			// The clock face shows a placeholder background here.
			return fiber.NewError(fiber.StatusNotFound, "no image loaded")
		}
		c.Set("X-Asset-Id", handle)
		c.Set(fiber.HeaderContentType, "application/octet-stream")
		return c.Send(data)
	})
}

// eventStreamHandler streams bus events as server-sent events.
func eventStreamHandler(bus *events.Bus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		id, ch := bus.Subscribe()

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer bus.Unsubscribe(id)

			for evt := range ch {
				payload, err := json.Marshal(evt)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Kind, payload)
				if err := w.Flush(); err != nil {
					// Client went away.
					return
				}
			}
		}))

		return nil
	}
}

type forecastQuery struct {
	Days int `validate:"required,min=1,max=7"`
}

type locationRequest struct {
	City    string `json:"city"`
	Current bool   `json:"current"`
}

type addPhotoRequest struct {
	AssetID string `json:"assetId" validate:"required"`
}

type intervalRequest struct {
	Seconds float64 `json:"seconds" validate:"required,gt=0"`
}
