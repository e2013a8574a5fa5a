package routes

import (
	"fmt"
	"strings"
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/api/apierrors"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/ctdf"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/locationfeed"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
)

// Locations serves reads and writes against a single device registry
type Locations struct {
	Registry  *registry.Registry
	Publisher locationfeed.Publisher

	// Now stamps accepted fixes, defaults to time.Now in UTC
	Now func() time.Time

	validate *validator.Validate
}

func NewLocations(registry *registry.Registry, publisher locationfeed.Publisher) *Locations {
	if publisher == nil {
		publisher = locationfeed.Discard{}
	}

	return &Locations{
		Registry:  registry,
		Publisher: publisher,
		Now: func() time.Time {
			return time.Now().UTC()
		},
		validate: validator.New(),
	}
}

func LocationsRouter(router fiber.Router, locations *Locations) {
	router.Post("/", locations.updateLocation)
	router.Get("/", locations.listLocations)
	router.Get("/:identifier", locations.getLocation)
}

type updateLocationRequest struct {
	// Device ids must be JSON strings, a numeric id fails the decode and is reported as an invalid body
	DeviceID string `json:"device_id"`
	Lat      Number `json:"lat"`
	Lon      Number `json:"lon"`
	Speed    Number `json:"speed"`
}

func (l *Locations) updateLocation(c *fiber.Ctx) error {
	var request updateLocationRequest
	if err := c.BodyParser(&request); err != nil {
		return apierrors.NewValidation("Invalid request body")
	}

	fix, err := l.normaliseFix(request)
	if err != nil {
		return err
	}

	l.Registry.Put(fix)

	log.Info().
		Str("device_id", fix.DeviceID).
		Float64("lat", fix.Lat).
		Float64("lon", fix.Lon).
		Float64("speed", fix.Speed).
		Msg("Location updated")

	if err := l.Publisher.Publish(c.UserContext(), fix); err != nil {
		log.Error().Err(err).Str("device_id", fix.DeviceID).Msg("Failed to publish location to feed")
	}

	data, err := reduce("detailed", fix)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Location updated successfully",
		"data":    data,
	})
}

func (l *Locations) normaliseFix(request updateLocationRequest) (ctdf.DeviceFix, error) {
	deviceID := strings.TrimSpace(request.DeviceID)

	if deviceID == "" || !request.Lat.Present || !request.Lon.Present {
		return ctdf.DeviceFix{}, apierrors.NewValidation("Missing required fields: device_id, lat, lon")
	}

	lat, latOK := request.Lat.Float()
	lon, lonOK := request.Lon.Float()
	if !latOK || !lonOK {
		return ctdf.DeviceFix{}, apierrors.NewValidation("Invalid latitude or longitude values")
	}

	var speed float64
	if request.Speed.Present {
		var speedOK bool
		speed, speedOK = request.Speed.Float()
		if !speedOK {
			return ctdf.DeviceFix{}, apierrors.NewValidation("Invalid speed value")
		}
	}

	fix := ctdf.DeviceFix{
		DeviceID: deviceID,
		Lat:      lat,
		Lon:      lon,
		Speed:    speed,
		Updated:  l.Now(),
	}

	if err := l.validate.Struct(fix); err != nil {
		return ctdf.DeviceFix{}, validationMessage(err)
	}

	return fix, nil
}

func (l *Locations) getLocation(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	fix, exists := l.Registry.Get(identifier)
	if !exists {
		return &apierrors.NotFoundError{
			Message:          fmt.Sprintf("No location data found for device: %s", identifier),
			AvailableDevices: l.Registry.DeviceIDs(),
		}
	}

	data, err := reduce("basic", fix)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func (l *Locations) listLocations(c *fiber.Ctx) error {
	fixes := l.Registry.All()

	allLocations := make(map[string]interface{}, len(fixes))
	for _, fix := range fixes {
		data, err := reduce("basic", fix)
		if err != nil {
			return err
		}

		allLocations[fix.DeviceID] = data
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(fixes),
		"data":    allLocations,
	})
}

func reduce(group string, fix ctdf.DeviceFix) (interface{}, error) {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{group},
	}, fix)
	if err != nil {
		return nil, &apierrors.InternalError{Err: fmt.Errorf("sheriff could not reduce fix: %w", err)}
	}

	return reduced, nil
}

// validationMessage turns validator failures into a single client facing error
func validationMessage(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return &apierrors.InternalError{Err: err}
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields = append(fields, strings.ToLower(fieldError.Field()))
	}

	return apierrors.NewValidation(fmt.Sprintf("Values out of range: %s", strings.Join(fields, ", ")))
}
