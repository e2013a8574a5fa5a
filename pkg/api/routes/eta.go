package routes

import (
	"fmt"
	"strings"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/api/apierrors"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/ctdf"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/eta"
	"github.com/gofiber/fiber/v2"
)

func ETARouter(router fiber.Router, locations *Locations) {
	router.Post("/", locations.calculateETA)
}

type etaRequest struct {
	DeviceID       string `json:"device_id"`
	DestinationLat Number `json:"destination_lat"`
	DestinationLon Number `json:"destination_lon"`
}

func (l *Locations) calculateETA(c *fiber.Ctx) error {
	var request etaRequest
	if err := c.BodyParser(&request); err != nil {
		return apierrors.NewValidation("Invalid request body")
	}

	deviceID := strings.TrimSpace(request.DeviceID)
	if deviceID == "" || !request.DestinationLat.Present || !request.DestinationLon.Present {
		return apierrors.NewValidation("Missing required fields: device_id, destination_lat, destination_lon")
	}

	destinationLat, latOK := request.DestinationLat.Float()
	destinationLon, lonOK := request.DestinationLon.Float()
	if !latOK || !lonOK {
		return apierrors.NewValidation("Invalid destination coordinates")
	}

	destination := ctdf.Location{
		Lat: destinationLat,
		Lon: destinationLon,
	}
	if err := l.validate.Struct(destination); err != nil {
		return validationMessage(err)
	}

	fix, exists := l.Registry.Get(deviceID)
	if !exists {
		return &apierrors.NotFoundError{
			Message: fmt.Sprintf("No location data found for device: %s", deviceID),
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    eta.ForFix(fix, destination),
	})
}
