package routes

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/registry"
	"github.com/gofiber/fiber/v2"
)

var AvailableEndpoints = []string{
	"POST /api/locations",
	"GET /api/locations/:id",
	"GET /api/locations",
	"POST /api/eta",
	"GET /api/health",
}

func HealthRouter(router fiber.Router, registry *registry.Registry, startTime time.Time) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":        true,
			"message":        "Smart Bus Tracking API is running",
			"timestamp":      time.Now().UTC(),
			"active_devices": registry.Size(),
			"uptime":         time.Since(startTime).Seconds(),
		})
	})
}

// Index describes the API, with curl examples pointing at the address the server is reachable on
func Index(listen string) fiber.Handler {
	baseURL := fmt.Sprintf("http://%s", publicAddress(listen))

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Smart Bus Tracking API",
			"version": Version,
			"endpoints": fiber.Map{
				"POST /api/locations":    "Update bus location (GPS device)",
				"GET /api/locations/:id": "Get specific bus location",
				"GET /api/locations":     "Get all bus locations",
				"POST /api/eta":          "Calculate ETA to destination",
				"GET /api/health":        "Health check",
			},
			"examples": fiber.Map{
				"Update location": fmt.Sprintf(`curl -X POST %s/api/locations -H "Content-Type: application/json" -d '{"device_id":"BUS_101","lat":40.7128,"lon":-74.0060,"speed":25}'`, baseURL),
				"Get location":    fmt.Sprintf(`curl %s/api/locations/BUS_101`, baseURL),
				"Calculate ETA":   fmt.Sprintf(`curl -X POST %s/api/eta -H "Content-Type: application/json" -d '{"device_id":"BUS_101","destination_lat":40.7589,"destination_lon":-73.9851}'`, baseURL),
			},
		})
	}
}

func NotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return c.JSON(fiber.Map{
		"error":               "Endpoint not found",
		"available_endpoints": AvailableEndpoints,
	})
}

// publicAddress swaps an unspecified listen host for the first non loopback IPv4 address
func publicAddress(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}

	if host != "" && host != "0.0.0.0" && host != "::" {
		return listen
	}

	return net.JoinHostPort(localIPAddress(), port)
}

func localIPAddress() string {
	addresses, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}

	for _, address := range addresses {
		ipNet, ok := address.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}

		if ipv4 := ipNet.IP.To4(); ipv4 != nil && !strings.HasPrefix(ipv4.String(), "169.254.") {
			return ipv4.String()
		}
	}

	return "localhost"
}
