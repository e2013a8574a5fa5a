package api

import (
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/api/apierrors"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/api/routes"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/locationfeed"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/registry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Listen    string
	Registry  *registry.Registry
	Publisher locationfeed.Publisher
	StartTime time.Time

	// Now overrides the clock used to stamp accepted fixes
	Now func() time.Time
}

func NewApp(options Options) *fiber.App {
	if options.Registry == nil {
		options.Registry = registry.New()
	}
	if options.StartTime.IsZero() {
		options.StartTime = time.Now()
	}

	webApp := fiber.New(fiber.Config{
		AppName:               "bustracker",
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          ErrorHandler,
	})
	webApp.Use(NewLogger())
	webApp.Use(recover.New())
	webApp.Use(cors.New())

	webApp.Get("/", routes.Index(options.Listen))

	group := webApp.Group("/api")

	group.Get("version", routes.APIVersion)

	locations := routes.NewLocations(options.Registry, options.Publisher)
	if options.Now != nil {
		locations.Now = options.Now
	}
	routes.LocationsRouter(group.Group("/locations"), locations)
	routes.ETARouter(group.Group("/eta"), locations)

	routes.HealthRouter(group.Group("/health"), options.Registry, options.StartTime)

	webApp.Use(routes.NotFound)

	return webApp
}

// ErrorHandler renders every error returned from a handler, including recovered panics
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := apierrors.Status(err)

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Unhandled error")
	}

	c.Status(status)
	return c.JSON(apierrors.Body(err))
}
