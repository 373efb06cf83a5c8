package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/singleflight"

	"github.com/fmadore/IWAC-spatial-overview/internal/config"
)

// App holds the handles shared by every request: the pipeline configuration
// (for artifact paths), the rebuild queue channel and the S3 client. Queue and
// S3 are nil when the deployment does not configure them; the routes that need
// them respond accordingly.
type App struct {
	Config config.Config
	Queue  *amqp091.Channel
	S3     *s3.Client

	// Reads collapses concurrent reads of the same artifact file into one
	// disk access.
	Reads *singleflight.Group
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
