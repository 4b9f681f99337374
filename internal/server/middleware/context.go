package middleware

import (
	"github.com/statref/uscite/pkg/query"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
)

type App struct {
	DBConn       *pgxpool.Pool
	Queue        *amqp091.Channel
	Engine       *query.Engine
	MasterAPIKey string
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(
	db *pgxpool.Pool,
	queue *amqp091.Channel,
	engine *query.Engine,
	masterAPIKey string,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			app := &App{
				DBConn:       db,
				Queue:        queue,
				Engine:       engine,
				MasterAPIKey: masterAPIKey,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
