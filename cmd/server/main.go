package main

import (
	"github.com/statref/uscite/internal/server"
	"github.com/statref/uscite/internal/util"
	"github.com/statref/uscite/pkg/logger"
	"github.com/statref/uscite/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
