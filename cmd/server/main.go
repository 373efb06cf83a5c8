package main

import (
	"github.com/fmadore/IWAC-spatial-overview/internal/server"
	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger/console"
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
