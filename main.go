package main

import (
	"github.com/username/mytrades/src/cli"
	"github.com/username/mytrades/src/config"
	"github.com/username/mytrades/src/logger"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	cli.Execute()
}
