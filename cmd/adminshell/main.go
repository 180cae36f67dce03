package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	_ "github.com/joho/godotenv/autoload"

	"github.com/markap/adminkit/config"
	"github.com/markap/adminkit/shell"
)

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.App.IsDev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	fx.New(
		fx.Provide(
			config.New,
			newLogger,
			shell.NewStorage,
			shell.NewKit,
			shell.New,
		),
		fx.Invoke(shell.RegisterHooks),
	).Run()
}
