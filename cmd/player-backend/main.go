package main

import (
	"player-backend/internal/app"
	"player-backend/internal/config"
)

func main() {
	cfg := config.Load()
	app := app.New(cfg)
	app.Run()
}
