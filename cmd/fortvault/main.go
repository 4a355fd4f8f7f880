package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/fortvault/internal/cli"
	"github.com/dmitrijs2005/fortvault/internal/config"
)

func main() {
	cfg := config.LoadConfig()

	app := cli.NewApp(cfg)
	if err := app.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
