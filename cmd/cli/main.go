package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/memberportal/internal/buildinfo"
	"github.com/dmitrijs2005/memberportal/internal/client/cli"
	"github.com/dmitrijs2005/memberportal/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("portal: %v", err)
	}

	app.Run(ctx)
}
