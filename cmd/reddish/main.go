package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atinyakov/reddish/internal/client/api"
	"github.com/atinyakov/reddish/internal/client/session"
	"github.com/atinyakov/reddish/internal/client/shell"
	"github.com/atinyakov/reddish/internal/client/storage"
	"github.com/atinyakov/reddish/internal/client/transport"
	"github.com/atinyakov/reddish/internal/config"
	"github.com/atinyakov/reddish/internal/logger"
)

var (
	version   string
	buildDate string
)

// main wires storage, transport, the API client, and the session into the
// interactive shell.
func main() {
	var showVer bool
	flag.BoolVar(&showVer, "version", false, "show build version and date")

	_ = godotenv.Load()
	options := config.Parse()

	if showVer {
		fmt.Printf("Reddish Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	logg := logger.New()
	if err := logg.Init("Info"); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logg.Log.Sync() }()

	ls := storage.New(options.StoragePath)
	if err := ls.Load(); err != nil {
		logg.Log.Fatal("failed to load local state", zap.Error(err))
	}

	httpClient, err := transport.NewHTTPClient(ls, time.Duration(options.TimeoutSeconds)*time.Second)
	if err != nil {
		logg.Log.Fatal("failed to build HTTP client", zap.Error(err))
	}
	apiClient := api.New(options.ServerURL, httpClient, logg.Log)
	sess := session.New(ls, apiClient, logg.Log)

	app := shell.New(apiClient, sess, ls, ls, logg.Log, os.Stdin, os.Stdout)
	app.Run(context.Background())
}
