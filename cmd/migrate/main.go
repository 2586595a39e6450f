package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kiwari-pos/storefront/internal/config"
	"github.com/kiwari-pos/storefront/internal/logger"
	"github.com/kiwari-pos/storefront/internal/session"
	"go.uber.org/zap"
)

func main() {
	// CLI flags
	dbURL := flag.String("database", "", "Postgres URL (defaults to DATABASE_URL)")
	flag.Parse()

	cfg := config.Load()
	if *dbURL == "" {
		*dbURL = cfg.DatabaseURL
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := session.Migrate(*dbURL); err != nil {
		log.Fatal("migrate session store", zap.Error(err))
	}
	log.Info("session store migrations applied")
}
