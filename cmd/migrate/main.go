// Command migrate applies the embedded schema migrations.
//
//	migrate [up|down|reset|status]
//
// The database DSN is resolved the same way as for the server
// (defaults, JSON config, DATABASE_DSN from the environment or .env, -d flag).
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/fintrack/internal/server/config"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
)

func main() {
	command := "up"
	for _, arg := range os.Args[1:] {
		switch arg {
		case "up", "down", "reset", "status":
			command = arg
		}
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := repomanager.Migrate(ctx, db, command); err != nil {
		log.Printf("migrate %s: %v", command, err)
		return
	}
	log.Printf("migrate %s: done", command)
}
