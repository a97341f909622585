package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/blsh/salon-dashboard/internal/config"
	"github.com/blsh/salon-dashboard/internal/database"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		dbURLFlag string
		days      int
		all       bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.IntVar(&days, "days", 180, "remove ledger audit entries older than this many days")
	flag.BoolVar(&all, "all", false, "truncate the whole ledger audit table")
	flag.Parse()

	// Optional .env in the working directory keeps the URL off the command line
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}
	if days <= 0 && !all {
		log.Fatal("-days must be positive")
	}

	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if all {
		if _, err := db.ExecContext(ctx, `TRUNCATE TABLE ledger_audit_logs`); err != nil {
			log.Fatalf("failed to truncate ledger_audit_logs: %v", err)
		}
		fmt.Println("ledger_audit_logs truncated.")
		return
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	repo := database.NewAuditRepository(db, logger)

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to prune audit entries: %v", err)
	}

	var remaining int
	if err := db.GetContext(ctx, &remaining, `SELECT COUNT(*) FROM ledger_audit_logs`); err != nil {
		log.Fatalf("failed to count remaining entries: %v", err)
	}

	fmt.Printf("Removed %d ledger audit entries older than %s; %d remain.\n", removed, cutoff.Format("2006-01-02"), remaining)
}
