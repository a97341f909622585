package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blsh/salon-dashboard/internal/database"
	"github.com/blsh/salon-dashboard/internal/sampledata"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	defaultDir := os.Getenv("DATA_DIR")
	if defaultDir == "" {
		defaultDir = "."
	}

	var (
		outDir   string
		seed     int64
		xlsxPath string
		tz       string
	)
	flag.StringVar(&outDir, "out", defaultDir, "directory the CSV files are written to (defaults to DATA_DIR)")
	flag.Int64Var(&seed, "seed", 42, "random seed; the same seed produces the same data on the same day")
	flag.StringVar(&xlsxPath, "xlsx", "", "optional path of a workbook holding a copy of every table")
	flag.StringVar(&tz, "timezone", "Asia/Kolkata", "time zone the generated dates are relative to")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.Fatalf("Invalid time zone %q: %v", tz, err)
	}

	fmt.Println("===========================================")
	fmt.Println("BLSH Dashboard sample data generator")
	fmt.Println("===========================================")

	store := database.NewCSVStore(outDir, nil, logger)
	tables := sampledata.NewGenerator(seed, time.Now().In(loc)).Tables()

	for _, t := range tables {
		if err := store.Save(t); err != nil {
			logger.Fatalf("Failed to write %s: %v", t.Name, err)
		}
		fmt.Printf("✅ %s.csv created with %d records\n", t.Name, t.Len())
	}

	if xlsxPath != "" {
		sheets := make([]services.Sheet, 0, len(tables))
		for _, t := range tables {
			sheets = append(sheets, services.TableSheet(t))
		}
		data, err := services.NewExportService(nil, nil, nil).Workbook(sheets...)
		if err != nil {
			logger.Fatalf("Failed to build workbook: %v", err)
		}
		if err := os.MkdirAll(filepath.Dir(xlsxPath), 0o755); err != nil {
			logger.Fatalf("Failed to create workbook directory: %v", err)
		}
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			logger.Fatalf("Failed to write workbook: %v", err)
		}
		fmt.Printf("✅ %s created with %d sheets\n", xlsxPath, len(sheets))
	}

	fmt.Println()
	fmt.Printf("✨ All sample data files written to %s\n", outDir)
}
