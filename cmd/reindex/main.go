package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"captureserver/internal/repository/sqlite"
	"captureserver/internal/service/catalog"
	"captureserver/internal/service/probe"
)

func main() {
	savedDir := flag.String("dir", filepath.Join("Backend", "files"), "Directory containing captures")
	dbPath := flag.String("db", filepath.Join("data", "captures.db"), "Database path")
	noProbe := flag.Bool("no-probe", false, "Skip decoding frames for their dimensions")
	flag.Parse()

	fmt.Printf("Reindexing captures from %s into %s\n", *savedDir, *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var prober catalog.Prober
	if !*noProbe {
		prober = probe.NewFrameProbe()
	}

	result, err := catalog.ScanDirectory(*savedDir, prober, time.Local)
	if err != nil {
		db.Close()
		log.Fatalf("Failed to scan captures: %v", err)
	}

	for _, name := range result.Skipped {
		log.Printf("⚠️  Skipping %s: not a capture file", name)
	}

	if len(result.Captures) == 0 {
		fmt.Println("No captures found to index")
		return
	}

	repo := sqlite.NewCaptureRepository(db)
	inserted, err := repo.InsertIgnoreBatch(result.Captures)
	if err != nil {
		db.Close()
		log.Fatalf("Failed to insert captures: %v", err)
	}

	fmt.Printf("✅ Indexed %d new captures (%d already present)\n", inserted, len(result.Captures)-inserted)

	count, countErr := repo.Count()
	total, sizeErr := repo.TotalSize()
	if countErr == nil && sizeErr == nil {
		fmt.Printf("\n📊 Catalog Statistics:\n")
		fmt.Printf("   Total captures: %d\n", count)
		fmt.Printf("   Total size: %d bytes\n", total)
	}

	latest, err := repo.GetAll(1, 0)
	if err == nil && len(latest) > 0 {
		c := latest[0]
		fmt.Printf("   Newest: %s (%s, %dx%d)\n", c.Filename, c.CapturedAt.Format("2006-01-02 15:04:05"), c.Width, c.Height)
	}
}
