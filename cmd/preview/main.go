package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"docsite/config"
	"docsite/preview"
	"docsite/types"
)

// Standalone preview server. Optionally seeds the previewed site from a
// website data JSON file; content can also be pushed over POST
// /preview/content.
func main() {
	_ = godotenv.Load()

	port := flag.String("port", config.DefaultPreviewPort, "Port to listen on")
	dataFile := flag.String("data", "", "Optional website data JSON file to preview")
	flag.Parse()

	srv := preview.NewServer()

	if *dataFile != "" {
		raw, err := os.ReadFile(*dataFile)
		if err != nil {
			log.Fatalf("failed to read %s: %v", *dataFile, err)
		}
		var data types.WebsiteData
		if err := json.Unmarshal(raw, &data); err != nil {
			log.Fatalf("failed to parse %s: %v", *dataFile, err)
		}
		srv.SetData(&data)
	}

	log.Printf("preview server listening on http://localhost:%s/preview", *port)
	if err := srv.Run(*port); err != nil {
		log.Fatal(err)
	}
}
