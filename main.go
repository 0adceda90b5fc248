package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docsite/client"
	"docsite/config"
	"docsite/content"
	"docsite/orchestrator"
	"docsite/preview"
	"docsite/publish"
	"docsite/session"
	"docsite/tui"
	"docsite/types"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	// Parse command-line flags
	apiURL := flag.String("api", config.APIBaseURL(), "Backend API URL")
	previewPort := flag.String("preview-port", config.DefaultPreviewPort, "Local preview server port")
	flag.Parse()

	api := client.New(*apiURL)
	mgr := session.NewManager(api)
	orch := orchestrator.New(api)
	store := content.NewStore(api)

	// Preview server runs alongside the TUI
	srv := preview.NewServer()
	go func() {
		if err := srv.Run(*previewPort); err != nil {
			log.Printf("preview server stopped: %v", err)
		}
	}()

	// Publishing is optional; it needs a configured bucket
	var exporter *publish.Exporter
	if bucket := config.PublishBucket(); bucket != "" {
		objStore, err := publish.NewS3Store(context.Background(), publish.StoreConfig{
			Bucket: bucket,
			Region: config.PublishRegion(),
		})
		if err != nil {
			log.Printf("publishing disabled: %v", err)
		} else {
			exporter = publish.NewExporter(objStore)
		}
	}

	m := tui.NewModel(tui.Deps{
		API:         api,
		Session:     mgr,
		Orch:        orch,
		Store:       store,
		Exporter:    exporter,
		PreviewPort: *previewPort,
		SetPreview:  func(data *types.WebsiteData) { srv.SetData(data) },
	})

	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
