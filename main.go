package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/blueprintcu/modeler-backend/api"
	"github.com/blueprintcu/modeler-backend/auth"
	"github.com/blueprintcu/modeler-backend/config"
	"github.com/blueprintcu/modeler-backend/models"
	"github.com/blueprintcu/modeler-backend/repository"
	"github.com/blueprintcu/modeler-backend/storage"
	"github.com/blueprintcu/modeler-backend/validation"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	var adapter storage.Adapter
	storageMode := config.GetString(c, "STORAGE_MODE", "local")
	fmt.Printf("STORAGE_MODE: %s\n", storageMode)
	switch storageMode {
	case "supa":
		fmt.Println("Connecting to Supabase database...")
		db, err := storage.NewDatabase(c)
		if err != nil {
			fmt.Printf("Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		// If generating models, run generation and exit
		if strings.ToLower(os.Getenv("GENERATE_MODELS")) == "true" {
			fmt.Println("Generating models and query helpers...")
			models.GenerateModels(db)
			return
		}

		// If generating column mismatch report, run report and exit
		if os.Getenv("GENERATE_COLUMN_REPORT") == "true" {
			fmt.Println("Generating column mismatch report...")
			models.GenerateColumnMismatchReport(db)
			return
		}

		adapter = storage.NewRemoteAdapter(db, auth.ContextProvider{})
	case "local":
		dir := config.GetString(c, "LOCAL_STORAGE_DIR", ".modeler")
		fmt.Printf("Using local file storage in %s\n", dir)
		local := storage.NewLocalAdapter(dir)
		adapter = local

		// Periodically back up the scratch store while the server runs
		interval := config.GetDuration(c, "AUTOSAVE_INTERVAL_SECONDS", 30*time.Second)
		go autoSave(local, interval)
	default:
		fmt.Println("Unsupported STORAGE_MODE. Exiting...")
		os.Exit(1)
	}

	repo := repository.NewProjectRepository(adapter, validation.NewService())

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(repo)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// autoSave snapshots the local scratch store on a fixed interval.
func autoSave(adapter *storage.LocalAdapter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if err := adapter.Snapshot(context.Background()); err != nil {
			fmt.Printf("Auto-save failed: %v\n", err)
		}
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
