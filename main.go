package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"Checkpoint/CronJobs"
	"Checkpoint/FiberConfig"
	"Checkpoint/Guard"
	"Checkpoint/History"
	"Checkpoint/Models"
	"Checkpoint/OfflineQueue"
	"Checkpoint/SheetApi"
	"Checkpoint/Submission"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment")
	}

	Models.Connect()

	client := SheetApi.NewClient(os.Getenv("SHEET_URL"))
	if !client.Configured() {
		log.Println("SHEET_URL not set - running in local-only mode, all submissions will queue")
	}

	source := History.NewRemoteSource(client)
	store := OfflineQueue.NewStore(Models.DB)
	coordinator := OfflineQueue.NewCoordinator(store, client)
	guard := Guard.NewSubmissionGuard(Models.DB, source)

	watcher := CronJobs.NewConnectivityWatcher(client, coordinator, probeInterval())
	if err := watcher.Start(); err != nil {
		log.Fatal("Failed to start connectivity watcher:", err)
	}

	janitor := CronJobs.NewMarkerJanitor(guard, retentionDays())
	if err := janitor.Start(); err != nil {
		log.Fatal("Failed to start marker janitor:", err)
	}

	service := Submission.NewService(guard, store, client, watcher.Online)

	FiberConfig.FiberConfig(FiberConfig.Deps{
		DB:          Models.DB,
		Client:      client,
		Source:      source,
		Store:       store,
		Coordinator: coordinator,
		Service:     service,
		Online:      watcher.Online,
	})
}

func probeInterval() time.Duration {
	seconds, err := strconv.Atoi(os.Getenv("PROBE_INTERVAL_SECONDS"))
	if err != nil || seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

func retentionDays() int {
	days, err := strconv.Atoi(os.Getenv("MARKER_RETENTION_DAYS"))
	if err != nil || days <= 0 {
		days = 30
	}
	return days
}
