package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/remittance-ledger/pkg/events"
	"github.com/joho/godotenv"
)

var notifier *events.Notifier

func init() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	level := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			log.Fatalf("invalid LOG_LEVEL %q: %v", v, err)
		}
	}
	notifier = events.NewNotifier(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func main() {
	lambda.Start(notifier.HandleSQSEvent)
}
