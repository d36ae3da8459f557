package main

import (
	"context"
	"log"
	"os"
	"time"

	"dojoadmin/internal/database"
	"dojoadmin/internal/modules/billing"
	"dojoadmin/internal/repository"
)

// Marks pending fee records past their due date as overdue. Intended to
// run daily from cron.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	feeRepo := repository.NewFeeRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	svc := billing.NewService(feeRepo, profileRepo)

	flipped, err := svc.MarkOverdue(context.Background(), time.Now().UTC())
	if err != nil {
		log.Fatalf("overdue sweep failed: %v", err)
	}

	log.Printf("billing sweep completed: overdue=%d", flipped)
}
