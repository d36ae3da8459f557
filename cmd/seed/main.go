package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"dojoadmin/internal/database"
	"dojoadmin/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "dojo.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM monthly_fees")
	db.Exec("DELETE FROM belt_ranks")
	db.Exec("DELETE FROM profiles")

	// ================== MASTER ==================
	log.Println("Creating master account...")

	now := time.Now().UTC()
	masterHash, _ := bcrypt.GenerateFromPassword([]byte("master123"), bcrypt.DefaultCost)
	master := domain.Profile{
		Email:        "master@dojo.local",
		PasswordHash: string(masterHash),
		Role:         domain.RoleMaster,
		Name:         "Head Master",
		Approved:     true,
		ApprovedAt:   &now,
	}
	db.Create(&master)
	log.Println("Master created: master@dojo.local / master123")

	// ================== BELT RANKS ==================
	log.Println("Creating belt rank catalog...")

	ranks := []domain.BeltRank{
		{Name: "White", Color: "#FFFFFF", Position: 1, Active: true},
		{Name: "Yellow", Color: "#FFD700", Position: 2, Active: true},
		{Name: "Orange", Color: "#FF8C00", Position: 3, Active: true},
		{Name: "Green", Color: "#228B22", Position: 4, Active: true},
		{Name: "Blue", Color: "#1E90FF", Position: 5, Active: true},
		{Name: "Brown", Color: "#8B4513", Position: 6, Active: true},
		{Name: "Black", Color: "#000000", Position: 7, Active: true},
	}
	for i := range ranks {
		db.Create(&ranks[i])
	}

	// ================== STUDENTS ==================
	log.Println("Creating demo students...")

	white := "White"
	fee := decimal.RequireFromString("150.00")

	students := []domain.Profile{
		{
			Email:            "aiko@example.com",
			Name:             "Aiko Tanaka",
			Role:             domain.RoleStudent,
			Approved:         true,
			ApprovedAt:       &now,
			ApprovedBy:       &master.ID,
			BeltRank:         &white,
			IsPrivateStudent: true,
			MonthlyFee:       fee,
		},
		{
			Email:           "bruno@example.com",
			Name:            "Bruno Costa",
			Role:            domain.RoleStudent,
			Approved:        true,
			ApprovedAt:      &now,
			ApprovedBy:      &master.ID,
			BeltRank:        &white,
			IsSocialProgram: true,
		},
		{
			Email:    "carla@example.com",
			Name:     "Carla Mendes",
			Role:     domain.RoleStudent,
			Approved: false,
		},
	}
	for i := range students {
		hash, _ := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.DefaultCost)
		students[i].PasswordHash = string(hash)
		db.Create(&students[i])
		log.Println("Student created:", students[i].Email, "/ student123")
	}

	fmt.Println("Seed complete.")
}
