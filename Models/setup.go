package Models

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "checkpoint.db"
	}

	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", path, err)
	}
	DB = connection

	// 1. Base tables with no dependencies
	DB.AutoMigrate(
		&User{},
	)

	// 2. Local state owned by the offline pipeline
	DB.AutoMigrate(
		&QueueEntry{},       // pending deliveries, drained by the sync coordinator
		&SubmissionMarker{}, // same-day duplicate guard
	)

	seedDefaultUser()
}

// seedDefaultUser creates a supervisor account when the user table is empty,
// so local-only deployments have a way in.
func seedDefaultUser() {
	var count int64
	if err := DB.Model(&User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Failed to hash default password:", err)
		return
	}

	admin := User{Name: "Admin", Password: string(hashed), Role: RoleSupervisor}
	if err := DB.Create(&admin).Error; err != nil {
		log.Println("Failed to seed default user:", err)
		return
	}
	log.Println("Seeded default supervisor account 'Admin'")
}
