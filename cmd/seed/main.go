package main

import (
	"log"

	"github.com/taskhive/backend/internal/config"
	"github.com/taskhive/backend/internal/database"
	"github.com/taskhive/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds demo users and tasks for local development. Safe to run repeatedly:
// existing emails and task titles are skipped.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	users := []struct {
		Name     string
		Email    string
		Password string
	}{
		{"Ann Ferris", "ann@taskhive.local", "password123"},
		{"Bob Malik", "bob@taskhive.local", "password123"},
		{"Carol Adeyemi", "carol@taskhive.local", "password123"},
	}

	for _, u := range users {
		var existing domain.User
		err := db.First(&existing, "email = ?", u.Email).Error
		if err == nil {
			log.Printf("user %s already exists, skipping", u.Email)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check user %s: %v", u.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		user := domain.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
		log.Printf("created user %s (%s)", u.Name, user.ID)
	}

	tasks := []string{
		"Design landing page",
		"Migrate billing service",
		"Q3 release checklist",
	}

	for _, title := range tasks {
		var existing domain.Task
		err := db.First(&existing, "title = ?", title).Error
		if err == nil {
			log.Printf("task %q already exists, skipping", title)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check task %q: %v", title, err)
		}

		task := domain.Task{Title: title}
		if err := db.Create(&task).Error; err != nil {
			log.Fatalf("Failed to create task %q: %v", title, err)
		}
		log.Printf("created task %q (%s)", title, task.ID)
	}

	log.Println("seed complete")
}
