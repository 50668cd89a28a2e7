package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"hopskip/internal/config"
	"hopskip/internal/database"
	"hopskip/internal/models"
	"hopskip/internal/repository"
	"hopskip/internal/search"
)

var (
	activityCount = flag.Int("activities", 50, "Number of directory activities to index")
	userCount     = flag.Int("users", 10, "Number of guardian accounts to create")
	dryRun        = flag.Bool("dry-run", false, "Show what would be generated without making changes")
)

var categories = []string{"swimming", "football", "gymnastics", "dance", "art", "music", "coding"}

var venues = []struct {
	id   int64
	name string
}{
	{1, "Riverside Leisure Centre"},
	{2, "Oakfield Community Hall"},
	{3, "Meadow Park Sports Ground"},
	{4, "St. Agnes Church Hall"},
	{5, "Hilltop Studio"},
}

func main() {
	flag.Parse()

	slog.Info("Starting directory seeder...")

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		slog.Error("Failed to connect to Elasticsearch", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		slog.Info("Dry run", "activities", *activityCount, "users", *userCount)
		return
	}

	if err := seedUsers(ctx, repository.NewUserRepository(db)); err != nil {
		slog.Error("Failed to seed users", "error", err)
		os.Exit(1)
	}

	if err := seedActivities(ctx, esClient); err != nil {
		slog.Error("Failed to seed activities", "error", err)
		os.Exit(1)
	}

	slog.Info("Seeding completed successfully!")
}

func seedUsers(ctx context.Context, users *repository.UserRepository) error {
	for i := 1; i <= *userCount; i++ {
		email := fmt.Sprintf("guardian%d@example.com", i)

		existing, err := users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		password := sha256.Sum256([]byte(fmt.Sprintf("password%d", i)))
		user := &models.User{
			Email:        email,
			PasswordHash: fmt.Sprintf("%x", password),
			FirstName:    fmt.Sprintf("Guardian%d", i),
			Surname:      "Test",
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		slog.Info("Created guardian", "email", email, "user_id", user.UserID)
	}
	return nil
}

func seedActivities(ctx context.Context, es *search.ElasticsearchClient) error {
	for i := 1; i <= *activityCount; i++ {
		category := categories[rand.Intn(len(categories))]
		venue := venues[rand.Intn(len(venues))]
		ageMin := rand.Intn(8) + 3
		sessions := []int{1, 6, 10}[rand.Intn(3)]

		description := fmt.Sprintf("Weekly %s sessions for children", category)
		activity := &models.Activity{
			ID:            int64(i),
			Title:         fmt.Sprintf("%s club #%d", category, i),
			Description:   &description,
			Category:      category,
			VenueID:       venue.id,
			VenueName:     venue.name,
			AgeMin:        ageMin,
			AgeMax:        ageMin + 4,
			PricePerBlock: int64((rand.Intn(20) + 5) * 100 * sessions),
			SessionsTotal: sessions,
			Capacity:      rand.Intn(20) + 5,
			NextStart:     time.Now().AddDate(0, 0, rand.Intn(28)+3).Truncate(time.Hour),
		}

		if err := es.IndexActivity(ctx, activity); err != nil {
			return err
		}
	}

	slog.Info("Indexed activities", "count", *activityCount)
	return nil
}
