package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/DallasMorningNews/fb-instant-article-insights/internal/article"
	"github.com/DallasMorningNews/fb-instant-article-insights/internal/database"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Simplified config loading for the script
func loadConfig() (dbName, primaryURL, authToken string) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName = os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "fbia.sqlite"
	}
	return dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN")
}

func main() {
	numArticles := flag.Int("n", 500, "number of dummy articles to upsert")
	flag.Parse()

	log.Info("Starting registry seeder...")
	dbName, primaryURL, authToken := loadConfig()

	db, teardown, err := database.InitDB(dbName, primaryURL, authToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	registry := article.New(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	startTime := time.Now()

	for i := range *numArticles {
		url := fmt.Sprintf("https://example.com/seed/%d", i)
		id, err := registry.ResolveID(url)
		if err != nil {
			log.Fatalf("Failed to resolve %s: %s", url, err)
		}
		published := now.Add(-time.Duration(i) * time.Hour)
		scroll, err := scrollDepth(published, rand.Intn(100))
		if err != nil {
			log.Fatalf("Failed to encode scroll depth for article %d: %s", i, err)
		}
		meta := article.Metadata{
			URL:         url,
			GUID:        url,
			Title:       fmt.Sprintf("Seeded article %d", i),
			Author:      "Seeder",
			PublishedAt: &published,
		}
		metrics := article.Metrics{
			Views:               int64(rand.Intn(50000)),
			AverageViewDuration: float64(rand.Intn(180)),
			ScrollDepth:         scroll,
		}
		// Spread first-seen so the registry has a realistic order.
		if err := registry.Upsert(ctx, id, meta, metrics, published); err != nil {
			log.Fatalf("Failed to upsert seeded article %d: %s", i, err)
		}
	}

	count, err := registry.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count articles: %s", err)
	}
	log.Info("Seeding completed", "upserted", *numArticles, "registry_size", count, "duration", time.Since(startTime))
}

// scrollDepth builds a one-point scroll series shaped like the Graph API data array.
func scrollDepth(at time.Time, halfway int) ([]byte, error) {
	return json.Marshal([]map[string]any{{"time": at.Format(time.RFC3339), "value": map[string]int{"0": 100, "50": halfway}}})
}
