// Command seed populates the database with demo accounts and documents.
package main

import (
	"flag"
	"log"

	"draftline/internal/config"
	"draftline/internal/database"
	"draftline/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 5, "Number of demo users to create")
	numDocs := flag.Int("docs", 3, "Number of documents per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *numUsers,
		NumDocs:     *numDocs,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done. Demo accounts use the password %q", seed.DemoPassword)
}
