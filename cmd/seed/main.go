// Command seed fills the database with demo content: the services listing,
// portfolio entries, users with posts, likes and comments, and contact messages.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"folio/internal/bootstrap"
	"folio/internal/config"
	"folio/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	numContacts := flag.Int("contacts", 10, "Number of contact messages to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated content")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d users, %d posts, %d contacts, clean=%v\n", *numUsers, *numPosts, *numContacts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ApplySchema: true, SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Close()

	report, err := seed.NewSeeder(rt.DB).Run(ctx, seed.Options{
		Users:    *numUsers,
		Posts:    *numPosts,
		Contacts: *numContacts,
		Clean:    *shouldClean,
		Seed:     *randSeed,
	})
	if err != nil {
		log.Printf("❌ Seeding failed: %v", err)
		return
	}

	log.Printf("✨ Done: %d services, %d portfolio entries, %d users, %d posts, %d likes, %d comments, %d contacts",
		report.Services, report.Portfolio, report.Users, report.Posts, report.Likes, report.Comments, report.Contacts)
	log.Printf("📧 All demo users have the password: %s", seed.DemoPassword)
}
