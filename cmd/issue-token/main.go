package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/playmatatu/tablesim/internal/config"
	"github.com/playmatatu/tablesim/internal/middleware"
)

func main() {
	subject := flag.String("subject", os.Getenv("OPERATOR"), "operator name stored in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "change-me-in-production" {
		log.Printf("WARNING: Using default JWT secret. Set JWT_SECRET env var in production!")
	}

	token, err := middleware.IssueToken(cfg.JWTSecret, *subject, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	log.Printf("Token for %s valid until %s", *subject, time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println(token)
}
