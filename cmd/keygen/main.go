package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/shift-calendar-go/internal/config"
	"github.com/arnavshah/shift-calendar-go/pkg/auth"
)

func main() {
	config.LoadDotEnv()

	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <userID>")
		os.Exit(1)
	}

	userID := os.Args[1]
	secret := os.Getenv("API_MASTER_SECRET")
	if secret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in .env")
		os.Exit(1)
	}

	key := auth.GenerateFeedKey(secret, userID)
	fmt.Printf("Calendar feed key for %s:\n%s\n/feed/%s/calendar.ics\n", userID, key, key)
}
