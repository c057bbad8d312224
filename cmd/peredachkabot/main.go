package main

import (
	"log"

	"peredachka-bot/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("bot exited with error: %v", err)
	}
}
