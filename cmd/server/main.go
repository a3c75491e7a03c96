package main

import (
	"log"

	"devconnect/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
