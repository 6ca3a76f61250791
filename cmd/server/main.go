// Command server runs the occurrence backend HTTP server.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"

	"github.com/imago-sys/occurrence-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
