package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"travelbooking/internal/gdsmock"
)

// Serves canned provider responses. Point GDS_BASE_URL at it with any
// client id and secret.
func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	gin.SetMode(gin.ReleaseMode)
	r := gdsmock.NewRouter(gdsmock.Options{
		MinLatency: 50 * time.Millisecond,
		MaxLatency: 100 * time.Millisecond,
	})

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("GDS mock server running on port %s...\n", port)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
