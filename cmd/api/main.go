package main

import (
	"context"
	"log"

	"github.com/orderdesk/sales-admin-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("sales admin API failed: %v", err)
	}
}
