package main

import (
	"context"
	"log"

	"github.com/envioslab/shipment-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("shipment API failed: %v", err)
	}
}
