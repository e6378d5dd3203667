package main

import (
	"log"

	"github.com/aussiebroadwan/reelhub/internal/connector/app"
)

//go:generate swag init --dir ../../internal/connector/http,../../pkg/connectorsdk --generalInfo router.go --output ../../api/connector --outputTypes go

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
