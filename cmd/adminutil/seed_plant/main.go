package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/sudo-init-do/cuttr/internal/config"
	"github.com/sudo-init-do/cuttr/internal/db"
	"github.com/sudo-init-do/cuttr/internal/plant"
)

func main() {
	var (
		email   = flag.String("email", "", "Owner email")
		species = flag.String("species", "", "Species name")
		stage   = flag.String("stage", string(plant.StageCutting), "Plant stage")
		extras  = flag.String("extras", "", "Comma separated extras")
		image   = flag.String("image", "", "Image URL")
	)
	flag.Parse()

	if *email == "" || *species == "" {
		log.Fatalf("usage: go run ./cmd/adminutil/seed_plant -email user@example.com -species Pothos [-stage Cutting] [-extras Rare,Fragrant]")
	}

	db.Init(config.Load())
	defer db.Conn.Close()
	ctx := context.Background()

	var ownerID string
	if err := db.Conn.QueryRow(ctx, `SELECT id::text FROM users WHERE email = $1`, *email).Scan(&ownerID); err != nil {
		log.Fatalf("no user found with email %s: %v", *email, err)
	}

	req := plant.CreateRequest{SpeciesName: *species, PlantStage: *stage, ImageURL: *image}
	if *extras != "" {
		req.Extras = strings.Split(*extras, ",")
	}
	p, err := plant.NewService(plant.NewPGStore(db.Conn)).Create(ctx, ownerID, req)
	if err != nil {
		log.Fatalf("failed to seed plant: %v", err)
	}

	fmt.Printf("Seeded plant %s (%s) for %s.\n", p.ID, p.SpeciesName, *email)
}
