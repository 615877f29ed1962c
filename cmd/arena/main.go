package main

import (
	"flag"
	"log"

	"arena3d/internal/game"
	"arena3d/pkg/config"
)

func main() {
	configPath := flag.String("config", "arena3d.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	g := game.New(cfg)
	g.Run()
}
