package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tyler180/hoops-gamelogs/internal/app/career"
	"github.com/tyler180/hoops-gamelogs/internal/config"
	"github.com/tyler180/hoops-gamelogs/internal/players"
)

func main() {
	cfg := config.Load()
	logger := cfg.Logger()

	// bundled with the function zip
	dir, err := players.Load(cfg.PlayersFile)
	if err != nil {
		log.Fatalf("load players: %v", err)
	}

	h := &career.Handler{
		Config:  cfg,
		Players: dir,
		NewService: func(cfg config.Config, dir *players.Directory) (*career.Service, error) {
			src, err := career.NewSource(cfg, cfg.Source, dir, nil, logger)
			if err != nil {
				return nil, err
			}
			return career.Build(cfg, dir, src, logger), nil
		},
	}
	lambda.Start(h.Handle)
}
