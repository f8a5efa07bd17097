package main

import (
	"github.com/zachbush96/TipTracker/config"
	"github.com/zachbush96/TipTracker/models"
	"github.com/zachbush96/TipTracker/routes"
	"github.com/zachbush96/TipTracker/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.TipEntry{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
