package main

import (
	"github.com/vidasana/vidasana/config"
	"github.com/vidasana/vidasana/models"
	"github.com/vidasana/vidasana/routes"
	"github.com/vidasana/vidasana/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(models.All()...)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("starting server on port %s", cfg.AppPort)
	if err := utils.RunServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
