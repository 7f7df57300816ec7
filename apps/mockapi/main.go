package main

import (
	"fmt"

	mockapi "github.com/trezcool/coursesphere/apps/mockapi/echo"
	"github.com/trezcool/coursesphere/apps/shared"
	"github.com/trezcool/coursesphere/core"
	logsvc "github.com/trezcool/coursesphere/services/logger"
	inmemdb "github.com/trezcool/coursesphere/storage/database/inmem"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewLogger("MOCKAPI", conf)
	defer logger.Close()

	// set up DB
	db := inmemdb.Open()
	if conf.MockAPI.SeedFile != "" {
		seed, err := inmemdb.LoadSeedFile(conf.MockAPI.SeedFile)
		if err != nil {
			logger.Fatal(fmt.Sprintf("loading seed: %v", err), err)
		}
		if err = db.Seed(seed); err != nil {
			logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
		}
	}

	app := mockapi.NewApp(mockapi.Deps{
		Conf:   conf,
		Logger: logger,
		Repo:   inmemdb.NewRepository(db),
	})

	logger.Info(fmt.Sprintf("Mock store listening on %s", conf.MockAPI.Address))
	defer logger.Info("Mock store stopped")
	shared.Run(shared.NewServer(app, conf.MockAPI.Address), logger, conf.Server.ShutdownTimeout)
}
