package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursesphere/apps/shared"
	webapi "github.com/trezcool/coursesphere/apps/web/echo"
	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	identitysvc "github.com/trezcool/coursesphere/services/identity"
	logsvc "github.com/trezcool/coursesphere/services/logger"
	"github.com/trezcool/coursesphere/storage/restapi"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewLogger("WEB", conf)
	defer logger.Close()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	course.InitValidators(validate, translator)

	repo := restapi.NewRepositoryFromConfig(conf, logger)
	courseSvc := course.NewService(repo, identitysvc.NewGenerator(conf), validate)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q, store %s", conf.Build, conf.BaseURL()))
	defer logger.Info("Application stopped")

	var server *shared.Server
	app := webapi.NewApp(webapi.Deps{
		Conf:           conf,
		Logger:         logger,
		CourseSvc:      courseSvc,
		Sessions:       webapi.NewCookieStore(conf),
		Translator:     translator,
		SignalShutdown: func() { server.SignalShutdown() },
	})
	server = shared.NewServer(app, conf.Server.Address)

	// =========================================================================
	// Start Web Service

	shared.Run(server, logger, conf.Server.ShutdownTimeout)
}
