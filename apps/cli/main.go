package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	"github.com/trezcool/coursesphere/core/session"
	identitysvc "github.com/trezcool/coursesphere/services/identity"
	logsvc "github.com/trezcool/coursesphere/services/logger"
	"github.com/trezcool/coursesphere/storage/restapi"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewLogger("CLI", conf)
	defer logger.Close()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	course.InitValidators(validate, translator)

	store, err := session.Open(session.NewFileBackend(conf.Session.File))
	if err != nil {
		logger.Fatal(fmt.Sprintf("could not open session: %v", err), err)
	}

	repo := restapi.NewRepositoryFromConfig(conf, logger)
	svc := course.NewService(repo, identitysvc.NewGenerator(conf), validate)

	// start CLI
	cli := newCommandLine(svc, store, translator, os.Stdin, os.Stdout)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			cli.printError(err)
		}
		logger.Close()
		os.Exit(1)
	}
}
