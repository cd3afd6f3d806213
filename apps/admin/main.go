package main

import (
	"log"
	"os"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/progress"
	"github.com/edulineal/backend/core/user"
	"github.com/edulineal/backend/storage/jsonfile"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up storage
	db, err := jsonfile.Open(conf.Storage.DataDir)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		usrSvc:  user.NewService(jsonfile.NewUserRepository(db), nil, conf),
		progSvc: progress.NewService(jsonfile.NewProgressStore(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
