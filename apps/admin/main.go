package main

import (
	"log"
	"os"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/core/user"
	"github.com/trezcool/tracklearn/storage/database"
	inmemdb "github.com/trezcool/tracklearn/storage/database/inmem"
	sqlxrepos "github.com/trezcool/tracklearn/storage/database/sqlx"
)

var logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

func main() {
	conf := core.NewConfig()

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)

	cli := commandLine{validate: validate}

	if conf.Database.Engine == "memory" {
		cli.usrRepo = inmemdb.NewUserRepository(inmemdb.Open())
	} else {
		errAndDie(database.CreateIfNotExist(conf))
		db, err := database.Open(conf)
		errAndDie(err)
		defer func() { _ = db.Close() }()

		cli.db = db.DB
		cli.usrRepo = sqlxrepos.NewUserRepository(db)
	}
	cli.usrSvc = user.NewService(cli.usrRepo)

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
