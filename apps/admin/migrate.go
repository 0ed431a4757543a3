package main

import (
	"errors"

	"github.com/pressly/goose/v3"

	"github.com/trezcool/tracklearn/fs"
)

var (
	gooseRunFunc = goose.Run // mockable

	errNoSQLDatabase = errors.New("migrations require the postgres engine")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoSQLDatabase
	}
	goose.SetBaseFS(appfs.FS)
	return gooseRunFunc(args[0], cli.db, "migrations", args[1:]...)
}
