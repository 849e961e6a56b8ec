package main

import "github.com/varadc-2304/admin-command-station/storage/database"

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoSQLDatabase
	}
	return database.Migrate(cli.db, args[0], args[1:]...)
}
