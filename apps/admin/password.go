package main

import (
	"fmt"
	"strings"

	"github.com/varadc-2304/admin-command-station/core/auth"
)

// hashPassword prints the config entries that make `pwd` the superadmin password.
func (cli *commandLine) hashPassword(username, pwd string) error {
	if err := auth.CheckPasswordPolicy(pwd, username); err != nil {
		return err
	}
	hash, err := auth.HashPassword(pwd)
	if err != nil {
		return err
	}

	prefix := strings.ToUpper(cli.conf.Env)
	fmt.Fprintf(cli.out, "%s_SUPERADMIN_USERNAME=%s\n", prefix, username)
	fmt.Fprintf(cli.out, "%s_SUPERADMIN_PASSWORDHASH=%s\n", prefix, hash)
	return nil
}
