package main

import (
	"context"

	"github.com/trezcool/tracklearn/core/user"
)

// addUser creates a user.User with the given role.
func (cli *commandLine) addUser(name, uname, email, pwd, role string) error {
	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            role,
	}
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	logger.Printf("created %s %q (%s)", usr.Role, usr.Username, usr.ID)
	return nil
}
