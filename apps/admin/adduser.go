package main

import (
	"github.com/trezcool/pacta/core"
	"github.com/trezcool/pacta/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, uname, email, role, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	lookup := uname
	if lookup == "" {
		lookup = email
	}
	usr, err := cli.usrSvc.GetByUsernameOrEmail(lookup)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		_, err = cli.usrSvc.Create(user.NewUser{
			Name:            name,
			Username:        uname,
			Email:           email,
			Role:            role,
			Password:        pwd,
			PasswordConfirm: pwd,
		})
		return err
	}

	_, err = cli.usrSvc.Update(usr.ID, user.UpdateUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	return err
}
