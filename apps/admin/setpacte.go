package main

import (
	"github.com/trezcool/pacta/core/pacte"
)

func (cli *commandLine) setPacte(teacher string, enable, disable bool, hoursDF, hoursRCD float64) error {
	usr, err := cli.usrSvc.GetByUsernameOrEmail(teacher)
	if err != nil {
		return err
	}

	var sc pacte.SetContract
	if enable {
		t := true
		sc.InPacte = &t
	} else if disable {
		f := false
		sc.InPacte = &f
	}
	if hoursDF >= 0 {
		sc.HoursDF = &hoursDF
	}
	if hoursRCD >= 0 {
		sc.HoursRCD = &hoursRCD
	}

	_, err = cli.pacteSvc.Set(usr.ID, sc)
	return err
}
