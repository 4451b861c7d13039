package main

import (
	"github.com/trezcool/pacta/core/session"
)

func (cli *commandLine) setBudget(typ string, hours float64) error {
	return cli.quotaSvc.SetBudget(session.Type(typ), hours)
}
