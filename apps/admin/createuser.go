package main

import (
	"context"
	"fmt"

	"github.com/SandyWyper/Know-How/core/account"
)

// createUser creates an active account; the password policy applies.
func (cli *commandLine) createUser(uname, email, pwd string, roles []string) error {
	ctx := context.Background()
	na := account.NewAccount{
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           roles,
	}
	if err := cli.accSvc.ValidateNew(ctx, cli.validate, &na); err != nil {
		return err
	}
	acc, err := cli.accSvc.Create(ctx, na)
	if err != nil {
		return err
	}
	fmt.Printf("account %q created\n", acc.Username)
	return nil
}
