package main

import (
	"context"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	acc, err := cli.accSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}
	if _, err = cli.accSvc.SetPassword(ctx, acc, pwd); err != nil {
		return err
	}
	return nil
}
