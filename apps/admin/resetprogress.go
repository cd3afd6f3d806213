package main

import "context"

func (cli *commandLine) resetProgress(email string) error {
	usr, err := cli.usrSvc.GetByEmail(email)
	if err != nil {
		return err
	}
	_, err = cli.progSvc.Reset(context.Background(), usr.ID)
	return err
}
