package main

func (cli *commandLine) resetPassword(email, pwd string) error {
	_, err := cli.usrSvc.SetPassword(email, pwd)
	return err
}
