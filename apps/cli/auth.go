package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/trezcool/coursesphere/core/course"
)

func (cli *commandLine) login(ctx context.Context, args []string) error {
	loginCmd := cli.newFlagSet("login")
	email := loginCmd.String("email", "", "The user's email. The password will be prompted next.")
	if err := cli.parse(loginCmd, args); err != nil {
		return err
	}
	if *email == "" {
		return usage(loginCmd)
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		return usage(loginCmd)
	}

	usr, err := cli.svc.Login(ctx, course.LoginRequest{Email: *email, Password: string(pwd)})
	if err != nil {
		return err
	}
	return cli.store.Set(usr)
}

func (cli *commandLine) logout() error {
	return cli.store.Clear()
}

func (cli *commandLine) whoami() error {
	usr, ok := cli.store.Get()
	if !ok {
		return errLoginRequired
	}
	fmt.Fprintf(cli.out, "%s <%s> (#%s)\n", usr.Name, usr.Email, usr.ID)
	return nil
}
