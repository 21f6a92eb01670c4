package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/api"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/auth"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
)

var errNotSignedIn = errors.New("not signed in")

const loginTimeout = 30 * time.Second

func (cli *commandLine) login(uname, pwd string) error {
	creds := auth.Credentials{Username: uname, Password: pwd}
	if err := creds.Validate(cli.validate); err != nil {
		fields, ok := core.FieldErrors(err, cli.translator)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(fields))
		for field, msg := range fields {
			msgs = append(msgs, field+": "+msg)
		}
		sort.Strings(msgs)
		return errors.New(strings.Join(msgs, "; "))
	}

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()
	res, err := cli.auth.Login(ctx, creds)
	if err != nil {
		return errors.Errorf("login failed: %s", api.Message(err))
	}
	if err = cli.sess.Start(res.Token, res.User, res.ExpiresAt()); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Signed in as %s (%s).\n", res.User.Username, user.PrimaryRole(res.User.Roles).Label())
	return nil
}

func (cli *commandLine) logout() error {
	if !cli.sess.IsAuthenticated() {
		fmt.Fprintln(cli.out, "No stored session.")
		return nil
	}
	if err := cli.sess.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Signed out.")
	return nil
}

func (cli *commandLine) whoami() error {
	usr, ok := cli.sess.User()
	if !ok {
		return errNotSignedIn
	}
	roles := make([]string, 0, len(usr.Roles))
	for _, role := range usr.Roles {
		roles = append(roles, string(role))
	}
	fmt.Fprintf(cli.out, "%s <%s>\nroles: %s\n", usr.Username, usr.Email, strings.Join(roles, ", "))
	if exp := cli.sess.ExpiresAt(); !exp.IsZero() {
		fmt.Fprintf(cli.out, "session expires: %s\n", exp.Format(time.RFC3339))
	}
	return nil
}
