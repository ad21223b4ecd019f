// Package auth runs the login, register and logout commands.
package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/boost/pkg/app"
	"tableflip.dev/boost/pkg/prompt"
)

// Credentials are read from In and prompted on Out when not set by flags.
type Credentials struct {
	Username string
	Email    string
	Password string

	In  io.Reader
	Out io.Writer
}

func (c *Credentials) streams() (*bufio.Reader, io.Writer) {
	in, out := c.In, c.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = color.Output
	}
	return bufio.NewReader(in), out
}

func (c *Credentials) fill(withUsername bool) error {
	r, w := c.streams()
	var err error
	if withUsername && c.Username == "" {
		if c.Username, err = prompt.Text(r, w, "Username"); err != nil {
			return err
		}
	}
	if c.Email == "" {
		if c.Email, err = prompt.Text(r, w, "Email"); err != nil {
			return err
		}
	}
	if c.Password == "" {
		if c.Password, err = prompt.Password(w, "Password"); err != nil {
			return err
		}
	}
	return nil
}

type Login struct {
	Credentials
	Controller *app.Controller
}

func (n *Login) Do(ctx context.Context) error {
	if err := n.fill(false); err != nil {
		return err
	}
	if err := n.Controller.Login(ctx, n.Email, n.Password); err != nil {
		return err
	}
	_, w := n.streams()
	st := n.Controller.View().Session
	_, _ = color.New(color.FgGreen).Fprintf(w, "Welcome back, %s.\n", st.Username())
	return nil
}

type Register struct {
	Credentials
	Controller *app.Controller
}

func (n *Register) Do(ctx context.Context) error {
	if err := n.fill(true); err != nil {
		return err
	}
	if err := n.Controller.Register(ctx, n.Username, n.Email, n.Password); err != nil {
		return err
	}
	_, w := n.streams()
	_, _ = color.New(color.FgGreen).Fprintf(w, "Welcome, %s. Add your first boost with `boost add`.\n", n.Controller.View().Session.Username())
	return nil
}

type Logout struct {
	Controller *app.Controller
	Out        io.Writer
}

func (n *Logout) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}
	was := n.Controller.View().Session.Username()
	err := n.Controller.Logout(ctx)
	if err != nil {
		_, _ = color.New(color.FgYellow).Fprintf(out, "The server did not confirm the logout (%v); the local session was cleared anyway.\n", err)
		return err
	}
	_, _ = fmt.Fprintf(out, "Logged out %s.\n", was)
	return nil
}
