package main

import (
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/term"

	"parking-cli/parking"
)

// loginMode mirrors the two tabs of the login screen.
type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

// readPassword reads a masked password from the terminal.
func (a *app) readPassword(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

// runLogin owns the terminal until a login succeeds or the user quits. A
// successful registration does not log in; it switches back to the login tab
// with the username pre-filled, same as the sign-up flow it replaces.
func (a *app) runLogin() (*parking.Session, view) {
	mode := modeLogin
	prefill := ""

	fmt.Fprintln(a.out, "\n=== Vehicle Parking App ===")
	fmt.Fprintln(a.out, "Commands: login, register, quit  (dev backend seeds admin/admin123)")

	for {
		var label string
		switch mode {
		case modeLogin:
			label = "login"
		case modeRegister:
			label = "register"
		}
		fmt.Fprintf(a.out, "\n[%s] > ", label)
		if !a.in.Scan() {
			return nil, viewQuit
		}
		cmd := strings.ToLower(strings.TrimSpace(a.in.Text()))

		switch cmd {
		case "", "go":
			// fall through to the active tab's form below
		case "login":
			mode = modeLogin
			continue
		case "register":
			mode = modeRegister
			continue
		case "quit", "exit":
			return nil, viewQuit
		default:
			fmt.Fprintln(a.out, "Commands: login, register, quit (press enter to fill the active form)")
			continue
		}

		switch mode {
		case modeLogin:
			session := a.loginForm(prefill)
			if session != nil {
				return session, viewForRole(session.User.Role)
			}
		case modeRegister:
			if username, ok := a.registerForm(); ok {
				prefill = username
				mode = modeLogin
			}
		}
	}
}

// loginForm collects credentials and exchanges them for a session. The
// session is persisted before the shell switches views.
func (a *app) loginForm(prefill string) *parking.Session {
	username, ok := a.promptDefault("Username", prefill)
	if !ok {
		return nil
	}
	if username == "" {
		a.notify.Errorf("Username is required")
		return nil
	}
	password, err := a.readPassword("Password")
	if err != nil {
		a.notify.Failf("read password", err)
		return nil
	}
	if password == "" {
		a.notify.Errorf("Password is required")
		return nil
	}

	session, err := a.client.Login(username, password)
	if err != nil {
		a.notify.Failf("log in", err)
		return nil
	}
	if err := a.store.Save(session.User, session.Token); err != nil {
		a.notify.Failf("save session", err)
	}
	a.notify.Success("Logged in as %s (%s)", session.User.Username, session.User.Role)
	return session
}

// registerForm creates an account and reports the username on success.
func (a *app) registerForm() (string, bool) {
	username, ok := a.prompt("Username")
	if !ok || username == "" {
		if ok {
			a.notify.Errorf("Username is required")
		}
		return "", false
	}
	password, err := a.readPassword("Password")
	if err != nil {
		a.notify.Failf("read password", err)
		return "", false
	}
	if password == "" {
		a.notify.Errorf("Password is required")
		return "", false
	}

	if err := a.client.Register(username, password); err != nil {
		a.notify.Failf("register", err)
		return "", false
	}
	a.notify.Success("Registration successful! Please login.")
	return username, true
}
