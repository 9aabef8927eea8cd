package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"parking-cli/parking"
)

// view is the root shell's state: which top-level screen owns the terminal.
type view int

const (
	viewLogin view = iota
	viewAdmin
	viewUser
	viewQuit
)

// app wires the shell together: the API client, the session cache, and the
// terminal plumbing every screen shares. Views receive it explicitly; there
// is no ambient global state.
type app struct {
	client  *parking.Client
	store   *parking.SessionStore
	session *parking.Session

	in     *bufio.Scanner
	out    io.Writer
	notify *notifier
	logger *log.Logger
}

var (
	serverFlag  string
	sessionFlag string
)

func main() {
	root := &cobra.Command{
		Use:   "parking-cli",
		Short: "Terminal client for the vehicle parking reservation service",
		Long: "parking-cli talks to the parking backend API: browse lots, book and\n" +
			"release spots, and (as admin) manage lots and watch occupancy.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()
			a.run()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&serverFlag, "server", "",
		"backend base URL (default http://localhost:5000, env PARKING_SERVER)")
	root.PersistentFlags().StringVar(&sessionFlag, "session", "",
		"session database path (env PARKING_SESSION_DB)")

	root.AddCommand(&cobra.Command{
		Use:          "export",
		Short:        "Download the reservation history CSV using the saved session",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()
			if a.session == nil {
				return fmt.Errorf("no saved session; log in with the interactive client first")
			}
			name, err := a.exportHistory()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Wrote %s\n", name)
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves configuration, opens the session store and log file, and
// restores any saved session.
func setup() (*app, func(), error) {
	server := "http://localhost:5000"
	if env := os.Getenv("PARKING_SERVER"); env != "" {
		server = env
	}
	if serverFlag != "" {
		server = serverFlag
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, err
	}
	stateDir := filepath.Join(home, ".parking-cli")
	sessionPath := filepath.Join(stateDir, "session.db")
	if env := os.Getenv("PARKING_SESSION_DB"); env != "" {
		sessionPath = env
	}
	if sessionFlag != "" {
		sessionPath = sessionFlag
	}

	store, err := parking.OpenSessionStore(sessionPath)
	if err != nil {
		return nil, nil, err
	}

	logger, logFile := openLogger(stateDir)

	a := &app{
		store:  store,
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
		logger: logger,
	}
	a.notify = newNotifier(a.out, logger)
	a.client = parking.NewClient(server, func() string {
		if a.session == nil {
			return ""
		}
		return a.session.Token
	})

	if session, err := store.Restore(); err == nil {
		a.session = session
	}

	cleanup := func() {
		store.Close()
		if logFile != nil {
			logFile.Close()
		}
	}
	return a, cleanup, nil
}

// openLogger appends diagnostics to client.log inside stateDir, creating the
// directory first; --session may have pointed the store elsewhere, so the dir
// is not guaranteed to exist. On failure the logger stays on io.Discard.
func openLogger(stateDir string) (*log.Logger, *os.File) {
	logger := log.New(io.Discard, "", log.LstdFlags)
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return logger, nil
	}
	logFile, err := os.OpenFile(filepath.Join(stateDir, "client.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return logger, nil
	}
	logger.SetOutput(logFile)
	return logger, logFile
}

// run drives the three-state shell until the user quits. The current view is
// derived from the session role; logout always lands back on login.
func (a *app) run() {
	if err := a.client.Health(); err != nil {
		a.notify.Failf("reach the parking service", err)
	}

	current := a.startView()
	for current != viewQuit {
		switch current {
		case viewLogin:
			session, next := a.runLogin()
			if session != nil {
				a.session = session
			}
			current = next
		case viewAdmin:
			current = a.runAdmin()
		case viewUser:
			current = a.runUser()
		case viewQuit:
		}
	}
	fmt.Fprintln(a.out, "Goodbye!")
}

func (a *app) startView() view {
	if a.session == nil {
		return viewLogin
	}
	return viewForRole(a.session.User.Role)
}

func viewForRole(role string) view {
	if role == "admin" {
		return viewAdmin
	}
	return viewUser
}

// logout clears the saved session and returns the shell to the login view.
func (a *app) logout() view {
	if err := a.store.Clear(); err != nil {
		a.notify.Failf("clear saved session", err)
	}
	a.session = nil
	fmt.Fprintln(a.out, "Logged out.")
	return viewLogin
}

// exportHistory fetches the CSV artifact and writes it, byte for byte, to a
// dated file in the working directory.
func (a *app) exportHistory() (string, error) {
	data, err := a.client.ExportCSV()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("reservations_%s.csv", time.Now().Format("2006-01-02"))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// ------------------ shared prompt helpers ------------------

func (a *app) prompt(label string) (string, bool) {
	fmt.Fprintf(a.out, "%s: ", label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// promptDefault reads a value, keeping def when the user just hits enter.
func (a *app) promptDefault(label, def string) (string, bool) {
	if def == "" {
		return a.prompt(label)
	}
	fmt.Fprintf(a.out, "%s [%s]: ", label, def)
	if !a.in.Scan() {
		return "", false
	}
	text := strings.TrimSpace(a.in.Text())
	if text == "" {
		return def, true
	}
	return text, true
}

func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", question)
	if !a.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(a.in.Text()))
	return answer == "y" || answer == "yes"
}
