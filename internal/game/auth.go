package game

import (
	"errors"
	"fmt"
	"strings"
)

const (
	loginBanner = "╔══════════════════════════════════════╗\r\n" +
		"║               CHATTAGS               ║\r\n" +
		"║   Wear your name in living colour    ║\r\n" +
		"╚══════════════════════════════════════╝"
	loginTagline = "Pick a tag, pick a hue, and say hello."

	maxNameAttempts     = 5
	maxPasswordAttempts = 3
	maxNameLength       = 24
	minPasswordLength   = 6
)

var (
	errLoginCancelled = errors.New("login cancelled")
	errAuthFailed     = errors.New("authentication failed")
)

func validateUsername(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("name cannot be empty")
	case strings.ContainsAny(name, " \t\r\n"):
		return fmt.Errorf("name cannot contain spaces")
	case len(name) > maxNameLength:
		return fmt.Errorf("name must be %d characters or fewer", maxNameLength)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// ask writes a prompt and returns the sanitised reply.
func ask(session *TelnetSession, prompt string) (string, error) {
	_ = session.WriteString(Ansi("\r\n" + prompt))
	line, err := session.ReadLine()
	if err != nil {
		return "", err
	}
	return Trim(line), nil
}

func warn(session *TelnetSession, msg string) {
	_ = session.WriteString(Ansi(Style("\r\n"+msg, AnsiYellow)))
}

// login signs an existing player in or registers a new account. It returns
// the account name and whether that account holds administrator rights.
func login(session *TelnetSession, accounts *AccountManager) (string, bool, error) {
	_ = session.WriteString(Ansi("\r\n" + Style(loginBanner, AnsiCyan, AnsiBold) + "\r\n"))
	_ = session.WriteString(Ansi(Style("\r\n"+loginTagline+"\r\n", AnsiGreen)))
	_ = session.WriteString(Ansi(Style("\r\nLogin required.\r\n", AnsiMagenta, AnsiBold)))

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		username, err := ask(session, "Username: ")
		if err != nil {
			return "", false, err
		}
		if err := validateUsername(username); err != nil {
			warn(session, err.Error())
			continue
		}
		if accounts.Exists(username) {
			if err := authenticate(session, accounts, username); err != nil {
				return "", false, err
			}
			_ = session.WriteString(Ansi(Style("\r\nWelcome back, "+username+"!", AnsiGreen)))
			return username, accounts.IsAdmin(username), nil
		}
		registered, err := register(session, accounts, username)
		if err != nil {
			return "", false, err
		}
		if registered {
			_ = session.WriteString(Ansi(Style("\r\nAccount created. Welcome, "+username+"!", AnsiGreen)))
			return username, accounts.IsAdmin(username), nil
		}
	}
	_ = session.WriteString(Ansi("\r\nLogin cancelled.\r\n"))
	return "", false, errLoginCancelled
}

func authenticate(session *TelnetSession, accounts *AccountManager, username string) error {
	for attempt := 0; attempt < maxPasswordAttempts; attempt++ {
		password, err := ask(session, "Password: ")
		if err != nil {
			return err
		}
		if accounts.Authenticate(username, password) {
			return nil
		}
		warn(session, "Incorrect password.")
	}
	_ = session.WriteString(Ansi("\r\nToo many failed attempts.\r\n"))
	return errAuthFailed
}

// register keeps asking for a usable password. It reports false when the
// account could not be stored, for example because another connection
// claimed the name first.
func register(session *TelnetSession, accounts *AccountManager, username string) (bool, error) {
	for {
		password, err := ask(session, "Set a password: ")
		if err != nil {
			return false, err
		}
		if err := validatePassword(password); err != nil {
			warn(session, err.Error())
			continue
		}
		if err := accounts.Register(username, password); err != nil {
			warn(session, err.Error())
			return false, nil
		}
		return true, nil
	}
}
