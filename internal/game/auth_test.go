package game

import (
	"errors"
	"net"
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	cases := map[string]bool{
		"Hero":                  true,
		"":                      false,
		"two words":             false,
		strings.Repeat("a", 24): true,
		strings.Repeat("a", 25): false,
	}
	for name, ok := range cases {
		if err := validateUsername(name); (err == nil) != ok {
			t.Fatalf("validateUsername(%q) = %v, want ok=%v", name, err, ok)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := validatePassword("short"); err == nil {
		t.Fatalf("expected short password to be rejected")
	}
	if err := validatePassword("secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type loginResult struct {
	name  string
	admin bool
	err   error
}

// runLogin drives login over a pipe with the given client input.
func runLogin(t *testing.T, accounts *AccountManager, input string) (loginResult, string) {
	t.Helper()
	server, client := net.Pipe()
	defer client.Close()

	var transcript syncBuffer
	go func() {
		buf := make([]byte, 512)
		for {
			n, err := client.Read(buf)
			if n > 0 {
				_, _ = transcript.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
	go func() {
		_, _ = client.Write([]byte(input))
	}()

	done := make(chan loginResult, 1)
	go func() {
		name, admin, err := login(NewTelnetSession(server), accounts)
		done <- loginResult{name, admin, err}
		server.Close()
	}()
	res := <-done
	return res, transcript.String()
}

func TestLoginRegistersNewAccount(t *testing.T) {
	accounts := newTestAccounts(t)
	res, out := runLogin(t, accounts, "Hero\r\nabc\r\nsecret1\r\n")
	if res.err != nil || res.name != "Hero" {
		t.Fatalf("login = %+v", res)
	}
	if !strings.Contains(out, "password must be at least") {
		t.Fatalf("expected short password warning, got %q", out)
	}
	if !accounts.Authenticate("Hero", "secret1") {
		t.Fatalf("account was not stored")
	}
}

func TestLoginRejectsRepeatedBadPasswords(t *testing.T) {
	accounts := newTestAccounts(t)
	if err := accounts.Register("Hero", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, out := runLogin(t, accounts, "Hero\r\nnope\r\nnope\r\nnope\r\n")
	if !errors.Is(res.err, errAuthFailed) {
		t.Fatalf("expected auth failure, got %+v", res)
	}
	if strings.Count(out, "Incorrect password.") != maxPasswordAttempts {
		t.Fatalf("expected %d warnings, got %q", maxPasswordAttempts, out)
	}
}

func TestLoginReportsAdmin(t *testing.T) {
	accounts := newTestAccounts(t)
	accounts.SetAdminAccount("Boss")
	res, _ := runLogin(t, accounts, "Boss\r\nsecret1\r\n")
	if res.err != nil || !res.admin {
		t.Fatalf("expected admin login, got %+v", res)
	}
}
