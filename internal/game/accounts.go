package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultAdminAccount = "admin"

var (
	// ErrAccountNotFound is returned for operations on unknown accounts.
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

type accountRecord struct {
	ID          string          `json:"id"`
	Password    string          `json:"password"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	LastLogin   time.Time       `json:"last_login,omitempty"`
	TotalLogins int             `json:"total_logins,omitempty"`
	Channels    map[string]bool `json:"channels,omitempty"`
}

// AccountStats is the login bookkeeping kept per account.
type AccountStats struct {
	CreatedAt   time.Time
	LastLogin   time.Time
	TotalLogins int
}

// AccountManager stores credentials and the stable player id of every account.
type AccountManager struct {
	mu           sync.RWMutex
	accounts     map[string]accountRecord
	path         string
	adminAccount string
}

func NewAccountManager(path string) (*AccountManager, error) {
	manager := &AccountManager{
		accounts:     make(map[string]accountRecord),
		path:         path,
		adminAccount: defaultAdminAccount,
	}
	if err := manager.load(); err != nil {
		return nil, err
	}
	return manager, nil
}

func (a *AccountManager) SetAdminAccount(name string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		trimmed = defaultAdminAccount
	}
	a.mu.Lock()
	a.adminAccount = trimmed
	a.mu.Unlock()
}

func (a *AccountManager) IsAdmin(name string) bool {
	a.mu.RLock()
	admin := a.adminAccount
	a.mu.RUnlock()
	if admin == "" {
		admin = defaultAdminAccount
	}
	return strings.EqualFold(name, admin)
}

// load reads the accounts file and gives a fresh id to any account saved
// before ids existed, rewriting the file if it did so.
func (a *AccountManager) load() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accounts = make(map[string]accountRecord)

	data, err := os.ReadFile(a.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("read accounts file: %w", err)
	case len(data) == 0:
		return nil
	}
	if err := json.Unmarshal(data, &a.accounts); err != nil {
		return fmt.Errorf("decode accounts file: %w", err)
	}
	if a.accounts == nil {
		a.accounts = make(map[string]accountRecord)
	}

	missing := 0
	for name, record := range a.accounts {
		if _, err := uuid.Parse(record.ID); err != nil {
			record.ID = uuid.NewString()
			a.accounts[name] = record
			missing++
		}
	}
	if missing == 0 {
		return nil
	}
	return a.saveLocked()
}

func (a *AccountManager) saveLocked() error {
	return writeJSONAtomic(a.path, a.accounts)
}

// writeJSONAtomic replaces path with the indented JSON encoding of v via a
// temp file in the same directory.
func writeJSONAtomic(path string, v any) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create accounts directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "accounts-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp accounts file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write accounts file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp accounts file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}
	return nil
}

func (a *AccountManager) lookup(name string) (accountRecord, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	record, ok := a.accounts[name]
	return record, ok
}

// update applies change to the named record and persists the result.
func (a *AccountManager) update(name string, change func(*accountRecord)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	record, ok := a.accounts[name]
	if !ok {
		return ErrAccountNotFound
	}
	change(&record)
	a.accounts[name] = record
	return a.saveLocked()
}

func (a *AccountManager) Exists(name string) bool {
	_, ok := a.lookup(name)
	return ok
}

// Register creates an account with a fresh player id.
func (a *AccountManager) Register(name, pass string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, taken := a.accounts[name]; taken {
		return ErrAccountExists
	}
	a.accounts[name] = accountRecord{
		ID:        uuid.NewString(),
		Password:  string(hashed),
		CreatedAt: time.Now().UTC(),
	}
	if err := a.saveLocked(); err != nil {
		delete(a.accounts, name)
		return err
	}
	return nil
}

func (a *AccountManager) Authenticate(name, pass string) bool {
	record, ok := a.lookup(name)
	return ok && bcrypt.CompareHashAndPassword([]byte(record.Password), []byte(pass)) == nil
}

// ID returns the stable player id for an account.
func (a *AccountManager) ID(name string) (string, bool) {
	record, ok := a.lookup(name)
	return record.ID, ok
}

// Profile returns the saved channel preferences, or the defaults for an
// unknown account.
func (a *AccountManager) Profile(name string) PlayerProfile {
	record, ok := a.lookup(name)
	if !ok {
		return PlayerProfile{Channels: DefaultChannelSettings()}
	}
	return PlayerProfile{Channels: decodeChannelSettings(record.Channels)}
}

func (a *AccountManager) SaveProfile(name string, profile PlayerProfile) error {
	return a.update(name, func(r *accountRecord) {
		r.Channels = encodeChannelSettings(profile.Channels)
	})
}

// RecordLogin counts a successful login at when.
func (a *AccountManager) RecordLogin(name string, when time.Time) error {
	when = when.UTC()
	return a.update(name, func(r *accountRecord) {
		if r.CreatedAt.IsZero() {
			r.CreatedAt = when
		}
		r.LastLogin = when
		r.TotalLogins++
	})
}

func (a *AccountManager) Stats(name string) (AccountStats, bool) {
	record, ok := a.lookup(name)
	if !ok {
		return AccountStats{}, false
	}
	return AccountStats{
		CreatedAt:   record.CreatedAt,
		LastLogin:   record.LastLogin,
		TotalLogins: record.TotalLogins,
	}, true
}
