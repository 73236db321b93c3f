package devapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/domain/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUserExists         = errors.New("user already exists")
	errInvalidCredentials = errors.New("invalid credentials")
)

type account struct {
	user domainauth.User
	hash []byte
}

// Users is the account registry of the development API. Passwords are kept as
// bcrypt hashes.
type Users struct {
	cost int

	mu     sync.RWMutex
	byName map[string]*account
	nextID int64
}

// NewUsers hashes and registers the seed accounts (name -> password). Accounts are
// created in name order so ids are stable.
func NewUsers(seed map[string]string, cost int) (*Users, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	u := &Users{cost: cost, byName: map[string]*account{}, nextID: 1}
	names := make([]string, 0, len(seed))
	for name := range seed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := u.Register(name, name+"@catalog.local", seed[name]); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", name, err)
		}
	}
	return u, nil
}

// Register creates an account. Usernames are case-insensitive.
func (u *Users) Register(username, email, password string) (domainauth.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("hash password: %w", err)
	}
	key := strings.ToLower(strings.TrimSpace(username))

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.byName[key]; ok {
		return domainauth.User{}, errUserExists
	}
	acc := &account{
		user: domainauth.User{ID: u.nextID, Username: strings.TrimSpace(username), Email: strings.TrimSpace(email)},
		hash: hash,
	}
	u.nextID++
	u.byName[key] = acc
	return acc.user, nil
}

// Authenticate checks the password and records the access time.
func (u *Users) Authenticate(username, password string, at time.Time) (domainauth.User, error) {
	key := strings.ToLower(strings.TrimSpace(username))
	u.mu.RLock()
	acc, ok := u.byName[key]
	u.mu.RUnlock()
	if !ok {
		// Keep timing similar for unknown users.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return domainauth.User{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return domainauth.User{}, errInvalidCredentials
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	ts := model.NewTimestamp(at.UTC())
	acc.user.LastAccess = &ts
	return acc.user, nil
}

// Lookup returns the account named username.
func (u *Users) Lookup(username string) (domainauth.User, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	acc, ok := u.byName[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return domainauth.User{}, false
	}
	return acc.user, true
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)
