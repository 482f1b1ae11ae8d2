package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hemalytics/labd/pkg/lab/application/model"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Session struct {
	User      string
	Role      model.Role
	ExpiresAt time.Time
}

// Manager keeps configured accounts and in-memory sessions keyed by opaque
// tokens. Sessions expire after the configured TTL.
type Manager struct {
	accounts map[string]model.Account
	ttl      time.Duration

	mu       sync.Mutex
	sessions map[string]Session
}

func NewManager(accounts []model.Account, ttl time.Duration) *Manager {
	accountMap := make(map[string]model.Account, len(accounts))
	for _, account := range accounts {
		accountMap[account.Name] = account
	}
	return &Manager{
		accounts: accountMap,
		ttl:      ttl,
		sessions: make(map[string]Session),
	}
}

func (m *Manager) Login(name, password string) (string, Session, error) {
	account, ok := m.accounts[name]
	if !ok || account.Password != password {
		return "", Session{}, ErrInvalidCredentials
	}
	session := Session{
		User:      name,
		Role:      account.Role,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = session
	m.mu.Unlock()
	return token, session, nil
}

func (m *Manager) Logout(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

func (m *Manager) Session(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, false
	}
	return session, true
}
