package auth

import (
	"TradeBudgetSaas/internal/logger"
	"TradeBudgetSaas/internal/serviceiface"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

type UserSession struct {
	SessionID     string
	UserID        string
	Name          string
	Email         string
	Role          string
	LastLoginTime string
	ClientIP      string
	IsLoggedIn    bool
}

type AuthService struct {
	db             *sql.DB
	maxUsers       int
	sessionTimeout time.Duration
	users          map[string]*UserSession
	userPointers   map[string]*UserSession
	mu             sync.Mutex
	stopCh         chan struct{}
}

func NewAuthService(db *sql.DB, maxUsers, sessionTimeoutMinutes int) serviceiface.Service {
	if maxUsers <= 0 {
		maxUsers = 100
	}
	if sessionTimeoutMinutes <= 0 {
		sessionTimeoutMinutes = 480
	}
	return &AuthService{
		db:             db,
		maxUsers:       maxUsers,
		sessionTimeout: time.Duration(sessionTimeoutMinutes) * time.Minute,
		users:          make(map[string]*UserSession),
		userPointers:   make(map[string]*UserSession),
		stopCh:         make(chan struct{}),
	}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	go a.sessionCleaner()
	return nil
}

func (a *AuthService) Stop() error {
	close(a.stopCh)
	return nil
}

func (a *AuthService) Login(username, password, clientIP string) (*UserSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, session := range a.users {
		if session.Email == username && session.IsLoggedIn {
			session.LastLoginTime = time.Now().Format(time.RFC3339)
			session.ClientIP = clientIP
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("User %s re-logged in, returning existing session", username))
			}
			return session, nil
		}
	}

	if len(a.users) >= a.maxUsers {
		return nil, errors.New("maximum concurrent users reached")
	}

	var (
		userID, name, email string
		role                sql.NullString
	)
	query := `
    SELECT u.id, u.employee_name, u.email, r.name
    FROM users u
    LEFT JOIN user_roles ur ON u.id = ur.user_id
    LEFT JOIN roles r ON ur.role_id = r.id
    WHERE u.email = $1 AND u.password = $2 AND UPPER(u.status) = 'ACTIVE'
    `
	if err := a.db.QueryRow(query, username, password).Scan(&userID, &name, &email, &role); err != nil {
		return nil, errors.New("invalid credentials or user not found")
	}

	session := &UserSession{
		SessionID:     generateSessionID(),
		UserID:        userID,
		Name:          name,
		Email:         email,
		Role:          role.String,
		LastLoginTime: time.Now().Format(time.RFC3339),
		ClientIP:      clientIP,
		IsLoggedIn:    true,
	}
	a.users[session.SessionID] = session
	a.userPointers[userID] = session

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("User logged in: " + username)
	}
	return session, nil
}

func (a *AuthService) Logout(sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	session, exists := a.users[sessionID]
	if !exists {
		return errors.New("session not found")
	}
	delete(a.users, sessionID)
	delete(a.userPointers, session.UserID)

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("User logged out: " + session.UserID)
	}
	return nil
}

func (a *AuthService) GetActiveSessions() []*UserSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessions := make([]*UserSession, 0, len(a.users))
	for _, s := range a.users {
		sessions = append(sessions, s)
	}
	return sessions
}

// FindSessionByUserID resolves the active session for a user id. Handlers
// use it to map the user_id carried in request bodies to an identity.
func (a *AuthService) FindSessionByUserID(userID string) (*UserSession, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.userPointers[userID]
	if !ok || !s.IsLoggedIn {
		return nil, false
	}
	s.LastLoginTime = time.Now().Format(time.RFC3339)
	return s, true
}

// CleanupExpiredSessions evicts sessions idle past the configured timeout.
func (a *AuthService) CleanupExpiredSessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	evicted := 0
	for id, s := range a.users {
		last, err := time.Parse(time.RFC3339, s.LastLoginTime)
		if err != nil || time.Since(last) > a.sessionTimeout {
			delete(a.users, id)
			delete(a.userPointers, s.UserID)
			evicted++
		}
	}
	return evicted
}

func (a *AuthService) sessionCleaner() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if n := a.CleanupExpiredSessions(); n > 0 && logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Evicted %d expired sessions", n))
			}
		}
	}
}

func generateSessionID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

var globalAuthService *AuthService

// SetGlobalAuthService sets the global AuthService instance
func SetGlobalAuthService(svc *AuthService) {
	globalAuthService = svc
}

// GetActiveSessions returns active sessions from the global AuthService
func GetActiveSessions() []*UserSession {
	if globalAuthService == nil {
		return nil
	}
	return globalAuthService.GetActiveSessions()
}

// FindSessionByUserID resolves a user id against the global AuthService.
func FindSessionByUserID(userID string) (*UserSession, bool) {
	if globalAuthService == nil {
		return nil, false
	}
	return globalAuthService.FindSessionByUserID(userID)
}
