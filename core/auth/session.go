package auth

import (
	"context"
	"errors"
	"fmt"

	"vigilant-console/config"
	"vigilant-console/core/gateway"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"

	"github.com/gofrs/uuid/v5"
)

// ErrNoPendingLogin means CompleteLogin arrived without a live OTP challenge
// for that email, either because BeginLogin never ran, the challenge expired,
// or too many wrong codes burned it.
var ErrNoPendingLogin = errors.New("no pending login for email")

type SessionManager struct {
	store     store.SessionStore
	gw        *gateway.Client
	encryptor *utils.Encryptor
	cfg       *config.AppConfig
	logger    *utils.Logger
	pending   *pendingLogins
}

func NewSessionManager(store store.SessionStore, gw *gateway.Client, encryptor *utils.Encryptor, cfg *config.AppConfig, logger *utils.Logger) *SessionManager {
	return &SessionManager{
		store:     store,
		gw:        gw,
		encryptor: encryptor,
		cfg:       cfg,
		logger:    logger,
		pending:   newPendingLogins(),
	}
}

// BeginLogin submits credentials upstream. A success means the platform sent
// the OTP; the login stays pending until CompleteLogin.
func (m *SessionManager) BeginLogin(ctx context.Context, email, password string) error {
	if err := utils.ValidateEmail(email); err != nil {
		return &gateway.AuthError{Message: err.Error()}
	}
	if err := utils.ValidatePassword(password); err != nil {
		return &gateway.AuthError{Message: err.Error()}
	}
	if err := m.gw.Login(ctx, email, password); err != nil {
		return err
	}
	m.pending.put(email, m.cfg.OTPPendingTTL(), utils.NowUTC())
	if m.logger != nil {
		m.logger.Printf("AUTH otp challenge issued for %s", loginKey(email))
	}
	return nil
}

// CompleteLogin exchanges the OTP for a platform token and commits the
// session. The token and the user profile land in one store write; a failure
// anywhere leaves no session behind.
func (m *SessionManager) CompleteLogin(ctx context.Context, email, otp string) (*Session, error) {
	if err := utils.ValidateOTP(otp); err != nil {
		return nil, &gateway.AuthError{Message: err.Error()}
	}
	now := utils.NowUTC()
	entry := m.pending.take(email, now, m.cfg.Security.OTPMaxAttempts)
	if entry == nil {
		return nil, ErrNoPendingLogin
	}
	token, admin, err := m.gw.VerifyAuthToken(ctx, email, otp)
	if err != nil {
		return nil, err
	}
	blob, err := m.encryptor.EncryptToBlob([]byte(token))
	if err != nil {
		return nil, fmt.Errorf("seal token: %w", err)
	}
	id := uuid.Must(uuid.NewV4()).String()
	rec := &store.SessionRecord{
		ID:         id,
		UserID:     admin.ID,
		Email:      admin.Email,
		FirstName:  admin.FirstName,
		LastName:   admin.LastName,
		Roles:      []string{admin.Role},
		BankID:     admin.BankID,
		TokenBlob:  blob,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := m.store.SaveSession(ctx, rec); err != nil {
		return nil, err
	}
	m.pending.clear(email)
	if m.logger != nil {
		m.logger.Printf("AUTH session created for %s role=%s", rec.Email, admin.Role)
	}
	return sessionFromRecord(rec), nil
}

// Resolve loads a session and enforces the local inactivity window. An idle
// session is deleted and reported as expired; the platform is not consulted.
func (m *SessionManager) Resolve(ctx context.Context, sessID string) (*store.SessionRecord, error) {
	rec, err := m.store.GetSession(ctx, sessID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, gateway.ErrSessionExpired
	}
	if utils.NowUTC().Sub(rec.LastSeenAt) > m.cfg.EffectiveInactivityTimeout() {
		_ = m.store.DeleteSession(ctx, rec.ID)
		return nil, gateway.ErrSessionExpired
	}
	return rec, nil
}

// Token returns the decrypted platform bearer token for a live session.
func (m *SessionManager) Token(rec *store.SessionRecord) (string, error) {
	plain, err := m.encryptor.DecryptBlob(rec.TokenBlob)
	if err != nil {
		return "", fmt.Errorf("unseal token: %w", err)
	}
	return string(plain), nil
}

func (m *SessionManager) Touch(ctx context.Context, sessID string) error {
	err := m.store.UpdateActivity(ctx, sessID, utils.NowUTC())
	if errors.Is(err, store.ErrConflict) {
		return gateway.ErrSessionExpired
	}
	return err
}

// Logout tears the local session down. It is idempotent: a missing or
// already-expired session logs out successfully.
func (m *SessionManager) Logout(ctx context.Context, sessID string) error {
	return m.store.DeleteSession(ctx, sessID)
}

// ExpireIdle removes sessions idle past the configured window and sweeps
// stale OTP challenges. Ran periodically by the scheduler.
func (m *SessionManager) ExpireIdle(ctx context.Context) (int64, error) {
	now := utils.NowUTC()
	m.pending.sweep(now)
	cutoff := now.Add(-m.cfg.EffectiveInactivityTimeout())
	n, err := m.store.DeleteIdleSessions(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 && m.logger != nil {
		m.logger.Printf("AUTH expired %d idle session(s)", n)
	}
	return n, nil
}

func sessionFromRecord(rec *store.SessionRecord) *Session {
	return &Session{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Email:      rec.Email,
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Roles:      rec.Roles,
		BankID:     rec.BankID,
		CreatedAt:  rec.CreatedAt,
		LastSeenAt: rec.LastSeenAt,
	}
}
