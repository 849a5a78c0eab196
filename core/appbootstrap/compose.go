package appbootstrap

import (
	"database/sql"

	"vigilant-console/api"
	"vigilant-console/config"
	"vigilant-console/core/auth"
	"vigilant-console/core/gateway"
	"vigilant-console/core/notifications"
	"vigilant-console/core/rbac"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"
	"vigilant-console/core/workflow"
)

type runtimeComposition struct {
	serverDeps api.ServerDeps
	sessions   store.SessionStore
	workers    []api.BackgroundWorker
}

func composeRuntime(cfg *config.AppConfig, db *sql.DB, logger *utils.Logger) (*runtimeComposition, error) {
	tokenKey := cfg.TokenKey
	if tokenKey == "" {
		// Without an operator key the sessions only survive this process:
		// a restart forces a fresh login instead of exposing tokens.
		random, err := utils.RandString(32)
		if err != nil {
			return nil, err
		}
		tokenKey = random
		if logger != nil {
			logger.Printf("no token key configured, sessions will not survive restarts")
		}
	}
	encryptor, err := utils.NewEncryptorFromString(tokenKey)
	if err != nil {
		return nil, err
	}

	sessions := store.NewSessionsStore(db)
	workspace := store.NewWorkspaceStore(db)
	gw := gateway.NewClient(cfg, logger)
	sessionManager := auth.NewSessionManager(sessions, gw, encryptor, cfg, logger)
	coordinator := workflow.NewCoordinator(gw, sessionManager, workspace, logger)
	notificationsSvc := notifications.NewService(gw, sessionManager, logger)
	poller := notifications.NewPoller(cfg.Scheduler, notificationsSvc, sessions, logger)
	idleSweeper := auth.NewIdleSweeper(cfg.Scheduler, sessionManager, logger)
	policy := rbac.DefaultPolicy()

	return &runtimeComposition{
		serverDeps: api.ServerDeps{
			Sessions:       sessions,
			SessionManager: sessionManager,
			Coordinator:    coordinator,
			Notifications:  notificationsSvc,
			Poller:         poller,
			Gateway:        gw,
			Policy:         policy,
		},
		sessions: sessions,
		workers:  []api.BackgroundWorker{idleSweeper, poller},
	}, nil
}
