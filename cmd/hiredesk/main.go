// Command hiredesk is a minimal console front end for the session engine:
// it bootstraps from the persisted credential, runs one operation, and
// prints the resulting session state. The desktop view layer drives the
// same hooks.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/hiredesk-session/internal/authclient"
	"github.com/spec-kit/hiredesk-session/internal/config"
	"github.com/spec-kit/hiredesk-session/internal/domain"
	"github.com/spec-kit/hiredesk-session/internal/guard"
	"github.com/spec-kit/hiredesk-session/internal/observability"
	"github.com/spec-kit/hiredesk-session/internal/session"
	"github.com/spec-kit/hiredesk-session/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	credentials := newStore(cfg, logger)
	manager := session.NewManager(session.Dependencies{
		Store:  credentials,
		Auth:   authclient.New(cfg.AuthService),
		Logger: logger,
	})

	state := manager.Bootstrap(ctx)

	if len(os.Args) < 2 {
		printState(state)
		return
	}

	switch os.Args[1] {
	case "status":
		printState(manager.Current())

	case "signin":
		if len(os.Args) != 4 {
			log.Fatal("usage: hiredesk signin <username> <password>")
		}
		identity, err := manager.SignIn(ctx, os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("signin failed: %v", err)
		}
		fmt.Printf("signed in as %s (%s)\n", identity.Username, identity.Role)

	case "signup":
		if len(os.Args) < 7 {
			log.Fatal("usage: hiredesk signup <fio> <username> <email> <password> <role> [company]")
		}
		req := authclient.SignUpRequest{
			FullName: os.Args[2],
			Username: os.Args[3],
			Email:    os.Args[4],
			Password: os.Args[5],
			Role:     domain.Role(os.Args[6]),
		}
		if len(os.Args) > 7 {
			req.CompanyName = os.Args[7]
		}
		result, err := manager.SignUp(ctx, req)
		if err != nil {
			log.Fatalf("signup failed: %v", err)
		}
		switch result.Outcome {
		case session.SignUpFull:
			fmt.Printf("registered and signed in as %s\n", result.Identity.Username)
		case session.SignUpPartial:
			fmt.Println("registered; sign in to start a session")
		}

	case "logout":
		if err := manager.Logout(ctx); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("logged out")

	case "route":
		if len(os.Args) != 3 {
			log.Fatal("usage: hiredesk route <path>")
		}
		decision := guard.NewTable().Decide(os.Args[2], manager.Current())
		if decision.Render() {
			fmt.Println("render")
		} else {
			fmt.Printf("redirect to %s\n", decision.Redirect)
		}

	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}
}

func newStore(cfg *config.Config, logger *zap.Logger) store.Store {
	if cfg.Store.Backend == config.StoreBackendRedis {
		return store.NewRedisStore(cfg.Redis, cfg.Store.RedisKey, logger)
	}
	return store.NewFileStore(cfg.Store.FilePath)
}

func printState(state domain.SessionState) {
	if !state.IsAuthenticated() {
		fmt.Println("unauthenticated")
		return
	}
	id := state.Identity
	fmt.Printf("authenticated: %s <%s> role=%s\n", id.Username, id.Email, id.Role)
}
