package shopper

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/guiamercado/guiamercado-backend/internal/auth"
	"github.com/guiamercado/guiamercado-backend/internal/selection"
	"github.com/guiamercado/guiamercado-backend/internal/users"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
)

// SessionKey names the durable copy of the session token.
const SessionKey = "guia_mercado_session"

// TokenStore keeps the session token between runs on top of the same
// persister as the supermarket selection.
type TokenStore struct {
	persister selection.Persister
}

func NewTokenStore(p selection.Persister) *TokenStore {
	return &TokenStore{persister: p}
}

// Load returns the saved token, or "" when there is none.
func (t *TokenStore) Load() (string, error) {
	raw, err := t.persister.Load(SessionKey)
	if errors.Is(err, selection.ErrNoValue) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var saved savedSession
	if err := json.Unmarshal(raw, &saved); err != nil {
		// Unreadable copies count as logged out.
		return "", nil
	}
	return strings.TrimSpace(saved.Token), nil
}

func (t *TokenStore) Save(token string) error {
	if token == "" {
		return t.persister.Delete(SessionKey)
	}
	raw, err := json.Marshal(savedSession{Token: token})
	if err != nil {
		return err
	}
	return t.persister.Save(SessionKey, raw)
}

type savedSession struct {
	Token string `json:"token"`
}

// tokenSource is implemented by *apiclient.Client.
type tokenSource interface {
	Token() string
}

func (a *App) Signup(ctx context.Context, req auth.SignupRequest) (*users.UserDTO, error) {
	user, err := a.api.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	a.printf("account created for %s, log in to continue\n", user.Email)
	return user, nil
}

// Login opens a session and keeps its token for later runs.
func (a *App) Login(ctx context.Context, req auth.LoginRequest) (*users.UserDTO, error) {
	user, err := a.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if a.tokens != nil {
		src, ok := a.api.(tokenSource)
		if !ok || src.Token() == "" {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "login did not return a session token")
		}
		if err := a.tokens.Save(src.Token()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save session")
		}
	}
	a.printf("welcome, %s\n", user.Name)
	return user, nil
}

func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	if a.tokens != nil {
		if saveErr := a.tokens.Save(""); saveErr != nil {
			a.logg.Error(ctx, "failed to forget session token", saveErr)
		}
	}
	if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		return err
	}
	a.printf("logged out\n")
	return nil
}

func (a *App) Whoami(ctx context.Context) (*users.UserDTO, error) {
	user, err := a.api.Session(ctx)
	if err != nil {
		return nil, err
	}
	a.printf("%s <%s>\n", user.Name, user.Email)
	return user, nil
}
