package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/repos"
	"github.com/skillforge/skillforge-backend/internal/requestdata"
	"github.com/skillforge/skillforge-backend/internal/testutil"
	"github.com/skillforge/skillforge-backend/internal/types"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	db := testutil.NewDB(t)
	log := testutil.NewLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	userTokenRepo := repos.NewUserTokenRepo(db, log)
	return NewAuthService(db, log, userRepo, userTokenRepo, "test-secret", time.Hour, 24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)

	user, err := svc.RegisterUser(context.Background(), "Mira ", "hunter2hunter2", "Mira", types.UserPreferences{DifficultyPreference: "Beginner"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "mira" {
		t.Fatalf("username not normalized: %q", user.Username)
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Fatalf("password stored in clear")
	}

	access, refresh, err := svc.LoginUser(context.Background(), "MIRA", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("empty tokens")
	}

	ctx, err := svc.SetContextFromToken(context.Background(), access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID != user.ID {
		t.Fatalf("request data user mismatch: %+v", rd)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthFixture(t)
	if _, err := svc.RegisterUser(context.Background(), "mira", "hunter2hunter2", "Mira", types.UserPreferences{}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.RegisterUser(context.Background(), "mira", "otherpassword", "Other", types.UserPreferences{}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("duplicate register: got %v, want invalid argument", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newAuthFixture(t)
	if _, err := svc.RegisterUser(context.Background(), "mira", "short", "Mira", types.UserPreferences{}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("got %v, want invalid argument", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthFixture(t)
	if _, err := svc.RegisterUser(context.Background(), "mira", "hunter2hunter2", "Mira", types.UserPreferences{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.LoginUser(context.Background(), "mira", "wrongwrong"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("got %v, want unauthorized", err)
	}
	if _, _, err := svc.LoginUser(context.Background(), "ghost", "hunter2hunter2"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("unknown user: got %v, want unauthorized", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc := newAuthFixture(t)
	if _, err := svc.RegisterUser(context.Background(), "mira", "hunter2hunter2", "Mira", types.UserPreferences{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	access, refresh, err := svc.LoginUser(context.Background(), "mira", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		TokenString:  access,
		RefreshToken: refresh,
	})
	newAccess, newRefresh, err := svc.RefreshUser(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if newRefresh == refresh {
		t.Fatalf("refresh token not rotated")
	}
	if newAccess == "" {
		t.Fatalf("empty access token")
	}

	// Old refresh token is burned.
	if _, _, err := svc.RefreshUser(ctx); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("reused refresh token: got %v, want unauthorized", err)
	}
}

func TestLogoutDeletesTokens(t *testing.T) {
	svc := newAuthFixture(t)
	user, err := svc.RegisterUser(context.Background(), "mira", "hunter2hunter2", "Mira", types.UserPreferences{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, refresh, err := svc.LoginUser(context.Background(), "mira", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: user.ID})
	if err := svc.LogoutUser(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	refreshCtx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{RefreshToken: refresh})
	if _, _, err := svc.RefreshUser(refreshCtx); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("refresh after logout: got %v, want unauthorized", err)
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	svc := newAuthFixture(t)
	if _, err := svc.SetContextFromToken(context.Background(), "not-a-jwt"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("got %v, want unauthorized", err)
	}
}

func TestSetContextFromTokenEmptyIsPassthrough(t *testing.T) {
	svc := newAuthFixture(t)
	ctx, err := svc.SetContextFromToken(context.Background(), "")
	if err != nil {
		t.Fatalf("empty token: %v", err)
	}
	if rd := requestdata.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
		t.Fatalf("unexpected request data: %+v", rd)
	}
}
