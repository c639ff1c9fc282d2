package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/google/uuid"

	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/repos"
	"github.com/skillforge/skillforge-backend/internal/testutil"
	"github.com/skillforge/skillforge-backend/internal/types"
)

func newUserFixture(t *testing.T) (UserService, repos.UserRepo, *types.User) {
	t.Helper()
	db := testutil.NewDB(t)
	log := testutil.NewLogger(t)
	userRepo := repos.NewUserRepo(db, log)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &types.User{
		ID:            uuid.New(),
		Username:      "mira",
		PasswordHash:  string(hash),
		Name:          "Mira",
		SkillsLearned: []types.SkillLearned{},
		Preferences:   datatypes.NewJSONType(types.UserPreferences{DifficultyPreference: "Beginner"}),
	}
	if _, err := userRepo.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewUserService(db, log, userRepo), userRepo, user
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, user := newUserFixture(t)

	name := "Mira K"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Mira K" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Preferences.Data().DifficultyPreference != "Beginner" {
		t.Fatalf("untouched preferences mutated: %+v", updated.Preferences.Data())
	}

	prefs := types.UserPreferences{DifficultyPreference: "Advanced"}
	updated, err = svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{Preferences: &prefs})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if updated.Preferences.Data().DifficultyPreference != "Advanced" {
		t.Fatalf("preferences not updated: %+v", updated.Preferences.Data())
	}
	if updated.Name != "Mira K" {
		t.Fatalf("name reset by preference update: %q", updated.Name)
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc, _, _ := newUserFixture(t)
	name := "x"
	if _, err := svc.UpdateProfile(context.Background(), uuid.New(), ProfileUpdate{Name: &name}); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, userRepo, user := newUserFixture(t)

	if err := svc.ChangePassword(context.Background(), user.ID, "wrongwrong", "newpassword1"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("wrong current password: got %v, want unauthorized", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "hunter2hunter2", "short"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("short new password: got %v, want invalid argument", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "hunter2hunter2", "newpassword1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	stored, err := userRepo.GetByID(context.Background(), nil, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpassword1")); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}
}
