package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/adeptlearn/tutor-backend/internal/platform/apierr"
	"github.com/adeptlearn/tutor-backend/internal/requestdata"
	"github.com/adeptlearn/tutor-backend/internal/types"
)

func newAuthFixture(t *testing.T) (*fixture, AuthService) {
	t.Helper()
	f := newFixture(t)
	progress := NewProgressService(f.db, f.log, f.repos.topic, f.repos.progress)
	svc := NewAuthService(f.db, f.log, f.repos.user, f.repos.userToken, progress, "test-secret", time.Hour, 24*time.Hour)
	return f, svc
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	f, svc := newAuthFixture(t)
	ctx := context.Background()

	user := &types.User{Email: "Student@Example.com", Username: "student", Password: "hunter22"}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Email is normalized and the password is never stored in the clear.
	stored, err := f.repos.user.GetByEmail(ctx, nil, "student@example.com")
	if err != nil || stored == nil {
		t.Fatalf("load registered user: %v", err)
	}
	if stored.Password == "hunter22" {
		t.Fatalf("password stored in the clear")
	}
	if stored.Role != types.RoleUser || stored.CurrentDifficulty != types.DifficultyBasic {
		t.Fatalf("defaults not applied: %+v", stored)
	}

	pair, err := svc.LoginUser(ctx, "student@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("empty token pair: %+v", pair)
	}

	// The access token round-trips through context stamping.
	stamped, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := requestdata.GetRequestData(stamped)
	if rd == nil || rd.UserID != stored.ID || rd.Role != types.RoleUser {
		t.Fatalf("request data = %+v, want user %s", rd, stored.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	first := &types.User{Email: "dup@example.com", Password: "pw"}
	if err := svc.RegisterUser(ctx, first); err != nil {
		t.Fatalf("register: %v", err)
	}
	second := &types.User{Email: "dup@example.com", Password: "pw"}
	err := svc.RegisterUser(ctx, second)
	if apierr.StatusOf(err) != http.StatusConflict {
		t.Fatalf("want 409, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	user := &types.User{Email: "student@example.com", Password: "correct"}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.LoginUser(ctx, "student@example.com", "incorrect")
	if apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("want 401, got %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	user := &types.User{Email: "student@example.com", Password: "pw"}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := svc.LoginUser(ctx, "student@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rd := &requestdata.RequestData{RefreshToken: pair.RefreshToken}
	next, err := svc.RefreshUser(requestdata.WithRequestData(ctx, rd))
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh token not rotated")
	}

	// The old refresh token is dead after rotation.
	_, err = svc.RefreshUser(requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: pair.RefreshToken}))
	if apierr.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("want 401 for stale refresh token, got %v", err)
	}
}

func TestRegisterSeedsProgressRows(t *testing.T) {
	f, svc := newAuthFixture(t)
	ctx := context.Background()

	parent := f.mustCreateTopic(t, "Arithmetic", nil)
	f.mustCreateTopic(t, "Addition", &parent.ID)
	f.mustCreateTopic(t, "Subtraction", &parent.ID)

	user := &types.User{Email: "student@example.com", Password: "pw"}
	if err := svc.RegisterUser(ctx, user); err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, err := f.repos.user.GetByEmail(ctx, nil, "student@example.com")
	if err != nil || stored == nil {
		t.Fatalf("load user: %v", err)
	}
	rows, err := f.repos.progress.ListByUser(ctx, nil, stored.ID)
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("progress rows = %d, want one per leaf", len(rows))
	}
	for _, row := range rows {
		if row.CurrentDifficulty != types.DifficultyBasic {
			t.Fatalf("seeded difficulty = %s, want BASIC", row.CurrentDifficulty)
		}
	}
}
