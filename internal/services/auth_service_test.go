package services

import (
	"context"
	"errors"
	"testing"

	"github.com/supabase-community/gotrue-go/types"
)

type fakeSessions struct {
	res *types.TokenResponse
	err error
}

func (f *fakeSessions) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	return f.res, f.err
}

func (f *fakeSessions) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	return f.res, f.err
}

func TestAuthenticateUser(t *testing.T) {
	t.Parallel()

	ok := &types.TokenResponse{}
	ok.AccessToken = "access"
	ok.RefreshToken = "refresh"

	tests := []struct {
		name     string
		email    string
		password string
		sessions *fakeSessions
		wantErr  bool
	}{
		{name: "valid", email: "ama@example.com", password: "correct-horse", sessions: &fakeSessions{res: ok}},
		{name: "bad email", email: "not-an-email", password: "correct-horse", sessions: &fakeSessions{res: ok}, wantErr: true},
		{name: "short password", email: "ama@example.com", password: "short", sessions: &fakeSessions{res: ok}, wantErr: true},
		{name: "provider error", email: "ama@example.com", password: "correct-horse", sessions: &fakeSessions{err: errors.New("invalid login")}, wantErr: true},
		{name: "empty token", email: "ama@example.com", password: "correct-horse", sessions: &fakeSessions{res: &types.TokenResponse{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			as := NewAuthService(tt.sessions)
			res, err := as.AuthenticateUser(context.Background(), tt.email, tt.password)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("AuthenticateUser: %v", err)
			}
			if res.AccessToken != "access" {
				t.Errorf("AccessToken = %q", res.AccessToken)
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	ok := &types.TokenResponse{}
	ok.AccessToken = "new-access"

	as := NewAuthService(&fakeSessions{res: ok})
	if _, err := as.RefreshToken(context.Background(), ""); err == nil {
		t.Error("expected an error for an empty refresh token")
	}

	res, err := as.RefreshToken(context.Background(), "refresh")
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if res.AccessToken != "new-access" {
		t.Errorf("AccessToken = %q", res.AccessToken)
	}
}
