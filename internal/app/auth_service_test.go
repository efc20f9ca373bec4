package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"markmycampus/internal/auth"
	"markmycampus/internal/repository"
	"markmycampus/internal/testutil"
)

func newAuthService(t *testing.T) (*AuthService, *auth.TokenService) {
	t.Helper()
	db := testutil.OpenInMemoryDB(t)
	tokens := auth.NewTokenService("test-secret")
	log, _ := test.NewNullLogger()
	return NewAuthService(repository.NewUserRepository(db), tokens, "letmein", log), tokens
}

func TestRegisterThenVerify(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.ID == 0 || res.User.Username != "alice" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if res.User.PasswordHash == "secret1" {
		t.Fatalf("password stored in plaintext")
	}

	p, err := tokens.Verify(res.Token, auth.RoleUser)
	if err != nil {
		t.Fatalf("registration token: %v", err)
	}
	if u := p.(auth.UserPrincipal); u.ID != res.User.ID {
		t.Fatalf("token identity %+v does not match user %d", u, res.User.ID)
	}

	user, err := svc.Verify(ctx, "alice", "secret1")
	if err != nil || user == nil || user.ID != res.User.ID {
		t.Fatalf("Verify: user=%+v err=%v", user, err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"missing username", RegisterInput{Password: "secret1"}, ErrMissingCredentials},
		{"blank username", RegisterInput{Username: "  ", Password: "secret1"}, ErrMissingCredentials},
		{"missing password", RegisterInput{Username: "bob"}, ErrMissingCredentials},
		{"short password", RegisterInput{Username: "bob", Password: "12345"}, ErrPasswordTooShort},
		{"password over bcrypt limit", RegisterInput{Username: "bob", Password: strings.Repeat("p", 80)}, ErrPasswordTooLong},
		{"long username", RegisterInput{Username: strings.Repeat("u", 65), Password: "secret1"}, ErrUsernameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if Classify(err) != KindValidation {
				t.Fatalf("expected validation kind for %v", err)
			}
		})
	}
}

func TestRegister_LengthBoundaries(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	username := strings.Repeat("ü", 64)
	password := strings.Repeat("p", 72)
	res, err := svc.Register(ctx, RegisterInput{Username: username, Password: password})
	if err != nil {
		t.Fatalf("Register at limits: %v", err)
	}
	if user, err := svc.Verify(ctx, username, password); err != nil || user == nil || user.ID != res.User.ID {
		t.Fatalf("Verify at limits: user=%+v err=%v", user, err)
	}
}

func TestRegister_DuplicateIsConflict(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "carol", Password: "first-pass"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, pw := range []string{"first-pass", "another-pass"} {
		_, err := svc.Register(ctx, RegisterInput{Username: "carol", Password: pw})
		if !errors.Is(err, ErrUsernameExists) || Classify(err) != KindConflict {
			t.Fatalf("duplicate with %q: got %v", pw, err)
		}
	}
}

func TestLogin_DoesNotRevealWhichPartFailed(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "dave", Password: "correct-horse"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, errUnknown := svc.Login(ctx, LoginInput{Username: "nobody", Password: "correct-horse"})
	_, errWrong := svc.Login(ctx, LoginInput{Username: "dave", Password: "battery-staple"})
	if !errors.Is(errUnknown, ErrInvalidCredential) || !errors.Is(errWrong, ErrInvalidCredential) {
		t.Fatalf("expected generic credential error, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("messages differ: %q vs %q", errUnknown, errWrong)
	}

	if _, err := svc.Login(ctx, LoginInput{Username: "dave"}); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("missing password: got %v", err)
	}

	res, err := svc.Login(ctx, LoginInput{Username: "dave", Password: "correct-horse"})
	if err != nil || res.Token == "" {
		t.Fatalf("Login: %+v err=%v", res, err)
	}
}

func TestAdminLogin(t *testing.T) {
	svc, tokens := newAuthService(t)

	if _, err := svc.AdminLogin(""); !errors.Is(err, ErrMissingAdminPassword) {
		t.Fatalf("empty password: got %v", err)
	}
	if _, err := svc.AdminLogin("wrong"); !errors.Is(err, ErrInvalidAdminPassword) || Classify(err) != KindAuth {
		t.Fatalf("wrong password: got %v", err)
	}

	tok, err := svc.AdminLogin("letmein")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	if _, err := tokens.Verify(tok, auth.RoleAdmin); err != nil {
		t.Fatalf("admin token rejected: %v", err)
	}
}
