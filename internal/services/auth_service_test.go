package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/seminar-service/internal/auth"
	"github.com/SAP-F-2025/seminar-service/internal/events"
	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/pending"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type authFixture struct {
	svc        AuthService
	repo       *mockRepository
	regStore   *pending.MemoryStore[RegistrationPayload]
	resetStore *pending.MemoryStore[ResetPayload]
	publisher  *events.MockEventPublisher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	repo := newMockRepository()
	regStore := pending.NewMemoryStore[RegistrationPayload](time.Minute)
	resetStore := pending.NewMemoryStore[ResetPayload](time.Minute)
	t.Cleanup(func() {
		regStore.Close()
		resetStore.Close()
	})

	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	svc := NewAuthService(repo, tokens, regStore, resetStore, nil, publisher, validator.New(), testLogger(), 10*time.Minute)
	return &authFixture{svc: svc, repo: repo, regStore: regStore, resetStore: resetStore, publisher: publisher}
}

func registerReq(email string) *validator.RegisterRequest {
	return &validator.RegisterRequest{
		FullName: "Tran Van A",
		Email:    email,
		Password: "secret123",
		Role:     models.RoleStudent,
	}
}

func (f *authFixture) registrationOTP(t *testing.T, key string) string {
	t.Helper()
	rec, err := f.regStore.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("pending registration %s not found: %v", key, err)
	}
	return rec.OTP
}

func TestRegisterVerifyLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registerReq("a@student.edu"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !resp.RequiresVerification {
		t.Error("Register() should require verification")
	}
	if resp.UserID == "" {
		t.Fatal("Register() returned empty pending key")
	}

	// No durable user yet.
	if _, err := f.repo.users.GetByEmail(ctx, "a@student.edu"); err == nil {
		t.Error("user row should not exist before verification")
	}

	code := f.registrationOTP(t, resp.UserID)
	tok, err := f.svc.VerifyOTP(ctx, &validator.VerifyOTPRequest{UserID: resp.UserID, OTP: code})
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}
	if tok.Token == "" {
		t.Error("VerifyOTP() returned empty token")
	}
	if !tok.User.EmailVerified {
		t.Error("verified user should have EmailVerified set")
	}

	// Pending record is consumed.
	if _, err := f.regStore.Get(ctx, resp.UserID); !errors.Is(err, pending.ErrNotFound) {
		t.Errorf("pending record should be deleted after verification, got err = %v", err)
	}

	published := f.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventUserRegistered {
		t.Errorf("expected one %s event, got %+v", events.EventUserRegistered, published)
	}

	login, err := f.svc.Login(ctx, &validator.LoginRequest{Email: "a@student.edu", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.User.ID != tok.User.ID {
		t.Errorf("Login() user = %s, want %s", login.User.ID, tok.User.ID)
	}
}

func TestRegisterRepeatReturnsSamePendingKey(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.svc.Register(ctx, registerReq("b@student.edu"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	second, err := f.svc.Register(ctx, registerReq("b@student.edu"))
	if err != nil {
		t.Fatalf("repeat Register() error = %v", err)
	}
	if second.UserID != first.UserID {
		t.Errorf("repeat registration key = %s, want %s", second.UserID, first.UserID)
	}
}

func TestRegisterExistingEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.repo.users.Create(ctx, &models.User{
		FullName: "Existing", Email: "taken@student.edu", Password: "x",
		Role: models.RoleStudent, EmailVerified: true,
	})

	_, err := f.svc.Register(ctx, registerReq("taken@student.edu"))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Register() error = %v, want ConflictError", err)
	}
}

func TestVerifyOTPAttemptCeiling(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, registerReq("c@student.edu"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	code := f.registrationOTP(t, resp.UserID)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i, wantRemaining := range []int{2, 1, 0} {
		_, err := f.svc.VerifyOTP(ctx, &validator.VerifyOTPRequest{UserID: resp.UserID, OTP: wrong})
		var otpErr *OTPError
		if !errors.As(err, &otpErr) {
			t.Fatalf("attempt %d: error = %v, want OTPError", i+1, err)
		}
		if otpErr.RemainingAttempts == nil || *otpErr.RemainingAttempts != wantRemaining {
			t.Errorf("attempt %d: remaining = %v, want %d", i+1, otpErr.RemainingAttempts, wantRemaining)
		}
	}

	// Attempt past the ceiling destroys the record.
	_, err = f.svc.VerifyOTP(ctx, &validator.VerifyOTPRequest{UserID: resp.UserID, OTP: wrong})
	var otpErr *OTPError
	if !errors.As(err, &otpErr) {
		t.Fatalf("final attempt: error = %v, want OTPError", err)
	}
	if otpErr.RemainingAttempts != nil {
		t.Error("final attempt should not carry a remaining-attempt count")
	}
	if _, err := f.regStore.Get(ctx, resp.UserID); !errors.Is(err, pending.ErrNotFound) {
		t.Error("pending record should be destroyed after exceeding attempts")
	}

	// The correct code is now useless too.
	if _, err := f.svc.VerifyOTP(ctx, &validator.VerifyOTPRequest{UserID: resp.UserID, OTP: code}); err == nil {
		t.Error("VerifyOTP() after destruction should fail")
	}
}

func TestVerifyOTPAlreadyVerified(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &models.User{
		FullName: "Done", Email: "done@student.edu", Password: "x",
		Role: models.RoleStudent, EmailVerified: true,
	}
	f.repo.users.Create(ctx, user)

	// Client retries verification with the durable user id.
	_, err := f.svc.VerifyOTP(ctx, &validator.VerifyOTPRequest{UserID: user.ID, OTP: "123456"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("VerifyOTP() error = %v, want ConflictError", err)
	}
}

func TestVerifyOTPSessionExpired(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.VerifyOTP(context.Background(), &validator.VerifyOTPRequest{
		UserID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", OTP: "123456",
	})
	var otpErr *OTPError
	if !errors.As(err, &otpErr) {
		t.Fatalf("VerifyOTP() error = %v, want OTPError", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("secret123")
	f.repo.users.Create(ctx, &models.User{
		FullName: "User", Email: "d@student.edu", Password: hash,
		Role: models.RoleStudent, EmailVerified: true,
	})

	// Unknown email and wrong password read identically.
	if _, err := f.svc.Login(ctx, &validator.LoginRequest{Email: "nobody@student.edu", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := f.svc.Login(ctx, &validator.LoginRequest{Email: "d@student.edu", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRoleMismatch(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("secret123")
	f.repo.users.Create(ctx, &models.User{
		FullName: "User", Email: "e@student.edu", Password: hash,
		Role: models.RoleStudent, EmailVerified: true,
	})

	teacher := models.RoleTeacher
	_, err := f.svc.Login(ctx, &validator.LoginRequest{Email: "e@student.edu", Password: "secret123", Role: &teacher})
	var perm *PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("Login() with mismatched role: error = %v, want PermissionError", err)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.ForgotPassword(ctx, &validator.ForgotPasswordRequest{Email: "ghost@student.edu"})
	if err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	if resp.ResetID != "" {
		t.Error("unknown email must not receive a reset id")
	}
	if resp.Message == "" {
		t.Error("response should carry the generic message")
	}

	// No pending reset was minted.
	_, _, err = f.resetStore.Find(ctx, func(p ResetPayload) bool { return true })
	if !errors.Is(err, pending.ErrNotFound) {
		t.Errorf("reset store should be empty, got err = %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("old-secret")
	user := &models.User{
		FullName: "User", Email: "f@student.edu", Password: hash,
		Role: models.RoleStudent, EmailVerified: true,
	}
	f.repo.users.Create(ctx, user)

	resp, err := f.svc.ForgotPassword(ctx, &validator.ForgotPasswordRequest{Email: "f@student.edu"})
	if err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	if resp.ResetID == "" {
		t.Fatal("expected a reset id for a known email")
	}

	rec, err := f.resetStore.Get(ctx, resp.ResetID)
	if err != nil {
		t.Fatalf("pending reset not found: %v", err)
	}

	if _, err := f.svc.VerifyResetOTP(ctx, &validator.VerifyResetOTPRequest{ResetID: resp.ResetID, OTP: rec.OTP}); err != nil {
		t.Fatalf("VerifyResetOTP() error = %v", err)
	}

	// The record survives verification so ResetPassword can consume it.
	if _, err := f.svc.ResetPassword(ctx, &validator.ResetPasswordRequest{
		ResetID: resp.ResetID, OTP: rec.OTP, NewPassword: "new-secret",
	}); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, err := f.resetStore.Get(ctx, resp.ResetID); !errors.Is(err, pending.ErrNotFound) {
		t.Error("pending reset should be consumed")
	}

	if _, err := f.svc.Login(ctx, &validator.LoginRequest{Email: "f@student.edu", Password: "new-secret"}); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
	if _, err := f.svc.Login(ctx, &validator.LoginRequest{Email: "f@student.edu", Password: "old-secret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() with old password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestForgotPasswordReusesPendingReset(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("secret123")
	f.repo.users.Create(ctx, &models.User{
		FullName: "User", Email: "g@student.edu", Password: hash,
		Role: models.RoleStudent, EmailVerified: true,
	})

	first, err := f.svc.ForgotPassword(ctx, &validator.ForgotPasswordRequest{Email: "g@student.edu"})
	if err != nil {
		t.Fatalf("ForgotPassword() error = %v", err)
	}
	second, err := f.svc.ForgotPassword(ctx, &validator.ForgotPasswordRequest{Email: "g@student.edu"})
	if err != nil {
		t.Fatalf("repeat ForgotPassword() error = %v", err)
	}
	if second.ResetID != first.ResetID {
		t.Errorf("repeat request reset id = %s, want %s", second.ResetID, first.ResetID)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)

	req := registerReq("not-an-email")
	_, err := f.svc.Register(context.Background(), req)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Register() error = %v, want ValidationErrors", err)
	}
}
