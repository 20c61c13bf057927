package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/seminar-service/internal/auth"
	"github.com/SAP-F-2025/seminar-service/internal/events"
	"github.com/SAP-F-2025/seminar-service/internal/mailer"
	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/pending"
	"github.com/SAP-F-2025/seminar-service/internal/repositories"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

type authService struct {
	repo       repositories.Repository
	tokens     *auth.TokenIssuer
	regStore   pending.Store[RegistrationPayload]
	resetStore pending.Store[ResetPayload]
	bus        *events.Bus
	publisher  events.EventPublisher
	validator  *validator.Validator
	logger     utils.Logger
	otpTTL     time.Duration
}

func NewAuthService(
	repo repositories.Repository,
	tokens *auth.TokenIssuer,
	regStore pending.Store[RegistrationPayload],
	resetStore pending.Store[ResetPayload],
	bus *events.Bus,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger utils.Logger,
	otpTTL time.Duration,
) AuthService {
	return &authService{
		repo:       repo,
		tokens:     tokens,
		regStore:   regStore,
		resetStore: resetStore,
		bus:        bus,
		publisher:  publisher,
		validator:  v,
		logger:     logger,
		otpTTL:     otpTTL,
	}
}

func (s *authService) Register(ctx context.Context, req *validator.RegisterRequest) (*RegisterResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.User().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, NewConflictError("Email already registered")
	}

	// At most one live pending registration per email: a repeat submission
	// resumes the existing verification instead of minting a second code.
	key, _, err := s.regStore.Find(ctx, func(p RegistrationPayload) bool { return p.Email == email })
	if err == nil {
		return &RegisterResponse{
			UserID:               key,
			Email:                email,
			RequiresVerification: true,
			Message:              "Registration already pending. Check your email for the verification code.",
		}, nil
	}
	if !errors.Is(err, pending.ErrNotFound) {
		return nil, fmt.Errorf("failed to check pending registrations: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	payload := RegistrationPayload{
		FullName:       strings.TrimSpace(req.FullName),
		Email:          email,
		PasswordHash:   hash,
		Role:           req.Role,
		RollNumber:     req.RollNumber,
		Department:     req.Department,
		Year:           req.Year,
		Specialization: req.Specialization,
	}

	key, code, err := s.regStore.Create(ctx, payload, s.otpTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pending registration: %w", err)
	}

	s.sendEmail(mailer.VerificationEmail(email, payload.FullName, code, s.otpMinutes()))
	s.logger.Debug("registration otp issued", "email", email, "otp", code)

	return &RegisterResponse{
		UserID:               key,
		Email:                email,
		RequiresVerification: true,
		Message:              "Registration received. Check your email for the verification code.",
	}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *validator.VerifyOTPRequest) (*TokenResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	result, err := s.regStore.Verify(ctx, req.UserID, req.OTP)
	if errors.Is(err, pending.ErrNotFound) {
		return nil, s.missingRegistration(ctx, req.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify otp: %w", err)
	}

	switch result.Status {
	case pending.VerifyExpired:
		return nil, NewOTPError("Verification code expired, please register again")
	case pending.VerifyMaxAttempts:
		return nil, NewOTPError("Maximum verification attempts exceeded, please register again")
	case pending.VerifyInvalid:
		return nil, NewOTPAttemptError("Invalid verification code", result.RemainingAttempts)
	}

	p := result.Record.Payload
	user := &models.User{
		FullName:       p.FullName,
		Email:          p.Email,
		Password:       p.PasswordHash,
		Role:           p.Role,
		RollNumber:     p.RollNumber,
		Department:     p.Department,
		Year:           p.Year,
		Specialization: p.Specialization,
		EmailVerified:  true,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			_ = s.regStore.Delete(ctx, req.UserID)
			return nil, NewConflictError("Email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	_ = s.regStore.Delete(ctx, req.UserID)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.sendEmail(mailer.WelcomeEmail(user.Email, user.FullName))
	s.publishEvent(ctx, events.EventUserRegistered, map[string]any{
		"userId": user.ID,
		"email":  user.Email,
		"role":   user.Role,
	})
	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	return &TokenResponse{Token: token, User: user}, nil
}

func (s *authService) ResendOTP(ctx context.Context, req *validator.ResendOTPRequest) (*MessageResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	rec, err := s.regStore.Get(ctx, req.UserID)
	if errors.Is(err, pending.ErrNotFound) {
		return nil, s.missingRegistration(ctx, req.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending registration: %w", err)
	}
	if rec.Expired(time.Now()) {
		_ = s.regStore.Delete(ctx, req.UserID)
		return nil, NewOTPError("Verification session expired, please register again")
	}

	code, err := s.regStore.RegenerateOTP(ctx, req.UserID, s.otpTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate otp: %w", err)
	}

	s.sendEmail(mailer.VerificationEmail(rec.Payload.Email, rec.Payload.FullName, code, s.otpMinutes()))
	s.logger.Debug("registration otp reissued", "email", rec.Payload.Email, "otp", code)

	return &MessageResponse{Message: "A new verification code has been sent to your email."}, nil
}

func (s *authService) Login(ctx context.Context, req *validator.LoginRequest) (*TokenResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.User().GetByEmail(ctx, email)
	if repositories.IsNotFoundError(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := auth.CheckPassword(req.Password, user.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to check password: %w", err)
	}

	if req.Role != nil && *req.Role != user.Role {
		return nil, NewPermissionError(user.ID, "session", "login", "account role does not match the requested role")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &TokenResponse{Token: token, User: user}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *validator.ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// The response never reveals whether the email belongs to an account.
	generic := "If an account exists for that email, a password reset code has been sent."

	user, err := s.repo.User().GetByEmail(ctx, email)
	if repositories.IsNotFoundError(err) {
		return &ForgotPasswordResponse{Message: generic}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if key, rec, err := s.resetStore.Find(ctx, func(p ResetPayload) bool { return p.Email == email }); err == nil {
		if !rec.Expired(time.Now()) {
			code, err := s.resetStore.RegenerateOTP(ctx, key, s.otpTTL)
			if err != nil {
				return nil, fmt.Errorf("failed to regenerate reset otp: %w", err)
			}
			s.sendEmail(mailer.ResetEmail(user.Email, user.FullName, code, s.otpMinutes()))
			s.logger.Debug("reset otp reissued", "email", email, "otp", code)
			return &ForgotPasswordResponse{Message: generic, ResetID: key}, nil
		}
		_ = s.resetStore.Delete(ctx, key)
	} else if !errors.Is(err, pending.ErrNotFound) {
		return nil, fmt.Errorf("failed to check pending resets: %w", err)
	}

	key, code, err := s.resetStore.Create(ctx, ResetPayload{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	}, s.otpTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pending reset: %w", err)
	}

	s.sendEmail(mailer.ResetEmail(user.Email, user.FullName, code, s.otpMinutes()))
	s.logger.Debug("reset otp issued", "email", email, "otp", code)

	return &ForgotPasswordResponse{Message: generic, ResetID: key}, nil
}

func (s *authService) VerifyResetOTP(ctx context.Context, req *validator.VerifyResetOTPRequest) (*MessageResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	if _, err := s.checkResetOTP(ctx, req.ResetID, req.OTP); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "Code verified. You can now set a new password."}, nil
}

func (s *authService) ResendResetOTP(ctx context.Context, req *validator.ResendResetOTPRequest) (*MessageResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	rec, err := s.resetStore.Get(ctx, req.ResetID)
	if errors.Is(err, pending.ErrNotFound) {
		return nil, NewOTPError("Reset session expired, please request a new code")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending reset: %w", err)
	}
	if rec.Expired(time.Now()) {
		_ = s.resetStore.Delete(ctx, req.ResetID)
		return nil, NewOTPError("Reset session expired, please request a new code")
	}

	code, err := s.resetStore.RegenerateOTP(ctx, req.ResetID, s.otpTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate reset otp: %w", err)
	}

	s.sendEmail(mailer.ResetEmail(rec.Payload.Email, rec.Payload.FullName, code, s.otpMinutes()))
	s.logger.Debug("reset otp reissued", "email", rec.Payload.Email, "otp", code)

	return &MessageResponse{Message: "A new password reset code has been sent to your email."}, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *validator.ResetPasswordRequest) (*MessageResponse, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	payload, err := s.checkResetOTP(ctx, req.ResetID, req.OTP)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().UpdatePassword(ctx, payload.UserID, hash); err != nil {
		if repositories.IsNotFoundError(err) {
			_ = s.resetStore.Delete(ctx, req.ResetID)
			return nil, NewNotFoundError("user", payload.UserID)
		}
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	_ = s.resetStore.Delete(ctx, req.ResetID)

	s.sendEmail(mailer.ResetConfirmationEmail(payload.Email, payload.FullName))
	s.logger.Info("password reset completed", "user_id", payload.UserID)

	return &MessageResponse{Message: "Password updated. You can now sign in with your new password."}, nil
}

// checkResetOTP runs one verification attempt against the reset store and
// translates the outcome. On success the record is left in place so the same
// code still works for the follow-up ResetPassword call.
func (s *authService) checkResetOTP(ctx context.Context, resetID, code string) (*ResetPayload, error) {
	result, err := s.resetStore.Verify(ctx, resetID, code)
	if errors.Is(err, pending.ErrNotFound) {
		return nil, NewOTPError("Reset session expired, please request a new code")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify reset otp: %w", err)
	}

	switch result.Status {
	case pending.VerifyExpired:
		return nil, NewOTPError("Reset code expired, please request a new code")
	case pending.VerifyMaxAttempts:
		return nil, NewOTPError("Maximum attempts exceeded, please request a new code")
	case pending.VerifyInvalid:
		return nil, NewOTPAttemptError("Invalid reset code", result.RemainingAttempts)
	}
	return &result.Record.Payload, nil
}

// missingRegistration distinguishes a verification key that never existed (or
// expired) from a durable user id sent by a client retrying verification
// after it already succeeded.
func (s *authService) missingRegistration(ctx context.Context, key string) error {
	if _, err := uuid.Parse(key); err == nil {
		if user, err := s.repo.User().GetByID(ctx, key); err == nil && user.EmailVerified {
			return NewConflictError("Email already verified, please login")
		}
	}
	return NewOTPError("Verification session expired, please register again")
}

func (s *authService) sendEmail(msg mailer.Message) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(events.TopicEmailSend, msg); err != nil {
		s.logger.Warn("failed to enqueue email", "to", msg.To, "subject", msg.Subject, "error", err)
	}
}

func (s *authService) publishEvent(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}

func (s *authService) otpMinutes() int {
	return int(s.otpTTL / time.Minute)
}
