// Package mailer delivers outbound email. Delivery is always best-effort:
// OTP codes have a fallback channel (the console mailer and operator logs),
// so no request outcome ever depends on a provider being reachable.
package mailer

import (
	"context"
	"fmt"
)

// Message is a single outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"` // text/html
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// VerificationEmail carries the registration OTP.
func VerificationEmail(to, name, otpCode string, ttlMinutes int) Message {
	return Message{
		To:      to,
		Subject: "Verify your email address",
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your verification code is <b>%s</b>.</p><p>The code expires in %d minutes.</p>",
			name, otpCode, ttlMinutes),
	}
}

// WelcomeEmail is sent once after successful verification.
func WelcomeEmail(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to the seminar portal",
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your account is verified. You can now sign in and manage your seminar work.</p>",
			name),
	}
}

// ResetEmail carries the password reset OTP.
func ResetEmail(to, name, otpCode string, ttlMinutes int) Message {
	return Message{
		To:      to,
		Subject: "Password reset code",
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your password reset code is <b>%s</b>.</p><p>The code expires in %d minutes. If you did not request a reset, ignore this email.</p>",
			name, otpCode, ttlMinutes),
	}
}

// ResetConfirmationEmail is sent after a successful password change.
func ResetConfirmationEmail(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Your password was changed",
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your password was changed. If this was not you, contact an administrator immediately.</p>",
			name),
	}
}
