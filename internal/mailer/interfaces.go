package mailer

// Service delivers outbound mail. Callers treat delivery as best-effort;
// the password-reset flow never fails because mail could not be sent.
type Service interface {
	SendPasswordResetEmail(toEmail, toName, resetURL, token string) error
}
