package services

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/staybook/internal/common"
)

const (
	maxNameLength     = 50
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes and x/crypto rejects longer input.
	maxPasswordBytes = 72

	maxEmailBytes     = 254
	maxEmailLocalPart = 64
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,19}$`)
)

// ValidationError lists every problem found in a request. It matches
// common.ErrorValidation with errors.Is.
type ValidationError struct {
	Message  string
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

// RegisterInput is the sign-up request.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// normalize trims every field except the password and lower-cases the email.
func (in RegisterInput) normalize() RegisterInput {
	return RegisterInput{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     normalizeEmail(in.Email),
		Password:  in.Password,
		Phone:     strings.TrimSpace(in.Phone),
	}
}

// validate expects a normalized input.
func (in RegisterInput) validate() error {
	var msgs []string

	msgs = appendNameErrors(msgs, in.FirstName, "First name")
	msgs = appendNameErrors(msgs, in.LastName, "Last name")

	switch {
	case in.Email == "":
		msgs = append(msgs, "Email is required")
	case !validEmail(in.Email):
		msgs = append(msgs, "Please provide a valid email")
	}

	switch {
	case in.Password == "":
		msgs = append(msgs, "Password is required")
	case utf8.RuneCountInString(in.Password) < minPasswordLength:
		msgs = append(msgs, "Password must be at least 6 characters")
	case len(in.Password) > maxPasswordBytes:
		msgs = append(msgs, "Password cannot exceed 72 bytes")
	}

	if in.Phone != "" && !phonePattern.MatchString(in.Phone) {
		msgs = append(msgs, "Please provide a valid phone number")
	}

	if len(msgs) > 0 {
		return &ValidationError{Message: "Validation error", Messages: msgs}
	}
	return nil
}

func appendNameErrors(msgs []string, v, label string) []string {
	switch {
	case v == "":
		return append(msgs, label+" is required")
	case utf8.RuneCountInString(v) > maxNameLength:
		return append(msgs, label+" cannot exceed 50 characters")
	}
	return msgs
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts the simple user@host.tld shape within the SMTP length
// limits, additionally requiring that net/mail can parse it as a bare address.
func validEmail(email string) bool {
	if len(email) > maxEmailBytes || !emailPattern.MatchString(email) {
		return false
	}
	if at := strings.LastIndexByte(email, '@'); at > maxEmailLocalPart {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
