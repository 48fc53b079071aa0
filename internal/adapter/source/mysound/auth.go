package mysound

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mmcdole/encore/internal/domain"
)

// AuthFlow implements domain.AuthFlow with an email/password prompt
type AuthFlow struct {
	logger *slog.Logger
	in     io.Reader
	out    io.Writer

	// readPassword reads a line without echo; replaced in tests
	readPassword func() (string, error)
}

// NewAuthFlow creates a login flow bound to the process terminal
func NewAuthFlow(logger *slog.Logger) *AuthFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthFlow{
		logger: logger,
		in:     os.Stdin,
		out:    os.Stdout,
		readPassword: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(b), err
		},
	}
}

// Run prompts for credentials and logs in against serverURL
func (f *AuthFlow) Run(ctx context.Context, serverURL string) (*domain.AuthResult, error) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Sign in to MySound")
	fmt.Fprintln(f.out, "━━━━━━━━━━━━━━━━━━")

	reader := bufio.NewReader(f.in)
	fmt.Fprint(f.out, "Email: ")
	email, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && email != "") {
		return nil, fmt.Errorf("failed to read email: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	fmt.Fprint(f.out, "Password: ")
	password, err := f.readPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "Signing in...")
	result, err := Login(ctx, serverURL, email, password, f.logger)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(f.out, "Signed in as %s\n", result.User.Name)
	return result, nil
}

// Login exchanges credentials for a bearer token
func Login(ctx context.Context, serverURL, email, password string, logger *slog.Logger) (*domain.AuthResult, error) {
	c := NewClient(serverURL, "", logger)

	resp, err := postData[LoginResponse](ctx, c, "/api/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		c.logger.Error("login failed", "error", err)
		return nil, err
	}
	if resp.Token == "" {
		return nil, domain.ErrAuthFailed
	}

	user := MapUser(resp.User)
	if user.Email == "" {
		user.Email = email
	}
	return &domain.AuthResult{Token: resp.Token, User: user}, nil
}
