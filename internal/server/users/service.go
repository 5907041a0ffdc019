// Package users runs the authentication workflows: register, login,
// activate, logout and refresh-token rotation.
package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/accounts"
	"github.com/dmitrijs2005/gophauth/internal/server/notify"
	"github.com/dmitrijs2005/gophauth/internal/server/sessions"
	"github.com/dmitrijs2005/gophauth/internal/server/tokens"
)

// AuthResult is returned by every workflow that issues a token pair.
type AuthResult struct {
	Tokens *tokens.TokenPair
	User   tokens.Identity
}

type Deps struct {
	Accounts *accounts.Machine
	Sessions sessions.Store
	Codec    *tokens.Codec
	Notifier notify.Sender
	Logger   logging.Logger
}

type Options struct {
	// APIURL is the public base URL activation links are built on.
	APIURL string
	// ClientURL is where transports send the browser after activation.
	ClientURL string
}

type Service struct {
	accounts  *accounts.Machine
	sessions  sessions.Store
	codec     *tokens.Codec
	notifier  notify.Sender
	logger    logging.Logger
	validate  *validator.Validate
	apiURL    string
	clientURL string
}

// credentials bounds the password twice: max counts characters, maxbytes
// keeps multi-byte input under bcrypt's 72 byte limit.
type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=3,max=32,maxbytes=72"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

func NewService(d Deps, o Options) *Service {
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Service{
		accounts:  d.Accounts,
		sessions:  d.Sessions,
		codec:     d.Codec,
		notifier:  d.Notifier,
		logger:    logger.With("module", "users"),
		validate:  newValidator(),
		apiURL:    strings.TrimRight(o.APIURL, "/"),
		clientURL: o.ClientURL,
	}
}

// Register creates an unverified account, sends its activation link and
// signs the new account in.
func (s *Service) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := s.checkCredentials(email, password); err != nil {
		return nil, err
	}

	account, err := s.accounts.Create(ctx, email, password)
	if err != nil {
		return nil, s.fail(ctx, "register", err)
	}

	link := s.ActivationURL(account.ActivationLink)
	if s.notifier != nil {
		if err := s.notifier.SendActivation(ctx, account.Email, link); err != nil {
			s.logger.Warn(ctx, "activation email not delivered", "account_id", account.ID, "error", err)
		}
	}

	return s.issue(ctx, account)
}

// Login signs in an existing account. No state changes when credentials
// are rejected.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, s.fail(ctx, "login", err)
	}
	return s.issue(ctx, account)
}

func (s *Service) Activate(ctx context.Context, link string) error {
	account, err := s.accounts.Activate(ctx, link)
	if err != nil {
		return s.fail(ctx, "activate", err)
	}
	s.logger.Info(ctx, "account activated", "account_id", account.ID)
	return nil
}

// ActivationURL builds the public link for an activation token.
func (s *Service) ActivationURL(link string) string {
	return s.apiURL + common.ActivationPath + link
}

// ActivationRedirect is the client page shown after a successful activation.
func (s *Service) ActivationRedirect() string {
	return s.clientURL
}

// Logout drops the session holding refreshToken. The token signature is
// not checked; only its presence in the store matters. A nil record means
// nothing was stored under the token.
func (s *Service) Logout(ctx context.Context, refreshToken string) (*sessions.Record, error) {
	if refreshToken == "" {
		return nil, nil
	}
	rec, err := s.sessions.Remove(ctx, refreshToken)
	if err != nil {
		return nil, s.fail(ctx, "logout", common.Internal("remove session", err))
	}
	return rec, nil
}

// Refresh rotates the session: the presented token must verify and still
// be the one stored for its account. The returned pair supersedes it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, common.NewError(common.KindUnauthorized, "refresh token is missing")
	}

	claim, ok := s.codec.VerifyRefresh(refreshToken)
	if !ok {
		return nil, common.NewError(common.KindUnauthorized, "refresh token is invalid")
	}

	accountID, err := s.sessions.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.KindUnauthorized, "session not found")
		}
		return nil, s.fail(ctx, "refresh", common.Internal("load session", err))
	}
	if accountID != claim.ID {
		return nil, common.NewError(common.KindUnauthorized, "session not found")
	}

	account, err := s.accounts.Get(ctx, claim.ID)
	if err != nil {
		if errors.Is(err, common.ErrUnknownAccount) {
			return nil, common.NewError(common.KindUnauthorized, "account no longer exists")
		}
		return nil, s.fail(ctx, "refresh", err)
	}

	return s.issue(ctx, account)
}

// ListUsers returns the public projection of every account.
func (s *Service) ListUsers(ctx context.Context) ([]tokens.Identity, error) {
	list, err := s.accounts.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list users", err)
	}
	out := make([]tokens.Identity, 0, len(list))
	for _, a := range list {
		out = append(out, identityOf(a))
	}
	return out, nil
}

// Authorize checks an access token and returns its identity claim.
func (s *Service) Authorize(accessToken string) (tokens.Identity, error) {
	if accessToken == "" {
		return tokens.Identity{}, common.NewError(common.KindUnauthorized, "access token is missing")
	}
	id, ok := s.codec.VerifyAccess(accessToken)
	if !ok {
		return tokens.Identity{}, common.NewError(common.KindUnauthorized, "access token is invalid")
	}
	return id, nil
}

func (s *Service) issue(ctx context.Context, account *accounts.Account) (*AuthResult, error) {
	id := identityOf(account)

	pair, err := s.codec.Mint(id)
	if err != nil {
		return nil, s.fail(ctx, "issue tokens", common.Internal("mint tokens", err))
	}

	if err := s.sessions.Put(ctx, id.ID, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
		return nil, s.fail(ctx, "issue tokens", common.Internal("store session", err))
	}

	return &AuthResult{Tokens: pair, User: id}, nil
}

func (s *Service) checkCredentials(email, password string) error {
	err := s.validate.Struct(credentials{Email: strings.TrimSpace(email), Password: password})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.Internal("validate input", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return common.NewError(common.KindInvalidInput, "%s", strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " is not a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes long", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// fail logs infrastructure faults with their cause; client errors pass through.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	if common.KindOf(err) == common.KindInternal {
		s.logger.Error(ctx, op+" failed", "error", err)
	}
	return err
}

func identityOf(a *accounts.Account) tokens.Identity {
	return tokens.Identity{ID: a.ID, Email: a.Email, IsActivated: a.IsActivated}
}
