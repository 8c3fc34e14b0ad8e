package session

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/storage"
)

// GuestToken stands in for both tokens while browsing as a guest.
const GuestToken = "guest-demo-token"

// Persisted keys.
const (
	KeyAccessToken       = "accessToken"
	KeyIDToken           = "idToken"
	KeyGuestMode         = "guestMode"
	KeyUserRole          = "userRole"
	KeyPreferredLanguage = "preferredLanguage"
)

// Languages the interface can be shown in.
const (
	LanguageEnglish = "EN"
	LanguageSpanish = "ES"
)

// roleClaim is where the identity provider puts the user's role.
const roleClaim = "custom:role"

var (
	ErrAuthentication  = errors.New("authentication failed")
	ErrNoToken         = errors.New("no valid authentication token found, please log in again")
	ErrUnknownLanguage = errors.New("unsupported language")
)

// Tokens is what an identity provider hands back after sign-in or refresh.
type Tokens struct {
	IDToken     string
	AccessToken string
}

// Authenticator talks to the identity provider.
type Authenticator interface {
	SignIn(ctx context.Context, username, password string) (Tokens, error)
	Refresh(ctx context.Context, force bool) (Tokens, error)
}

// Context owns who the user is and how they want to be addressed. Every read
// goes through the backing store so separate commands see the same state.
type Context struct {
	store  storage.Store
	auth   Authenticator
	now    func() time.Time
	logger zerolog.Logger
}

// Open binds a context to its store. auth may be nil when tokens are supplied
// out of band through SetTokens.
func Open(store storage.Store, auth Authenticator) *Context {
	return &Context{
		store:  store,
		auth:   auth,
		now:    time.Now,
		logger: logging.Component("session"),
	}
}

// EnterGuestMode switches to the demo identity for role.
func (c *Context) EnterGuestMode(role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return errors.New("guest mode needs a role")
	}
	for key, value := range map[string]string{
		KeyGuestMode:   "true",
		KeyIDToken:     GuestToken,
		KeyAccessToken: GuestToken,
		KeyUserRole:    role,
	} {
		if err := c.store.Set(key, value); err != nil {
			return errors.Wrapf(err, "store %s", key)
		}
	}
	c.logger.Info().Str("role", role).Msg("guest mode enabled")
	return nil
}

// IsGuest reports whether guest mode is on.
func (c *Context) IsGuest() bool {
	v, _ := c.store.Get(KeyGuestMode)
	return v == "true"
}

// SignIn authenticates against the identity provider and stores the tokens.
// Any provider failure comes back as ErrAuthentication.
func (c *Context) SignIn(ctx context.Context, username, password string) error {
	if c.auth == nil {
		return errors.Wrap(ErrAuthentication, "no identity provider configured")
	}
	tokens, err := c.auth.SignIn(ctx, username, password)
	if err != nil {
		c.logger.Warn().Err(err).Str("user", username).Msg("sign-in rejected")
		return errors.Wrap(ErrAuthentication, err.Error())
	}
	return c.SetTokens(tokens.IDToken, tokens.AccessToken)
}

// SetTokens stores tokens obtained elsewhere and leaves guest mode.
func (c *Context) SetTokens(idToken, accessToken string) error {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return errors.Wrap(ErrAuthentication, "id token is empty")
	}
	if err := c.store.Delete(KeyGuestMode); err != nil {
		return errors.Wrap(err, "clear guest mode")
	}
	if err := c.store.Set(KeyIDToken, idToken); err != nil {
		return errors.Wrap(err, "store id token")
	}
	if accessToken = strings.TrimSpace(accessToken); accessToken != "" {
		if err := c.store.Set(KeyAccessToken, accessToken); err != nil {
			return errors.Wrap(err, "store access token")
		}
	}
	return nil
}

// IDToken returns a usable id token.
func (c *Context) IDToken(ctx context.Context) (string, error) {
	return c.token(ctx, KeyIDToken, func(t Tokens) string { return t.IDToken })
}

// AccessToken returns a usable access token.
func (c *Context) AccessToken(ctx context.Context) (string, error) {
	return c.token(ctx, KeyAccessToken, func(t Tokens) string { return t.AccessToken })
}

func (c *Context) token(ctx context.Context, key string, pick func(Tokens) string) (string, error) {
	if c.IsGuest() {
		return GuestToken, nil
	}

	if c.auth != nil {
		tokens, err := c.auth.Refresh(ctx, true)
		if err != nil {
			c.logger.Warn().Err(err).Msg("forced refresh failed, retrying without force")
			tokens, err = c.auth.Refresh(ctx, false)
		}
		if err != nil {
			return "", errors.Wrap(ErrNoToken, err.Error())
		}
		token := pick(tokens)
		if token == "" {
			return "", ErrNoToken
		}
		if err := c.store.Set(key, token); err != nil {
			return "", errors.Wrapf(err, "store %s", key)
		}
		return token, nil
	}

	token, ok := c.store.Get(key)
	if !ok || token == "" {
		return "", ErrNoToken
	}
	if c.expired(token) {
		return "", errors.Wrap(ErrNoToken, "stored token has expired")
	}
	return token, nil
}

// expired is false for tokens that are not JWTs or carry no expiry.
func (c *Context) expired(token string) bool {
	claims, ok := parseClaims(token)
	if !ok {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !c.now().Before(exp.Time)
}

// IsAuthenticated is true for guests and for anyone holding an id token.
func (c *Context) IsAuthenticated() bool {
	if c.IsGuest() {
		return true
	}
	token, ok := c.store.Get(KeyIDToken)
	return ok && token != ""
}

// Role returns the stored role, falling back to the id token's role claim.
func (c *Context) Role() string {
	if role, ok := c.store.Get(KeyUserRole); ok && role != "" {
		return role
	}
	token, ok := c.store.Get(KeyIDToken)
	if !ok {
		return ""
	}
	claims, ok := parseClaims(token)
	if !ok {
		return ""
	}
	role, _ := claims[roleClaim].(string)
	return strings.ToLower(role)
}

// Language returns the preferred language, EN when unset.
func (c *Context) Language() string {
	if lang, ok := c.store.Get(KeyPreferredLanguage); ok && lang != "" {
		return lang
	}
	return LanguageEnglish
}

// SetLanguage persists the preferred language.
func (c *Context) SetLanguage(lang string) error {
	lang = strings.ToUpper(strings.TrimSpace(lang))
	if lang != LanguageEnglish && lang != LanguageSpanish {
		return errors.Wrap(ErrUnknownLanguage, lang)
	}
	return c.store.Set(KeyPreferredLanguage, lang)
}

// Logout forgets the identity. The language preference is kept.
func (c *Context) Logout() error {
	if err := c.store.Delete(KeyAccessToken, KeyIDToken, KeyGuestMode, KeyUserRole); err != nil {
		return errors.Wrap(err, "clear session")
	}
	c.logger.Info().Msg("logged out")
	return nil
}

func parseClaims(token string) (jwt.MapClaims, bool) {
	if token == "" || token == GuestToken {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
