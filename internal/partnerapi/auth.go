package partnerapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/velomax/partner-client/internal/phone"
	"github.com/velomax/partner-client/internal/validate"
	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

type loginRequest struct {
	PhoneNumber   string `json:"phoneNumber" validate:"required,e164"`
	Password      string `json:"password,omitempty" validate:"required_without=FirebaseToken,excluded_with=FirebaseToken"`
	FirebaseToken string `json:"firebaseToken,omitempty"`
}

// Login authenticates with phone + password. The phone number is normalized
// to E.164 before it reaches the wire. On success the token, user document,
// and role are persisted in the session.
func (c *Client) Login(ctx context.Context, rawPhone, password string) (*LoginResult, error) {
	return c.login(ctx, rawPhone, loginRequest{Password: password})
}

// LoginWithFirebase authenticates with a Firebase ID token instead of a
// password (OTP flow).
func (c *Client) LoginWithFirebase(ctx context.Context, rawPhone, firebaseToken string) (*LoginResult, error) {
	return c.login(ctx, rawPhone, loginRequest{FirebaseToken: firebaseToken})
}

func (c *Client) login(ctx context.Context, rawPhone string, req loginRequest) (*LoginResult, error) {
	normalized, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, err
	}
	req.PhoneNumber = normalized
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	done, ok := c.beginExclusive("login")
	if !ok {
		return nil, errDuplicateInFlight("login")
	}
	defer done()

	env, err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   pathLogin,
		body:   req,
	})
	if err != nil {
		return nil, err
	}

	token := env.token()
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.KindServer, "login response missing token")
	}

	var user UserProfile
	if err := env.decode(&user); err != nil {
		return nil, err
	}

	userJSON, err := json.Marshal(&user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.KindInternal, err, "cache user profile")
	}
	c.session.SaveCredentials(ctx, token, string(userJSON), user.Role)

	return &LoginResult{Token: token, User: &user}, nil
}

// Register creates a new partner account. The created account starts in
// pending verification; login works immediately but the dashboard stays
// locked until approval.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*UserProfile, error) {
	normalized, err := phone.Normalize(params.PhoneNumber)
	if err != nil {
		return nil, err
	}
	params.PhoneNumber = normalized
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	done, ok := c.beginExclusive("register")
	if !ok {
		return nil, errDuplicateInFlight("register")
	}
	defer done()

	env, err := c.do(ctx, call{
		op:     "register",
		method: http.MethodPost,
		path:   pathRegister,
		body:   params,
	})
	if err != nil {
		return nil, err
	}

	var user UserProfile
	if err := env.decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the session. Local credentials are always cleared, even when
// the remote call fails: a partner who taps "log out" is logged out, full
// stop. The remote failure is logged, not returned. Calling Logout with no
// active session is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	token := c.session.Token(ctx)
	defer c.session.Clear(ctx)

	if token == "" {
		return nil
	}

	if _, err := c.do(ctx, call{
		op:     "logout",
		method: http.MethodPost,
		path:   pathLogout,
		authed: true,
	}); err != nil && c.logg != nil {
		c.logg.Warn(ctx, "remote logout failed, local session cleared anyway")
	}
	return nil
}
