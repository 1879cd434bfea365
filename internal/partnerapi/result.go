package partnerapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

const responseBodyReadLimit = 4 << 20

// envelope is the normalized server response. The API wraps payloads in
// {success, data, error|message, token, details} but is not strict about it,
// so every field is optional and the raw body is kept as a fallback.
type envelope struct {
	Success *bool                   `json:"success"`
	Data    json.RawMessage         `json:"data"`
	Error   string                  `json:"error"`
	Message string                  `json:"message"`
	Token   string                  `json:"token"`
	Details []pkgerrors.FieldDetail `json:"details"`

	raw json.RawMessage
}

// decode unmarshals the payload into out, preferring the data field and
// falling back to the whole body for endpoints that skip the wrapper.
func (e *envelope) decode(out any) error {
	if out == nil {
		return nil
	}
	payload := e.raw
	if len(e.Data) > 0 && string(e.Data) != "null" {
		payload = e.Data
	}
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.KindInternal, err, "decode response payload")
	}
	return nil
}

// token returns the auth token wherever the server placed it: top level or
// inside data.
func (e *envelope) token() string {
	if e.Token != "" {
		return e.Token
	}
	var nested struct {
		Token string `json:"token"`
	}
	if len(e.Data) > 0 && json.Unmarshal(e.Data, &nested) == nil {
		return nested.Token
	}
	return ""
}

// errorMessage picks the most specific error text the body offers.
func (e *envelope) errorMessage(fallback string) string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// normalize maps one HTTP response to an envelope or a typed error. A 401
// clears the stored session as a side effect so the caller is forced back
// through login.
func (c *Client) normalize(ctx context.Context, op string, resp *http.Response) (*envelope, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.KindNetwork, err, op+" response read failed").
			WithStatusCode(resp.StatusCode)
	}

	env := &envelope{raw: body}
	if len(body) > 0 {
		// A non-JSON body is tolerated; the envelope fields just stay empty.
		_ = json.Unmarshal(body, env)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return env, nil
	}

	kind := pkgerrors.KindForStatus(resp.StatusCode)
	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear(ctx)
		if c.logg != nil {
			c.logg.Warn(ctx, "session rejected by server, local credentials cleared")
		}
	}

	message := env.errorMessage(strings.ToLower(http.StatusText(resp.StatusCode)))
	return nil, pkgerrors.New(kind, message).
		WithDetails(env.Details).
		WithStatusCode(resp.StatusCode)
}
