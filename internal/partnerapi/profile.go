package partnerapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/velomax/partner-client/internal/bank"
	"github.com/velomax/partner-client/internal/validate"
	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

// GetProfile fetches the partner document. With no stored token it fails
// immediately with an unauthorized error and performs no network call.
func (c *Client) GetProfile(ctx context.Context) (*UserProfile, error) {
	env, err := c.do(ctx, call{
		op:        "get_profile",
		method:    http.MethodGet,
		path:      pathProfile,
		authed:    true,
		retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var user UserProfile
	if err := env.decode(&user); err != nil {
		return nil, err
	}
	c.cacheUser(ctx, &user)
	return &user, nil
}

// UpdateProfile sends a partial update. The server owns merge semantics; the
// returned document replaces the cached user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*UserProfile, error) {
	if len(update) == 0 {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "profile update is empty")
	}

	done, ok := c.beginExclusive("update_profile")
	if !ok {
		return nil, errDuplicateInFlight("update_profile")
	}
	defer done()

	env, err := c.do(ctx, call{
		op:     "update_profile",
		method: http.MethodPatch,
		path:   pathProfile,
		body:   update,
		authed: true,
	})
	if err != nil {
		return nil, err
	}

	var user UserProfile
	if err := env.decode(&user); err != nil {
		return nil, err
	}
	c.cacheUser(ctx, &user)
	return &user, nil
}

// UpdateBankDetails validates the IFSC locally and fills the bank name from
// it when the caller left the field empty.
func (c *Client) UpdateBankDetails(ctx context.Context, details BankDetails) (*UserProfile, error) {
	if err := validate.Struct(details); err != nil {
		return nil, err
	}
	if !bank.IsValidIFSC(details.IFSC) {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "invalid IFSC code").
			WithDetails([]pkgerrors.FieldDetail{{Field: "ifsc", Message: "is invalid"}})
	}
	if details.BankName == "" {
		details.BankName = bank.NameForIFSC(details.IFSC)
	}

	done, ok := c.beginExclusive("update_bank_details")
	if !ok {
		return nil, errDuplicateInFlight("update_bank_details")
	}
	defer done()

	env, err := c.do(ctx, call{
		op:     "update_bank_details",
		method: http.MethodPut,
		path:   pathBankDetails,
		body:   details,
		authed: true,
	})
	if err != nil {
		return nil, err
	}

	var user UserProfile
	if err := env.decode(&user); err != nil {
		return nil, err
	}
	c.cacheUser(ctx, &user)
	return &user, nil
}

func (c *Client) cacheUser(ctx context.Context, user *UserProfile) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "caching user profile", err)
		}
		return
	}
	c.session.SaveUser(ctx, string(userJSON))
}
