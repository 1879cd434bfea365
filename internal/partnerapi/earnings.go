package partnerapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/velomax/partner-client/pkg/enums"
	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

// GetEarnings fetches the payout summary for one period.
func (c *Client) GetEarnings(ctx context.Context, period enums.EarningsPeriod) (*EarningsSummary, error) {
	if !period.IsValid() {
		return nil, pkgerrors.New(pkgerrors.KindValidation, "invalid earnings period "+period.String())
	}

	query := url.Values{}
	query.Set("period", period.String())

	env, err := c.do(ctx, call{
		op:        "get_earnings",
		method:    http.MethodGet,
		path:      pathEarnings,
		query:     query.Encode(),
		authed:    true,
		retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var summary EarningsSummary
	if err := env.decode(&summary); err != nil {
		return nil, err
	}
	if summary.Period == "" {
		summary.Period = period
	}
	return &summary, nil
}
