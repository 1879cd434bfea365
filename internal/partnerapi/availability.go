package partnerapi

import (
	"context"
	"net/http"

	"github.com/velomax/partner-client/pkg/enums"
	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

type availabilityRequest struct {
	Status   enums.AvailabilityStatus `json:"status"`
	Location *Location                `json:"location,omitempty"`
}

// UpdateAvailability sets the on/off-duty state, optionally attaching the
// current GPS fix. Setting a state is idempotent, so transient failures are
// retried.
func (c *Client) UpdateAvailability(ctx context.Context, status enums.AvailabilityStatus, location *Location) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.KindValidation, "invalid availability status "+status.String())
	}

	done, ok := c.beginExclusive("update_availability")
	if !ok {
		return errDuplicateInFlight("update_availability")
	}
	defer done()

	_, err := c.do(ctx, call{
		op:        "update_availability",
		method:    http.MethodPost,
		path:      pathAvailability,
		body:      availabilityRequest{Status: status, Location: location},
		authed:    true,
		retryable: true,
	})
	return err
}
