package partnerapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/velomax/partner-client/internal/validate"
	"github.com/velomax/partner-client/pkg/enums"
	pkgerrors "github.com/velomax/partner-client/pkg/errors"
	"github.com/velomax/partner-client/pkg/pagination"
)

type deliveryStatusRequest struct {
	Status enums.DeliveryStatus `json:"status"`
}

// UpdateDeliveryStatus advances one order through its lifecycle. Status
// transitions are validated server-side; the client only rejects unknown
// status strings. Not retried: a transition that raced a timeout must not be
// replayed blindly.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, orderID string, status enums.DeliveryStatus) error {
	if orderID == "" {
		return pkgerrors.New(pkgerrors.KindValidation, "order ID is required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.KindValidation, "invalid delivery status "+status.String())
	}

	done, ok := c.beginExclusive("update_delivery_status:" + orderID)
	if !ok {
		return errDuplicateInFlight("update_delivery_status")
	}
	defer done()

	if c.logg != nil {
		ctx = c.logg.WithOrderID(ctx, orderID)
	}
	_, err := c.do(ctx, call{
		op:     "update_delivery_status",
		method: http.MethodPatch,
		path:   pathOrders + "/" + url.PathEscape(orderID) + "/status",
		body:   deliveryStatusRequest{Status: status},
		authed: true,
	})
	return err
}

// ReportIssue files a problem report against one order.
func (c *Client) ReportIssue(ctx context.Context, report IssueReport) error {
	if err := validate.Struct(report); err != nil {
		return err
	}

	done, ok := c.beginExclusive("report_issue:" + report.OrderID)
	if !ok {
		return errDuplicateInFlight("report_issue")
	}
	defer done()

	if c.logg != nil {
		ctx = c.logg.WithOrderID(ctx, report.OrderID)
	}
	_, err := c.do(ctx, call{
		op:     "report_issue",
		method: http.MethodPost,
		path:   pathOrders + "/" + url.PathEscape(report.OrderID) + "/issues",
		body:   report,
		authed: true,
	})
	return err
}

// GetDeliveryHistory lists past deliveries, newest first.
func (c *Client) GetDeliveryHistory(ctx context.Context, params HistoryParams) (*pagination.Page[Order], error) {
	normalized := pagination.Params{Page: params.Page, Limit: params.Limit}.Normalize()

	query := url.Values{}
	query.Set("page", strconv.Itoa(normalized.Page))
	query.Set("limit", strconv.Itoa(normalized.Limit))
	if params.From != nil {
		query.Set("from", params.From.UTC().Format(time.RFC3339))
	}
	if params.To != nil {
		query.Set("to", params.To.UTC().Format(time.RFC3339))
	}

	env, err := c.do(ctx, call{
		op:        "get_delivery_history",
		method:    http.MethodGet,
		path:      pathOrders,
		query:     query.Encode(),
		authed:    true,
		retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var page pagination.Page[Order]
	if err := env.decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDashboard fetches the landing-screen snapshot.
func (c *Client) GetDashboard(ctx context.Context) (*Dashboard, error) {
	env, err := c.do(ctx, call{
		op:        "get_dashboard",
		method:    http.MethodGet,
		path:      pathDashboard,
		authed:    true,
		retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var dashboard Dashboard
	if err := env.decode(&dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}
