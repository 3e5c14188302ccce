package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/tracing"
)

var errNotFound = errors.New("not found in profile store")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(baseURL),
	}
}

// GetDiscounts returns every stored item of the user. An unknown user has none.
func (c *Client) GetDiscounts(ctx context.Context, userID string) ([]domain.DiscountItem, error) {
	var resp DiscountsResponse
	err := c.get(ctx, "GetDiscounts", fmt.Sprintf("/api/v1/users/%s/discounts", url.PathEscape(userID)), &resp)
	if errors.Is(err, errNotFound) {
		return []domain.DiscountItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	if resp.Items == nil {
		return []domain.DiscountItem{}, nil
	}

	slog.DebugContext(ctx, "fetched discounts from profile store",
		slog.String("user_id", userID),
		slog.Int("count", len(resp.Items)),
	)
	return resp.Items, nil
}

// GetTimePreference returns the user's global fire time, or the default one when
// the user never set it.
func (c *Client) GetTimePreference(ctx context.Context, userID string) (domain.TimePreference, error) {
	var resp TimePreferenceResponse
	err := c.get(ctx, "GetTimePreference", fmt.Sprintf("/api/v1/users/%s/notification-time", url.PathEscape(userID)), &resp)
	if errors.Is(err, errNotFound) {
		return domain.DefaultTimePreference(), nil
	}
	if err != nil {
		return domain.TimePreference{}, err
	}

	pref := domain.TimePreference{Hour: resp.Hour, Min: resp.Min}
	if err := pref.Validate(); err != nil {
		return domain.TimePreference{}, fmt.Errorf("profile store returned %s:%s: %w", resp.Hour, resp.Min, err)
	}
	return pref, nil
}

func (c *Client) get(ctx context.Context, operation, path string, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	u = u.JoinPath(path)

	ctx, span := tracing.StartExternalAPISpan(ctx, operation, u.String())
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		tracing.RecordResult(span, err)
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set(logging.RequestIDHeader, requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send request to profile store",
			slog.String("url", u.String()),
			slog.String("error", err.Error()),
		)
		tracing.RecordResult(span, err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		tracing.RecordResult(span, nil)
		return errNotFound
	}

	if resp.StatusCode != http.StatusOK {
		slog.ErrorContext(ctx, "unexpected status code from profile store",
			slog.String("url", u.String()),
			slog.Int("status_code", resp.StatusCode),
		)
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		tracing.RecordResult(span, err)
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.RecordResult(span, err)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		slog.ErrorContext(ctx, "failed to decode response from profile store",
			slog.String("url", u.String()),
			slog.String("error", err.Error()),
		)
		tracing.RecordResult(span, err)
		return fmt.Errorf("failed to decode response: %w", err)
	}

	tracing.RecordResult(span, nil)
	return nil
}
