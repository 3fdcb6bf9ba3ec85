// Package quote fetches the latest USD quotes for the tracked assets.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
)

const apiKeyHeader = "X-CMC_PRO_API_KEY"

var ErrMalformedResponse = errors.New("malformed quote response")

// Provider returns the latest quote for each requested asset id.
type Provider interface {
	LatestQuotes(ctx context.Context, ids []int) ([]*models.LivePrice, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiResponse struct {
	Status struct {
		ErrorCode    int     `json:"error_code"`
		ErrorMessage *string `json:"error_message"`
	} `json:"status"`
	Data map[string]apiAsset `json:"data"`
}

type apiAsset struct {
	ID          int                    `json:"id"`
	Name        string                 `json:"name"`
	Symbol      string                 `json:"symbol"`
	Slug        string                 `json:"slug"`
	LastUpdated time.Time              `json:"last_updated"`
	Quote       map[string]apiUSDQuote `json:"quote"`
}

type apiUSDQuote struct {
	Price            *float64  `json:"price"`
	Volume24h        float64   `json:"volume_24h"`
	PercentChange1h  float64   `json:"percent_change_1h"`
	PercentChange24h float64   `json:"percent_change_24h"`
	LastUpdated      time.Time `json:"last_updated"`
}

// LatestQuotes issues one request for all ids. Any transport failure, non-2xx
// status or undecodable body is returned as an error and nothing is partially
// returned.
func (c *Client) LatestQuotes(ctx context.Context, ids []int) ([]*models.LivePrice, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	query := url.Values{}
	query.Set("id", strings.Join(parts, ","))
	query.Set("convert", "USD")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("quote provider error (HTTP %d): %s", resp.StatusCode, body)
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Status.ErrorCode != 0 {
		msg := ""
		if result.Status.ErrorMessage != nil {
			msg = *result.Status.ErrorMessage
		}
		return nil, fmt.Errorf("quote provider error %d: %s", result.Status.ErrorCode, msg)
	}

	prices := make([]*models.LivePrice, 0, len(ids))
	for _, id := range ids {
		asset, ok := result.Data[strconv.Itoa(id)]
		if !ok {
			continue
		}
		usd, ok := asset.Quote["USD"]
		if !ok || usd.Price == nil {
			return nil, fmt.Errorf("%w: asset %d has no USD price", ErrMalformedResponse, id)
		}
		prices = append(prices, &models.LivePrice{
			AssetID: id,
			Name:    asset.Name,
			Symbol:  asset.Symbol,
			Slug:    asset.Slug,
			Quote: models.Quote{USD: models.USDQuote{
				Price:            *usd.Price,
				Volume24h:        usd.Volume24h,
				PercentChange1h:  usd.PercentChange1h,
				PercentChange24h: usd.PercentChange24h,
				LastUpdated:      usd.LastUpdated,
			}},
			LastUpdated: asset.LastUpdated,
		})
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: no requested asset in response", ErrMalformedResponse)
	}
	return prices, nil
}
