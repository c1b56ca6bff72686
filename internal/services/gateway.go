// Leaderboard gateway [LeaderboardService] implementation
//
// Communicates with the HTTP gateway in front of the game platform SDK.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const defaultGatewayURL string = "http://127.0.0.1:8080"

// GatewayOpts configures a [GatewayService].
type GatewayOpts struct {
	BaseURL           string
	TokenURL          string
	ClientID          string
	ClientSecret      string
	RequestsPerSecond float64
	RequestTimeout    time.Duration
	// HTTPClient replaces the default client. Ignored when TokenURL is set.
	HTTPClient *http.Client
}

// GatewayService implements [LeaderboardService] over the gateway's JSON API.
type GatewayService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type entriesResponse struct {
	Entries []models.LeaderboardEntry `json:"entries"`
}

type itemsResponse struct {
	Items    []models.WorkshopItem `json:"items"`
	NextPage *int                  `json:"next_page"`
}

type nameResponse struct {
	Name string `json:"name"`
}

// NewGatewayService creates a gateway client.
//
// ctx is only used by the client credentials flow to fetch tokens and should outlive the service.
func NewGatewayService(ctx context.Context, opts GatewayOpts) *GatewayService {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGatewayURL
	}

	client := opts.HTTPClient
	if opts.TokenURL != "" {
		creds := &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
		}
		client = creds.Client(ctx)
	}
	if client == nil {
		client = &http.Client{}
	}
	if opts.RequestTimeout > 0 {
		c := *client
		c.Timeout = opts.RequestTimeout
		client = &c
	}

	g := &GatewayService{baseURL: baseURL, httpClient: client}
	if opts.RequestsPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return g
}

// Name returns the service name.
func (g *GatewayService) Name() string {
	return "Gateway"
}

func (g *GatewayService) doRequest(ctx context.Context, method, endpoint string, query url.Values, result any) error {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	apiURL := g.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		sentinel := shared.ErrAPIRequest
		switch resp.StatusCode {
		case http.StatusNotFound:
			sentinel = shared.ErrNotFound
		case http.StatusServiceUnavailable:
			sentinel = shared.ErrServiceUnavailable
		}

		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: gateway error (status %d): %s", sentinel, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: gateway error: status %d", sentinel, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// LeaderboardRange returns the global entries ranked start through end.
//
// Calls GET /leaderboards/{name}/entries on the gateway.
func (g *GatewayService) LeaderboardRange(ctx context.Context, name string, start, end int) ([]models.LeaderboardEntry, error) {
	if start < 1 || end < start {
		return nil, fmt.Errorf("%w: rank range %d-%d", shared.ErrInvalidArgument, start, end)
	}

	query := url.Values{}
	query.Set("start", strconv.Itoa(start))
	query.Set("end", strconv.Itoa(end))

	var resp entriesResponse
	endpoint := "/leaderboards/" + url.PathEscape(name) + "/entries"
	if err := g.doRequest(ctx, http.MethodGet, endpoint, query, &resp); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", shared.ErrLeaderboardAbsent, name)
		}
		return nil, fmt.Errorf("leaderboard %s: %w", name, err)
	}

	if resp.Entries == nil {
		resp.Entries = []models.LeaderboardEntry{}
	}
	return resp.Entries, nil
}

// ReadyItems pages through GET /workshop/items until the gateway reports no next page.
//
// Items with an empty file name are not playable levels and are skipped.
func (g *GatewayService) ReadyItems(ctx context.Context, tags []string) iter.Seq2[models.WorkshopItem, error] {
	return func(yield func(models.WorkshopItem, error) bool) {
		page := 1
		for {
			query := url.Values{}
			query.Set("type", "ready_to_use")
			query.Set("match", "any")
			query.Set("tags", strings.Join(tags, ","))
			query.Set("page", strconv.Itoa(page))

			var resp itemsResponse
			if err := g.doRequest(ctx, http.MethodGet, "/workshop/items", query, &resp); err != nil {
				yield(models.WorkshopItem{}, fmt.Errorf("%w: page %d: %w", shared.ErrCatalogQuery, page, err))
				return
			}

			for _, item := range resp.Items {
				if item.FileName == "" {
					continue
				}
				if !yield(item, nil) {
					return
				}
			}

			if resp.NextPage == nil || *resp.NextPage <= page {
				return
			}
			page = *resp.NextPage
		}
	}
}

// DisplayName resolves a player's persona name.
//
// Calls GET /players/{steam_id}/name on the gateway.
func (g *GatewayService) DisplayName(ctx context.Context, steamID uint64) (string, error) {
	var resp nameResponse
	endpoint := "/players/" + strconv.FormatUint(steamID, 10) + "/name"
	if err := g.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}
