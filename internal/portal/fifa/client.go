package fifa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/worldcup26/hospitality/internal/pkg/config"
	"github.com/worldcup26/hospitality/internal/pkg/models"
)

// chromeMu serializes all Chrome usage so only one instance runs at a time.
var chromeMu sync.Mutex

const navigationTimeout = 90 * time.Second

// Client talks to the FIFA hospitality portals. Each portal is fronted by
// anti-bot protection, so the client first opens the choose-matches page in a
// headless browser to establish a session, then issues direct API calls with
// the harvested cookies.
type Client struct {
	userAgent  string
	offerDelay time.Duration
	httpClient *http.Client

	sessionMu sync.Mutex
	sessions  map[string]bool // portal codes with an established session
}

func NewClient(cfg *config.ScraperConfig) *Client {
	jar, _ := cookiejar.New(nil)

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true // we send Accept-Encoding and decode in readBodyDecode

	return &Client{
		userAgent:  cfg.UserAgent,
		offerDelay: cfg.OfferDelay,
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
			Jar:       jar,
		},
		sessions: make(map[string]bool),
	}
}

// ListMatches fetches the full match listing from one portal. Matches missing
// a match number are dropped here: the number is the only cross-portal join
// key, so a record without one cannot participate in reconciliation.
func (c *Client) ListMatches(ctx context.Context, p models.Portal) ([]models.RawMatch, error) {
	if err := c.ensureSession(ctx, p); err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}

	endpoint := p.BaseURL + "/next-api/matches-all?productCode=26FWC&productType=5"
	body, err := c.doGet(ctx, p, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch match listing: %w", err)
	}

	var raw []apiMatch
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal match listing: %w", err)
	}

	matches := make([]models.RawMatch, 0, len(raw))
	for _, m := range raw {
		if m.MatchNumber == 0 {
			continue
		}
		matches = append(matches, toRawMatch(m))
	}

	slog.Info("Match listing fetched", "portal", p.Code, "total", len(raw), "with_match_number", len(matches))
	return matches, nil
}

// ListOffers fetches the price listing for one match, pausing first so that
// consecutive per-match calls stay under the portal's rate limit.
func (c *Client) ListOffers(ctx context.Context, p models.Portal, match models.RawMatch) (models.RawOffers, error) {
	select {
	case <-time.After(c.offerDelay):
	case <-ctx.Done():
		return models.RawOffers{}, ctx.Err()
	}

	endpoint := fmt.Sprintf("%s/next-api/lounges?productCode=26FWC&productTypeCode=SM&quantity=1&performanceId=%s",
		p.BaseURL, url.QueryEscape(match.PerformanceID))
	body, err := c.doGet(ctx, p, endpoint)
	if err != nil {
		return models.RawOffers{}, fmt.Errorf("fetch lounges for match %d: %w", match.MatchNumber, err)
	}

	switch p.Shape {
	case models.ShapeCategories:
		var cats []apiCategory
		if err := json.Unmarshal(body, &cats); err != nil {
			return models.RawOffers{}, fmt.Errorf("unmarshal price categories for match %d: %w", match.MatchNumber, err)
		}
		return models.RawOffers{Categories: toRawCategories(cats)}, nil
	default:
		var lounges []apiLounge
		if err := json.Unmarshal(body, &lounges); err != nil {
			return models.RawOffers{}, fmt.Errorf("unmarshal lounges for match %d: %w", match.MatchNumber, err)
		}
		return models.RawOffers{Lounges: toRawLounges(lounges)}, nil
	}
}

// ensureSession opens the portal's choose-matches page in headless Chrome and
// copies the resulting cookies into the HTTP client's jar. One visit per
// portal per run is enough; the API endpoints accept the session afterwards.
func (c *Client) ensureSession(ctx context.Context, p models.Portal) error {
	c.sessionMu.Lock()
	done := c.sessions[p.Code]
	c.sessionMu.Unlock()
	if done {
		return nil
	}

	chromeMu.Lock()
	defer chromeMu.Unlock()

	navCtx, cancel := context.WithTimeout(ctx, navigationTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(c.userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(navCtx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	pageURL := fmt.Sprintf("%s/%s/en/choose-matches", p.BaseURL, p.Code)
	slog.Info("Opening portal page", "portal", p.Code, "url", pageURL)

	var cookies []*http.Cookie
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(5*time.Second), // let the page finish its client-side boot
		chromedp.ActionFunc(func(ctx context.Context) error {
			cs, err := storage.GetCookies().Do(ctx)
			if err != nil {
				return err
			}
			for _, ck := range cs {
				cookies = append(cookies, &http.Cookie{
					Name:   ck.Name,
					Value:  ck.Value,
					Domain: ck.Domain,
					Path:   ck.Path,
				})
			}
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	c.httpClient.Jar.SetCookies(base, cookies)

	c.sessionMu.Lock()
	c.sessions[p.Code] = true
	c.sessionMu.Unlock()

	slog.Info("Portal session established", "portal", p.Code, "cookies", len(cookies))
	return nil
}

// doGet performs an API GET with browser-like headers for the given portal.
func (c *Client) doGet(ctx context.Context, p models.Portal, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", fmt.Sprintf("%s/%s/en/choose-matches", p.BaseURL, p.Code))
	req.Header.Set("country-tag", p.Code)
	req.Header.Set("language-tag", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(b))
	}

	return readBodyDecode(resp)
}

func toRawMatch(m apiMatch) models.RawMatch {
	out := models.RawMatch{
		PerformanceID: m.PerformanceID,
		MatchNumber:   m.MatchNumber,
		Stage:         m.Stage,
		MatchDate:     m.MatchDate,
		MatchDayTime:  m.MatchDayTime,
	}
	if m.HostTeam != nil {
		out.HostTeam = m.HostTeam.ExternalName
	}
	if m.OpposingTeam != nil {
		out.OpposingTeam = m.OpposingTeam.ExternalName
	}
	if m.Venue != nil {
		out.Venue = models.Venue{
			Name:    m.Venue.Name,
			Town:    m.Venue.Town,
			Country: m.Venue.Country,
		}
	}
	return out
}

func toRawLounges(lounges []apiLounge) []models.RawLounge {
	out := make([]models.RawLounge, 0, len(lounges))
	for _, l := range lounges {
		out = append(out, models.RawLounge{Title: l.Title, PriceString: l.ComparePrice})
	}
	return out
}

func toRawCategories(cats []apiCategory) []models.RawCategory {
	out := make([]models.RawCategory, 0, len(cats))
	for _, cat := range cats {
		entries := make([]models.RawPriceEntry, 0, len(cat.PriceCategories))
		for _, pc := range cat.PriceCategories {
			entries = append(entries, models.RawPriceEntry{IsAvailable: pc.IsAvailable, Amount: pc.Amount})
		}
		out = append(out, models.RawCategory{
			Name:              cat.Name,
			HasAvailableSeats: cat.HasAvailableSeats,
			PriceCategories:   entries,
		})
	}
	return out
}
