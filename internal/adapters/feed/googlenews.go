package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

// RSSSource fetches headlines from an RSS 2.0 feed (Google News search
// feeds in the default configuration)
type RSSSource struct {
	url    string
	client *http.Client
}

// NewRSSSource creates a feed source for the given RSS URL
func NewRSSSource(url string, timeout time.Duration) *RSSSource {
	return &RSSSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// FetchItems returns at most limit feed items in provider order. Fetch or
// decode failures yield ErrSourceUnavailable; items without a title are
// dropped as malformed.
func (s *RSSSource) FetchItems(ctx context.Context, limit int) ([]models.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", models.ErrSourceUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", models.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP error %d", models.ErrSourceUnavailable, resp.StatusCode)
	}

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode feed: %v", models.ErrSourceUnavailable, err)
	}

	items := make([]models.NewsItem, 0, limit)
	for _, entry := range doc.Channel.Items {
		if len(items) >= limit {
			break
		}

		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}

		items = append(items, models.NewsItem{
			Headline:    title,
			Link:        strings.TrimSpace(entry.Link),
			PublishedAt: parsePubDate(entry.PubDate),
		})
	}

	logger.Debug("news feed fetched",
		zap.Int("items", len(items)),
	)

	return items, nil
}

// parsePubDate parses the RFC1123 variants RSS feeds actually emit;
// an unparseable date is left zero rather than dropping the item
func parsePubDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}
