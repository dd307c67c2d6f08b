// Package holidaysync imports the public holiday and makeup-workday calendar
// from a JSON feed into the holidays table.
package holidaysync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Entry is one day of the upstream feed.
type Entry struct {
	Date      string // YYYY-MM-DD
	Name      string
	IsHoliday bool
}

type rawEntry struct {
	Date        string          `json:"date"`
	IsHoliday   json.RawMessage `json:"isHoliday"`
	Caption     string          `json:"caption"`
	Description string          `json:"description"`
	Name        string          `json:"name"`
}

type Parser struct {
	httpClient *http.Client
}

func NewParser() *Parser {
	return &Parser{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchAndParse downloads the feed and parses it.
func (p *Parser) FetchAndParse(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching holiday feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday feed returned status %d", resp.StatusCode)
	}

	return p.Parse(resp.Body)
}

// Parse reads a JSON array of feed entries. Dates may be YYYYMMDD or
// YYYY-MM-DD; the name comes from caption, description or name, in that order.
func (p *Parser) Parse(r io.Reader) ([]Entry, error) {
	var raw []rawEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding holiday feed: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, re := range raw {
		day, err := parseDate(re.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		isHoliday, err := parseFlag(re.IsHoliday)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, day, err)
		}

		entries = append(entries, Entry{
			Date:      day,
			Name:      firstNonEmpty(re.Caption, re.Description, re.Name),
			IsHoliday: isHoliday,
		})
	}
	return entries, nil
}

func parseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}

// parseFlag accepts JSON booleans and the string forms some feeds publish.
func parseFlag(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, fmt.Errorf("invalid isHoliday %s", raw)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "y", "yes", "是":
		return true, nil
	case "false", "0", "n", "no", "否", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid isHoliday %q", s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Filter keeps named days and makeup workdays on the closed weekday. Ordinary
// weekends without a caption carry no information the calendar needs.
func Filter(entries []Entry, closedWeekday time.Weekday) []Entry {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			kept = append(kept, e)
			continue
		}
		if e.IsHoliday {
			continue
		}
		d, err := time.Parse("2006-01-02", e.Date)
		if err == nil && d.Weekday() == closedWeekday {
			kept = append(kept, e)
		}
	}
	return kept
}
