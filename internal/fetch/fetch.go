// Package fetch retrieves the day's reading content from a web source.
//
// The fetcher is site-agnostic: the URL layout and the CSS selectors for the
// reading sections and the citation come from configuration, not code. The
// defaults in internal/config point at the USCCB daily readings pages.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/minhtrung1997/automatic-bible-diary/core/diary"
	"github.com/minhtrung1997/automatic-bible-diary/internal/logging"
)

// bodyLimit caps the extracted reading text so a navigation-heavy page cannot
// blow up the prompt.
const bodyLimit = 5000

var whitespaceRE = regexp.MustCompile(`\s+`)

// Source fetches daily reading pages and extracts ReadingContent from them.
type Source struct {
	client           *http.Client
	baseURL          string
	sectionSelector  string
	citationSelector string
	userAgent        string
}

// NewSource builds a reading source. baseURL is the prefix of the per-day
// pages; the two selectors locate the reading sections and the citation link.
func NewSource(baseURL, sectionSelector, citationSelector, userAgent string) *Source {
	return &Source{
		client:           &http.Client{Timeout: 30 * time.Second},
		baseURL:          strings.TrimRight(baseURL, "/"),
		sectionSelector:  sectionSelector,
		citationSelector: citationSelector,
		userAgent:        userAgent,
	}
}

// FetchDaily downloads and extracts the reading content for the given date.
// The page path is the MMDDYY date form used by the daily-readings source.
func (s *Source) FetchDaily(ctx context.Context, date time.Time) (diary.ReadingContent, error) {
	pageURL := fmt.Sprintf("%s/%s.cfm", s.baseURL, date.Format("010206"))
	logging.InfoContext(ctx, "fetching daily reading", "url", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return diary.ReadingContent{}, fmt.Errorf("building reading request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return diary.ReadingContent{}, fmt.Errorf("fetching daily reading: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return diary.ReadingContent{}, fmt.Errorf("fetching daily reading: unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return diary.ReadingContent{}, fmt.Errorf("parsing reading page: %w", err)
	}

	content := diary.ReadingContent{
		Date:      date.Format("Monday, January 2, 2006"),
		SourceURL: pageURL,
		Body:      s.extractBody(doc),
	}
	content.Citation, content.CitationLink = s.extractCitation(doc, pageURL)

	if content.Body == "" {
		return diary.ReadingContent{}, fmt.Errorf("no reading sections matched %q at %s", s.sectionSelector, pageURL)
	}
	logging.InfoContext(ctx, "daily reading extracted",
		"body_len", len(content.Body), "citation", content.Citation)
	return content, nil
}

func (s *Source) extractBody(doc *goquery.Document) string {
	var sections []string
	doc.Find(s.sectionSelector).Each(func(_ int, sel *goquery.Selection) {
		if text := cleanText(sel.Text()); text != "" {
			sections = append(sections, text)
		}
	})
	body := strings.Join(sections, "\n\n")
	if len(body) > bodyLimit {
		body = body[:bodyLimit] + "..."
	}
	return body
}

func (s *Source) extractCitation(doc *goquery.Document, pageURL string) (string, string) {
	sel := doc.Find(s.citationSelector).First()
	citation := cleanText(sel.Text())
	if citation == "" {
		return "", ""
	}
	link, _ := sel.Attr("href")
	return citation, absoluteURL(pageURL, link)
}

// absoluteURL resolves a possibly relative href against the page it came from.
func absoluteURL(pageURL, href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func cleanText(text string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}
