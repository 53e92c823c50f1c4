// Package autofill turns a pasted job link into prefilled tracking fields.
package autofill

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hirelytics/hirelytics/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout   = 8 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; HirelyticsAutofill/1.0)"

	UnknownPosition = "Unknown Position"
	UnknownCompany  = "Unknown Company"

	maxBody = 2 << 20
)

const (
	msgMissingURL = "Please paste a job link."
	msgInvalidURL = "That does not look like a valid URL. Example: https://www.indeed.com/viewjob?..."
)

// Prefill is what step two of the external job form starts from.
type Prefill struct {
	JobURL          string `json:"jobUrl"`
	JobName         string `json:"jobName"`
	CompanyName     string `json:"companyName"`
	Description     string `json:"description"`
	JobSource       string `json:"jobSource"`
	ApplicationDate string `json:"applicationDate"`
}

type Autofiller struct {
	hc        *http.Client
	userAgent string
	log       *logrus.Logger
	now       func() time.Time
}

func New(hc *http.Client, log *logrus.Logger) *Autofiller {
	if hc == nil {
		hc = PublicClient(DefaultTimeout)
	}
	return &Autofiller{hc: hc, userAgent: DefaultUserAgent, log: log, now: time.Now}
}

// ValidateURL enforces the two step-one messages: a link must be present
// and must parse as an absolute http or https URL.
func ValidateURL(raw string) (*url.URL, error) {
	const op = "autofill.ValidateURL"
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, utils.Invalid(op, msgMissingURL, map[string]string{"jobUrl": msgMissingURL})
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, utils.Invalid(op, msgInvalidURL, map[string]string{"jobUrl": msgInvalidURL})
	}
	return u, nil
}

// Fill validates raw and tries to read the page. Fetch or parse failures
// only cost the scraped fields; the fallbacks still come back.
func (a *Autofiller) Fill(ctx context.Context, raw string) (Prefill, error) {
	u, err := ValidateURL(raw)
	if err != nil {
		return Prefill{}, err
	}

	p := Prefill{
		JobURL:          u.String(),
		JobSource:       SourceFromHost(u.Hostname()),
		ApplicationDate: a.now().Format("2006-01-02"),
	}

	if doc, err := a.fetch(ctx, u.String()); err != nil {
		if a.log != nil {
			a.log.WithError(err).WithField("url", u.String()).Info("autofill fetch failed")
		}
	} else {
		p.JobName, p.CompanyName, p.Description = Extract(doc)
	}

	if p.CompanyName == "" {
		p.CompanyName = GuessCompanyFromURL(u.String())
	}
	if p.JobName == "" {
		p.JobName = UnknownPosition
	}
	return p, nil
}

func (a *Autofiller) fetch(ctx context.Context, u string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBody))
}

// Extract pulls title, company and description out of a job page, preferring
// Open Graph tags over the document title.
func Extract(doc *goquery.Document) (title, company, description string) {
	meta := func(sel string) string {
		v, _ := doc.Find(sel).First().Attr("content")
		return clean(v)
	}

	title = meta(`meta[property="og:title"]`)
	if title == "" {
		title = clean(doc.Find("title").First().Text())
	}
	if title == "" {
		title = clean(doc.Find("h1").First().Text())
	}

	company = meta(`meta[property="og:site_name"]`)
	if company == "" {
		company = meta(`meta[name="author"]`)
	}

	description = meta(`meta[property="og:description"]`)
	if description == "" {
		description = meta(`meta[name="description"]`)
	}
	for _, sel := range []string{".job-description", "#job-description", ".description__text", "#jobDescriptionText"} {
		if s := doc.Find(sel); s.Length() > 0 {
			if txt := clean(s.First().Text()); len(txt) > len(description) {
				description = txt
			}
			break
		}
	}
	return title, company, description
}

func clean(s string) string { return strings.Join(strings.Fields(s), " ") }

// GuessCompanyFromURL capitalizes the first host label, "www." dropped.
func GuessCompanyFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return UnknownCompany
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	base := strings.Split(host, ".")[0]
	if base == "" {
		return "Unknown"
	}
	return strings.ToUpper(base[:1]) + base[1:]
}

// SourceFromHost names the job board a link came from. The values are the
// external form's source options.
func SourceFromHost(host string) string {
	h := strings.ToLower(host)
	switch {
	case strings.Contains(h, "linkedin."):
		return "LinkedIn"
	case strings.Contains(h, "indeed."):
		return "Indeed"
	case strings.Contains(h, "glassdoor."):
		return "Glassdoor"
	case strings.Contains(h, "joinhandshake.") || strings.Contains(h, "handshake."):
		return "Handshake"
	case strings.HasPrefix(h, "google.") || strings.Contains(h, ".google."):
		return "Google Jobs"
	default:
		return "Other"
	}
}
