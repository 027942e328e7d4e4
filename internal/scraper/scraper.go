package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

var (
	ErrInvalidURL       = errors.New("job URL must be an absolute http(s) URL")
	ErrEmptyDescription = errors.New("page contained no readable text")
)

const settleDelay = 2 * time.Second

// descriptionSelectors are tried in order; the first one with text wins.
// The page body is the fallback.
var descriptionSelectors = []string{
	`.jobs-description-content__text`,
	`.show-more-less-html__markup`,
	`#job-details`,
	`.description__text`,
	`.job-description`,
	`[class*='description']`,
	`article`,
	`main`,
}

// Fetcher downloads job descriptions with a headless browser
type Fetcher struct {
	Timeout time.Duration
	Logger  *zap.Logger
}

// createBrowserContext creates a new browser context with appropriate options
func (f *Fetcher) createBrowserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("excludeSwitches", "enable-automation"),
		chromedp.Flag("useAutomationExtension", false),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(parent, opts...)
	log := f.logger().Sugar()
	ctx, cancel2 := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		msg := fmt.Sprintf(format, v...)
		if strings.Contains(msg, "could not unmarshal event") ||
			strings.Contains(msg, "unknown PrivateNetworkRequestPolicy") ||
			strings.Contains(msg, "unknown ClientNavigationReason") {
			return
		}
		log.Debug(msg)
	}))

	return ctx, func() {
		cancel2()
		cancel()
	}
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

// FetchJobDescription loads rawURL and returns the visible text of the job
// description. The whole fetch is bounded by f.Timeout.
func (f *Fetcher) FetchJobDescription(ctx context.Context, rawURL string) (string, error) {
	if err := ValidateURL(rawURL); err != nil {
		return "", err
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	browserCtx, cancel := f.createBrowserContext(ctx)
	defer cancel()

	start := time.Now()
	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.Evaluate(extractScript(), &text),
	)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	text = CleanText(text)
	f.logger().Debug("fetched job description",
		zap.String("url", rawURL),
		zap.Int("chars", len(text)),
		zap.Duration("took", time.Since(start)),
	)
	if text == "" {
		return "", ErrEmptyDescription
	}
	return text, nil
}

// ValidateURL accepts only absolute http and https URLs
func ValidateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// extractScript returns a JS expression evaluating to the innerText of the
// first matching description selector, or of the body
func extractScript() string {
	quoted := make([]string, len(descriptionSelectors))
	for i, sel := range descriptionSelectors {
		quoted[i] = fmt.Sprintf("%q", sel)
	}
	return `(() => {
	for (const sel of [` + strings.Join(quoted, ", ") + `]) {
		const el = document.querySelector(sel);
		if (el && el.innerText && el.innerText.trim() !== "") {
			return el.innerText;
		}
	}
	return document.body ? document.body.innerText : "";
})()`
}

// CleanText trims every line and drops blank ones
func CleanText(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
