package listings

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	"CardSight/internal/domain/models"
	"CardSight/pkg/util"
)

// Scraper extracts sold listings from the eBay results page with a
// headless browser. Used as a fallback when the API is unavailable.
type Scraper struct {
	baseURL string
	timeout time.Duration
}

func NewScraper(baseURL string, timeout time.Duration) *Scraper {
	if baseURL == "" {
		baseURL = "https://www.ebay.com/sch/i.html"
	}
	return &Scraper{baseURL: baseURL, timeout: timeout}
}

type scrapedItem struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

func (s *Scraper) Search(ctx context.Context, query string) ([]models.Comparable, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		browserCtx, cancel = context.WithTimeout(browserCtx, s.timeout)
		defer cancel()
	}

	searchURL := fmt.Sprintf("%s?_nkw=%s&LH_Sold=1&LH_Complete=1", s.baseURL, url.QueryEscape(query))

	var items []scrapedItem
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(searchURL),
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(`
			Array.from(document.querySelectorAll('.s-item')).slice(0, 25).map(el => ({
				title: (el.querySelector('.s-item__title') || {}).innerText || '',
				price: (el.querySelector('.s-item__price') || {}).innerText || ''
			})).filter(it => it.title && it.price)
		`, &items),
	)
	if err != nil {
		return nil, fmt.Errorf("listings scraper: %w", err)
	}

	comps := make([]models.Comparable, 0, len(items))
	for _, it := range items {
		price, ok := util.ParseMoney(it.Price)
		if !ok || price <= 0 {
			continue
		}
		comps = append(comps, models.Comparable{
			Title:  it.Title,
			Price:  price,
			SoldAt: time.Now(),
		})
	}
	return comps, nil
}

func (s *Scraper) Name() string { return "ebay-scraper" }
