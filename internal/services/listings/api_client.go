package listings

import (
	"context"
	"fmt"
	"time"

	"CardSight/internal/domain/models"
	xhttp "CardSight/pkg/http"
	"CardSight/pkg/util"
)

// APIClient searches sold listings through the eBay Finding API
// (findCompletedItems, sold items only).
type APIClient struct {
	client  *xhttp.Client
	baseURL string
	appID   string
}

func NewAPIClient(baseURL, appID string, timeout time.Duration) *APIClient {
	if baseURL == "" {
		baseURL = "https://svcs.ebay.com/services/search/FindingService/v1"
	}
	return &APIClient{
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: baseURL,
		appID:   appID,
	}
}

type findCompletedResponse struct {
	FindCompletedItemsResponse []struct {
		SearchResult []struct {
			Item []struct {
				Title         []string `json:"title"`
				SellingStatus []struct {
					CurrentPrice []struct {
						Value string `json:"__value__"`
					} `json:"currentPrice"`
				} `json:"sellingStatus"`
				ListingInfo []struct {
					EndTime []string `json:"endTime"`
				} `json:"listingInfo"`
			} `json:"item"`
		} `json:"searchResult"`
	} `json:"findCompletedItemsResponse"`
}

func (c *APIClient) Search(ctx context.Context, query string) ([]models.Comparable, error) {
	if c.appID == "" {
		return nil, fmt.Errorf("listings api: app id not configured")
	}

	var resp findCompletedResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"OPERATION-NAME":                 {"findCompletedItems"},
			"SERVICE-VERSION":                {"1.13.0"},
			"SECURITY-APPNAME":               {c.appID},
			"RESPONSE-DATA-FORMAT":           {"JSON"},
			"keywords":                       {query},
			"itemFilter(0).name":             {"SoldItemsOnly"},
			"itemFilter(0).value":            {"true"},
			"paginationInput.entriesPerPage": {"25"},
			"sortOrder":                      {"EndTimeSoonest"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("listings api: %w", err)
	}

	var comps []models.Comparable
	for _, r := range resp.FindCompletedItemsResponse {
		for _, sr := range r.SearchResult {
			for _, item := range sr.Item {
				comp := models.Comparable{}
				if len(item.Title) > 0 {
					comp.Title = item.Title[0]
				}
				if len(item.SellingStatus) > 0 && len(item.SellingStatus[0].CurrentPrice) > 0 {
					if v, ok := util.ParseMoney(item.SellingStatus[0].CurrentPrice[0].Value); ok {
						comp.Price = v
					}
				}
				if len(item.ListingInfo) > 0 && len(item.ListingInfo[0].EndTime) > 0 {
					comp.SoldAt = util.ParseTimeDefault(item.ListingInfo[0].EndTime[0], time.Time{})
				}
				if comp.Price > 0 {
					comps = append(comps, comp)
				}
			}
		}
	}
	return comps, nil
}

func (c *APIClient) Name() string { return "ebay-api" }
