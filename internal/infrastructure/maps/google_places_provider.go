package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"DateSpark-App/internal/domain/model"
	"DateSpark-App/internal/domain/repository"
)

// GooglePlacesProvider fetches address/maps metadata from the Google Places
// Details API. Lookups are rate-limited upstream and treated as best-effort by
// callers.
type GooglePlacesProvider struct {
	apiKey     string
	httpClient *http.Client
}

// NewGooglePlacesProvider creates a provider with a bounded request timeout.
func NewGooglePlacesProvider(apiKey string) repository.PlaceDetailsRepository {
	return &GooglePlacesProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchDetails looks up the formatted address and maps URL for a place ID.
func (g *GooglePlacesProvider) FetchDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	reqURL := g.buildURL(placeID)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place details request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place details API returned error status: %s", resp.Status)
	}

	var apiResp placeDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse place details JSON: %w", err)
	}

	if apiResp.Status != "OK" {
		return nil, fmt.Errorf("place details API status %s: %s", apiResp.Status, apiResp.ErrorMessage)
	}

	return &model.PlaceDetails{
		Address: apiResp.Result.FormattedAddress,
		MapsURL: apiResp.Result.URL,
	}, nil
}

func (g *GooglePlacesProvider) buildURL(placeID string) string {
	baseURL := "https://maps.googleapis.com/maps/api/place/details/json"
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "formatted_address,url")
	params.Set("key", g.apiKey)
	return fmt.Sprintf("%s?%s", baseURL, params.Encode())
}

// --- structs for parsing the Places API response ---

type placeDetailsResponse struct {
	Result       placeDetailsResult `json:"result"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

type placeDetailsResult struct {
	FormattedAddress string `json:"formatted_address"`
	URL              string `json:"url"`
}
