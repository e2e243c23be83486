// Package google adapts the Places API (New) to the pipeline's provider types.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	places "google.golang.org/api/places/v1"

	"github.com/octobees/places-sync/internal/entity"
	"github.com/octobees/places-sync/internal/provider"
)

const (
	placeFields = "id,displayName,formattedAddress,addressComponents,location,rating,userRatingCount," +
		"websiteUri,internationalPhoneNumber,nationalPhoneNumber,types,businessStatus,photos"
	photoMaxWidth    = 800
	defaultTimeout   = 15 * time.Second
	defaultMaxResult = 20
)

// Client wraps the generated Places service with throttling and request timeouts.
type Client struct {
	svc        *places.Service
	limiter    *rate.Limiter
	timeout    time.Duration
	regionCode string
}

type clientOptions struct {
	endpoint   string
	transport  http.RoundTripper
	limiter    *rate.Limiter
	timeout    time.Duration
	regionCode string
}

// Option configures the client.
type Option func(*clientOptions)

// WithEndpoint points the client at a different base URL.
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithTransport overrides the underlying HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		if rt != nil {
			o.transport = rt
		}
	}
}

// WithLimiter throttles every call through limiter.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(o *clientOptions) {
		if limiter != nil {
			o.limiter = limiter
		}
	}
}

// WithTimeout bounds each provider call.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRegionCode sets the CLDR region used to format results, e.g. "CA".
func WithRegionCode(code string) Option {
	return func(o *clientOptions) {
		o.regionCode = strings.ToUpper(strings.TrimSpace(code))
	}
}

// NewClient builds a Places client. An empty key is a configuration error.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, provider.ErrMissingAPIKey
	}

	o := clientOptions{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := &http.Client{Transport: &apiKeyTransport{key: apiKey, base: o.transport}}
	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if o.endpoint != "" {
		endpoint := o.endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		clientOpts = append(clientOpts, option.WithEndpoint(endpoint))
	}

	svc, err := places.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create places service: %w", err)
	}

	return &Client{svc: svc, limiter: o.limiter, timeout: o.timeout, regionCode: o.regionCode}, nil
}

// Search runs a text search, biased toward req.Viewport when set.
func (c *Client) Search(ctx context.Context, req provider.SearchRequest) ([]provider.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := &places.GoogleMapsPlacesV1SearchTextRequest{
		TextQuery:      req.Text(),
		RegionCode:     c.regionCode,
		MaxResultCount: defaultMaxResult,
	}
	if req.Limit > 0 && req.Limit < defaultMaxResult {
		body.MaxResultCount = int64(req.Limit)
	}
	if v := req.Viewport; v != nil {
		body.LocationBias = &places.GoogleMapsPlacesV1SearchTextRequestLocationBias{
			Rectangle: &places.GoogleGeoTypeViewport{
				Low:  &places.GoogleTypeLatLng{Latitude: v.South, Longitude: v.West},
				High: &places.GoogleTypeLatLng{Latitude: v.North, Longitude: v.East},
			},
		}
	}

	call := c.svc.Places.SearchText(body).Context(ctx)
	call.Header().Set("X-Goog-FieldMask", prefixFields("places."))
	resp, err := call.Do()
	if err != nil {
		return nil, wrapError("search", err)
	}

	out := make([]provider.Candidate, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p == nil {
			continue
		}
		out = append(out, toCandidate(p))
	}
	return out, nil
}

// Details fetches a single place. Unknown ids return provider.ErrNotFound.
func (c *Client) Details(ctx context.Context, placeID string) (*provider.Candidate, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, provider.ErrNotFound
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	name := placeID
	if !strings.HasPrefix(name, "places/") {
		name = "places/" + name
	}
	call := c.svc.Places.Get(name).Context(ctx)
	call.Header().Set("X-Goog-FieldMask", placeFields)
	p, err := call.Do()
	if err != nil {
		return nil, wrapError("details", err)
	}
	candidate := toCandidate(p)
	return &candidate, nil
}

// PhotoURL resolves a photo resource name to its public image URL. The media endpoint itself
// requires the API key, so only the redirect target is worth storing.
func (c *Client) PhotoURL(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSuffix(strings.TrimSpace(ref), "/media")
	if ref == "" {
		return "", provider.ErrNotFound
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	media, err := c.svc.Places.Photos.GetMedia(ref + "/media").
		MaxWidthPx(photoMaxWidth).
		SkipHttpRedirect(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapError("photo", err)
	}
	if media.PhotoUri == "" {
		return "", fmt.Errorf("google places photo: empty uri for %s", ref)
	}
	return media.PhotoUri, nil
}

func wrapError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusNotFound {
			return provider.ErrNotFound
		}
		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		return fmt.Errorf("google places %s: status %d: %s", op, apiErr.Code, msg)
	}
	return fmt.Errorf("google places %s: %w", op, err)
}

func prefixFields(prefix string) string {
	fields := strings.Split(placeFields, ",")
	for i, f := range fields {
		fields[i] = prefix + f
	}
	return strings.Join(fields, ",")
}

func toCandidate(p *places.GoogleMapsPlacesV1Place) provider.Candidate {
	c := provider.Candidate{
		Provider:       entity.ProviderGoogle,
		ExternalID:     p.Id,
		Address:        p.FormattedAddress,
		RatingCount:    int(p.UserRatingCount),
		Website:        p.WebsiteUri,
		Phone:          p.InternationalPhoneNumber,
		Categories:     p.Types,
		BusinessStatus: p.BusinessStatus,
	}
	if c.ExternalID == "" {
		c.ExternalID = strings.TrimPrefix(p.Name, "places/")
	}
	if p.DisplayName != nil {
		c.Name = p.DisplayName.Text
	}
	if c.Phone == "" {
		c.Phone = p.NationalPhoneNumber
	}
	if p.Location != nil {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		c.Latitude, c.Longitude = &lat, &lng
	}
	if p.UserRatingCount > 0 {
		rating := p.Rating
		c.Rating = &rating
	}
	for _, photo := range p.Photos {
		if photo != nil && photo.Name != "" {
			c.PhotoRef = photo.Name
			break
		}
	}
	for _, comp := range p.AddressComponents {
		if comp == nil {
			continue
		}
		for _, t := range comp.Types {
			switch t {
			case "country":
				c.Country = comp.ShortText
			case "administrative_area_level_1":
				c.State = comp.ShortText
			case "locality":
				c.City = comp.LongText
			case "neighborhood", "sublocality":
				if c.Neighborhood == "" {
					c.Neighborhood = comp.LongText
				}
			}
		}
	}
	return c
}

var _ provider.PhotoResolver = (*Client)(nil)

type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("X-Goog-Api-Key", t.key)
	return t.base.RoundTrip(clone)
}
