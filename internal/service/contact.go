package service

import (
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var idnaProfile = idna.Lookup

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "CA"
)

// ContactNormalizer canonicalizes the contact fields providers hand back so that values from
// different sources compare equal.
type ContactNormalizer struct {
	DefaultRegion string
}

// NewContactNormalizer builds a normalizer that parses national phone numbers in region.
func NewContactNormalizer(region string) *ContactNormalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactNormalizer{DefaultRegion: region}
}

// Phone returns the E.164 form of raw, or "" when it is not a valid number.
func (n *ContactNormalizer) Phone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, n.DefaultRegion)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// Website returns raw with a lowercase ASCII host, tracking parameters removed and no
// fragment, or "" when raw is not a usable http(s) URL.
func (n *ContactNormalizer) Website(raw string) string {
	u, err := sanitizeURL(raw)
	if err != nil {
		return ""
	}
	host, err := idnaProfile.ToASCII(strings.ToLower(strings.Trim(u.Hostname(), ".")))
	if err != nil || host == "" || !strings.Contains(host, ".") {
		return ""
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	u.Fragment = ""
	stripTracking(u)
	return u.String()
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, url.InvalidHostError("")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, url.InvalidHostError(raw)
	}
	return u, nil
}

func stripTracking(u *url.URL) {
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}
