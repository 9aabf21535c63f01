// Package httpcache maps resource classes to Cache-Control policies and
// implements conditional-request freshness checks.
package httpcache

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ResourceClass is the closed set of cacheable surfaces.
type ResourceClass int

const (
	ClassSettings ResourceClass = iota
	ClassFontList
	ClassHistory
	ClassPreview
	ClassFontSearch
)

// Policy describes one Cache-Control contract.
type Policy struct {
	TTL        int // seconds
	StaleWhile int // stale-while-revalidate window, seconds
	Visibility string
	NoStore    bool
}

var policies = map[ResourceClass]Policy{
	ClassSettings:   {TTL: 60, StaleWhile: 300, Visibility: "public"},
	ClassFontList:   {TTL: 86400, StaleWhile: 604800, Visibility: "public"},
	ClassHistory:    {TTL: 300, StaleWhile: 3600, Visibility: "private"},
	ClassPreview:    {NoStore: true},
	ClassFontSearch: {TTL: 3600, StaleWhile: 86400, Visibility: "public"},
}

// HeaderValue renders the Cache-Control header for a resource class.
func HeaderValue(class ResourceClass) string {
	p := policies[class]
	if p.NoStore {
		return "no-store, no-cache, must-revalidate"
	}
	return fmt.Sprintf("%s, max-age=%d, stale-while-revalidate=%d", p.Visibility, p.TTL, p.StaleWhile)
}

// Apply sets the Cache-Control header for the given resource class.
func Apply(c *fiber.Ctx, class ResourceClass) {
	c.Set(fiber.HeaderCacheControl, HeaderValue(class))
}

// ApplyNoStore marks a response as never cacheable; used on every mutation.
func ApplyNoStore(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
}

// IsCacheFresh reports whether the client's copy is still current: true
// iff lastModified <= ifModifiedSince. Malformed input is treated as "not
// fresh" so we fail toward re-fetching, never toward a wrong 304.
func IsCacheFresh(lastModified time.Time, ifModifiedSince string) bool {
	if ifModifiedSince == "" || lastModified.IsZero() {
		return false
	}
	clientTime, err := parseHTTPTime(ifModifiedSince)
	if err != nil {
		return false
	}
	// Header granularity is one second; truncate before comparing.
	return !lastModified.Truncate(time.Second).After(clientTime)
}

func parseHTTPTime(value string) (time.Time, error) {
	for _, layout := range []string{http1TimeFormat, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", value)
}

const http1TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// NotModified writes a 304 with cache headers only, no body.
func NotModified(c *fiber.Ctx, class ResourceClass, lastModified time.Time) error {
	Apply(c, class)
	c.Set(fiber.HeaderLastModified, lastModified.UTC().Format(http1TimeFormat))
	return c.SendStatus(fiber.StatusNotModified)
}

// SetLastModified stamps the freshness oracle on a 200 response.
func SetLastModified(c *fiber.Ctx, lastModified time.Time) {
	c.Set(fiber.HeaderLastModified, lastModified.UTC().Format(http1TimeFormat))
}
