package maps

import (
	"net/url"
	"strings"
)

const (
	embedBase  = "https://www.google.com/maps/embed/v1/search"
	searchBase = "https://www.google.com/maps/search/"
)

// EmbedURL builds the iframe source searching for attractions at the destination.
func EmbedURL(apiKey, destination string) string {
	return embedBase + "?key=" + url.QueryEscape(apiKey) + "&q=tourist+attractions+in+" + queryComponent(destination)
}

// queryComponent escapes every reserved character and encodes spaces as %20.
func queryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SearchURL is a keyless link that opens the destination in Google Maps.
func SearchURL(destination string) string {
	return searchBase + "?api=1&query=" + url.QueryEscape(destination)
}
