// ABOUTME: Built-in favicon served as ICO bytes, an SVG string, a data URI, or a link tag.
// ABOUTME: Served at /favicon.ico and inlined as a data URI in every built-in layout.
package web

import (
	"encoding/base64"
	"log"
	"net/http"
	"strings"
)

// FaviconICOBase64 is a 16x16 ICO with an "L" mark.
const FaviconICOBase64 = `AAABAAEAEBAQAAEABAAoAQAAFgAAACgAAAAQAAAAIAAAAAEABAAAAAAAgAAAAAAAAAAAAAAAEAAA
AAAAAAAAAAAAMnPcAP///wAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA
AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAQEQEQ
EQEQEREREREREREREREREREREREREREREREREREREREREREREREREREREREREREREREREREf
////8P////D////w////8P////D////w////8P////D////w////8AAAAA==`

// FaviconSVG is the vector version of the favicon.
const FaviconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32">
  <rect width="32" height="32" fill="#3273dc" rx="4"/>
  <path d="M 10 8 L 10 24 L 22 24 L 22 21 L 13 21 L 13 8 Z" fill="#ffffff"/>
</svg>`

// faviconB64 is FaviconICOBase64 without line breaks.
var faviconB64 = strings.ReplaceAll(FaviconICOBase64, "\n", "")

// FaviconICO decodes the ICO bytes.
func FaviconICO() ([]byte, error) {
	return base64.StdEncoding.DecodeString(faviconB64)
}

// FaviconDataURI returns the favicon as a data URI.
func FaviconDataURI() string {
	return "data:image/x-icon;base64," + faviconB64
}

// FaviconHTMLTag returns a link tag embedding the favicon.
func FaviconHTMLTag() string {
	return `<link rel="icon" type="image/x-icon" href="` + FaviconDataURI() + `">`
}

// ServeFavicon serves the ICO with a one-year cache lifetime.
func ServeFavicon(w http.ResponseWriter, r *http.Request) {
	data, err := FaviconICO()
	if err != nil {
		log.Printf("component=web action=favicon status=error err=%v", err)
		http.Error(w, "failed to load favicon", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/x-icon")
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	_, _ = w.Write(data)
}
