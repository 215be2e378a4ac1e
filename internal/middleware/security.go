package middleware

import (
	"net/http"
)

// ColorSchemeHint is the client hint carrying the browser's light/dark preference
const ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

// SecurityHeaders adds security headers to HTTP responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// XSS Protection (legacy browsers)
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		// Referrer policy
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Content Security Policy
		// Pages render server-side; the only script is static/meeting.js
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self'; "+
				"style-src 'self' https://fonts.googleapis.com; "+
				"font-src 'self' https://fonts.gstatic.com; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self' ws: wss:; "+
				"form-action 'self'; "+
				"frame-ancestors 'none'")

		// Permissions Policy (formerly Feature-Policy)
		// Clipboard is used by copy link; camera and microphone are never touched
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), clipboard-write=(self)")

		// Ask for the colour scheme hint so the first render can follow the OS theme
		w.Header().Set("Accept-CH", ColorSchemeHint)
		w.Header().Set("Critical-CH", ColorSchemeHint)
		w.Header().Add("Vary", ColorSchemeHint)

		next.ServeHTTP(w, r)
	})
}

// NoCache marks dynamic pages as not cacheable
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}
