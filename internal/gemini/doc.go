// Package gemini is the gateway to Google's Generative Language API.
// It maps assembled conversation turns onto a single synchronous
// generateContent call and extracts the reply text. The API key comes
// from the settings store per call; there is no retry or streaming.
package gemini
