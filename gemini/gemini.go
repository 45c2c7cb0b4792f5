// Package gemini implements [kaoyan.Provider] for the Google Gemini API
// using the genai SDK. Gemini responses carry no reasoning channel, so the
// provider only ever emits [kaoyan.ChunkContent].
package gemini

const (
	defaultModel       = "gemini-2.5-flash"
	defaultTemperature = 0.8
	jsonMIMEType       = "application/json"
)
