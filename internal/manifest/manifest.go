// Package manifest serves the Farcaster Mini App manifest.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Frame describes the Mini App launch card.
type Frame struct {
	Name                  string `json:"name"`
	IconURL               string `json:"iconUrl"`
	HomeURL               string `json:"homeUrl"`
	ImageURL              string `json:"imageUrl"`
	ButtonTitle           string `json:"buttonTitle"`
	SplashImageURL        string `json:"splashImageUrl"`
	SplashBackgroundColor string `json:"splashBackgroundColor"`
}

// Default is served when the manifest file cannot be read.
func Default(siteURL string) map[string]any {
	base := strings.TrimRight(siteURL, "/")
	return map[string]any{
		"frame": Frame{
			Name:                  "Master En DeFi",
			IconURL:               base + "/master_defi_icon.png",
			HomeURL:               base + "/",
			ImageURL:              base + "/master_defi_banner.png",
			ButtonTitle:           "Comenzar a aprender",
			SplashImageURL:        base + "/splash.png",
			SplashBackgroundColor: "#000000",
		},
	}
}

// Source reads the manifest from disk on every request so edits need no restart.
type Source struct {
	path    string
	siteURL string
}

// NewSource builds a Source for the file at path.
func NewSource(path, siteURL string) *Source {
	return &Source{path: path, siteURL: siteURL}
}

// Load returns the manifest file's JSON. The error is non-nil when the file is
// missing or not valid JSON; Fallback then supplies the body to serve.
func (s *Source) Load() (json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("manifest %s is not valid JSON", s.path)
	}
	return json.RawMessage(b), nil
}

// Fallback is the default manifest for this site.
func (s *Source) Fallback() map[string]any {
	return Default(s.siteURL)
}
