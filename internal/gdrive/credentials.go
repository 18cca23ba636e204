// Package gdrive integrates with Google Drive: parsing OAuth client
// credential files for the one-time token bootstrap, and uploading backup
// files using a long-lived refresh token.
package gdrive

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ClientCredentials is the client block extracted from a Google Cloud
// OAuth credentials JSON download.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	ProjectID    string
}

type credentialsFile struct {
	Installed *clientBlock `json:"installed"`
	Web       *clientBlock `json:"web"`
}

type clientBlock struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	ProjectID    string `json:"project_id"`
}

// ParseClientCredentials extracts the client block from a credentials JSON
// download. Either an "installed" or a "web" application block is accepted;
// anything else is a malformed file.
func ParseClientCredentials(data []byte) (ClientCredentials, error) {
	var file credentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return ClientCredentials{}, fmt.Errorf("parse credentials file: %w", err)
	}

	block := file.Installed
	if block == nil {
		block = file.Web
	}
	if block == nil {
		return ClientCredentials{}, errors.New(`invalid credentials file: expected an "installed" or "web" application block`)
	}
	if block.ClientID == "" || block.ClientSecret == "" {
		return ClientCredentials{}, errors.New("invalid credentials file: missing client_id or client_secret")
	}

	return ClientCredentials{
		ClientID:     block.ClientID,
		ClientSecret: block.ClientSecret,
		ProjectID:    block.ProjectID,
	}, nil
}
