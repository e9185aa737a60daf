package credentials

import (
	"errors"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/zfogg/picfeed/pkg/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Credentials is the IdP token the user logged in with and who it resolved to
type Credentials struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	SavedAt     time.Time `json:"saved_at"`
}

// Load loads credentials from disk; (nil, nil) when the user never logged in
func Load() (*Credentials, error) {
	data, err := os.ReadFile(config.GetCredentialsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Save saves credentials to disk, readable by the owner only
func Save(creds *Credentials) error {
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(config.GetCredentialsPath(), data, 0600)
}

// Delete removes the credentials file; a missing file is not an error
func Delete() error {
	err := os.Remove(config.GetCredentialsPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// IsValid reports whether a token is present
func (c *Credentials) IsValid() bool {
	return c != nil && c.AccessToken != ""
}
