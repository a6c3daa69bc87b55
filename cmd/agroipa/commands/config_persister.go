package commands

import (
	"sync"
)

// ConfigPersister writes refreshed tokens back to the CLI config file so the
// next invocation starts authenticated.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateTokens implements agroclient.CredentialPersister.
func (p *ConfigPersister) UpdateTokens(accessToken, refreshToken string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()
	config.AccessToken = accessToken

	if refreshToken != "" {
		config.RefreshToken = refreshToken
	}

	return saveConfig(config)
}

// ClearTokens implements agroclient.CredentialPersister.
func (p *ConfigPersister) ClearTokens() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()
	config.AccessToken = ""
	config.RefreshToken = ""

	return saveConfig(config)
}
