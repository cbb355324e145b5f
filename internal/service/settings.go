package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fourhand/wifi-remocon/internal/logger"
	"github.com/fourhand/wifi-remocon/internal/repository"
)

// SettingsService persists the remote control-server override and applies it
// to the live client without a restart.
type SettingsService struct {
	api          RemoteAPI
	settingsRepo repository.SettingsRepo
	log          *logger.Logger
}

func NewSettingsService(api RemoteAPI, settingsRepo repository.SettingsRepo, log *logger.Logger) *SettingsService {
	return &SettingsService{api: api, settingsRepo: settingsRepo, log: log}
}

// RemoteBaseURL returns the base URL currently in effect.
func (s *SettingsService) RemoteBaseURL() string {
	return s.api.BaseURL()
}

// SetRemoteBaseURL validates, persists, and applies a new control-server
// address. Only http/https targets are accepted.
func (s *SettingsService) SetRemoteBaseURL(ctx context.Context, u string) error {
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("base url must be http(s) with a host, got %q", u)
	}

	if err := s.settingsRepo.Set(ctx, repository.KeyRemoteBaseURL, u); err != nil {
		return fmt.Errorf("persist base url: %w", err)
	}
	s.api.SetBaseURL(u)
	if s.log != nil {
		s.log.Infow("remote_base_url_changed", "url", u)
	}
	return nil
}
