package service

import (
	"context"
	"testing"

	"github.com/fourhand/wifi-remocon/internal/repository"
)

func TestSetRemoteBaseURL_PersistsAndApplies(t *testing.T) {
	api := &fakeRemote{baseURL: "http://192.168.0.5:8000"}
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(api, repo, nil)

	if err := svc.SetRemoteBaseURL(context.Background(), "http://10.0.0.2:9000"); err != nil {
		t.Fatalf("SetRemoteBaseURL: %v", err)
	}
	if got := svc.RemoteBaseURL(); got != "http://10.0.0.2:9000" {
		t.Fatalf("live client not updated, got %q", got)
	}
	if repo.values[repository.KeyRemoteBaseURL] != "http://10.0.0.2:9000" {
		t.Fatalf("override not persisted: %v", repo.values)
	}
}

func TestSetRemoteBaseURL_RejectsBadTargets(t *testing.T) {
	api := &fakeRemote{baseURL: "http://192.168.0.5:8000"}
	svc := NewSettingsService(api, &fakeSettingsRepo{}, nil)

	for _, u := range []string{"ftp://host", "not a url", "http://", ""} {
		if err := svc.SetRemoteBaseURL(context.Background(), u); err == nil {
			t.Errorf("accepted %q", u)
		}
	}
	if got := svc.RemoteBaseURL(); got != "http://192.168.0.5:8000" {
		t.Fatalf("base url changed on rejected input: %q", got)
	}
}

func TestSetRemoteBaseURL_PersistFailureLeavesClientUntouched(t *testing.T) {
	api := &fakeRemote{baseURL: "http://192.168.0.5:8000"}
	repo := &fakeSettingsRepo{setErr: errBoom}
	svc := NewSettingsService(api, repo, nil)

	if err := svc.SetRemoteBaseURL(context.Background(), "http://10.0.0.2:9000"); err == nil {
		t.Fatalf("expected persist error")
	}
	if got := svc.RemoteBaseURL(); got != "http://192.168.0.5:8000" {
		t.Fatalf("client updated despite persist failure: %q", got)
	}
}
