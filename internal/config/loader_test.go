package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadAppConfigDefaults(t *testing.T) {
	cfg, err := LoadAppConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}

	if cfg.Server.Port != 3001 {
		t.Errorf("Port = %d, want 3001", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "*" {
		t.Errorf("CORSOrigin = %q, want *", cfg.Server.CORSOrigin)
	}
	if cfg.Security.AdminCredential != nil {
		t.Errorf("AdminCredential = %v, want nil", *cfg.Security.AdminCredential)
	}
	if cfg.Relay.MaxMessageSize != 64*1024 {
		t.Errorf("MaxMessageSize = %d, want 65536", cfg.Relay.MaxMessageSize)
	}
	if len(cfg.WebRTC.PeerConnectionConfig.ICEServers) == 0 {
		t.Error("default config carries no ICE servers")
	}
}

func TestLoadAppConfigYamlOverridesKeepUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "server.yaml", "port: 8080\n")
	writeConfigFile(t, dir, "security.yaml", "adminCredential: hunter2\nadminsNetworks:\n  - 10.0.0.0/8\n")

	cfg, err := LoadAppConfig(dir)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "*" {
		t.Errorf("CORSOrigin = %q, default should survive a partial server.yaml", cfg.Server.CORSOrigin)
	}
	if cfg.Server.PingInterval != 30000 {
		t.Errorf("PingInterval = %d, want default 30000", cfg.Server.PingInterval)
	}
	if cfg.Security.AdminCredential == nil || *cfg.Security.AdminCredential != "hunter2" {
		t.Errorf("AdminCredential = %v, want hunter2", cfg.Security.AdminCredential)
	}
	want := netip.MustParsePrefix("10.0.0.0/8")
	if len(cfg.Security.AdminsRawNetworks) != 1 || cfg.Security.AdminsRawNetworks[0] != want {
		t.Errorf("AdminsRawNetworks = %v, want [%v]", cfg.Security.AdminsRawNetworks, want)
	}
}

func TestLoadAppConfigJSONFallback(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "relay.json", `{"maxMessageSize": 1024}`)

	cfg, err := LoadAppConfig(dir)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.Relay.MaxMessageSize != 1024 {
		t.Errorf("MaxMessageSize = %d, want 1024", cfg.Relay.MaxMessageSize)
	}
}

func TestLoadAppConfigYamlPreferredOverJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "server.yaml", "port: 1111\n")
	writeConfigFile(t, dir, "server.json", `{"port": 2222}`)

	cfg, err := LoadAppConfig(dir)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.Server.Port != 1111 {
		t.Errorf("Port = %d, yaml should win over json", cfg.Server.Port)
	}
}

func TestLoadAppConfigEmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "server.yaml", "")

	cfg, err := LoadAppConfig(dir)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("Port = %d, want default 3001", cfg.Server.Port)
	}
}

func TestLoadAppConfigRejectsBadNetwork(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "security.yaml", "adminsNetworks:\n  - not-a-prefix\n")

	if _, err := LoadAppConfig(dir); err == nil {
		t.Fatal("expected an error for an unparseable admin network")
	}
}

func TestLoadAppConfigCustomICEServers(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "webrtc.yaml",
		"peerConnectionConfig:\n  iceServers:\n    - urls:\n        - turn:turn.example.org:3478\n")

	cfg, err := LoadAppConfig(dir)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	servers := cfg.WebRTC.PeerConnectionConfig.ICEServers
	if len(servers) != 1 || len(servers[0].URLs) != 1 || servers[0].URLs[0] != "turn:turn.example.org:3478" {
		t.Errorf("ICEServers = %+v", servers)
	}
}
