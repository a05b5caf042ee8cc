package config

import (
	"net/netip"

	"github.com/studiocast/relay/internal/api"
)

type RawServerConfig struct {
	Port         *int    `yaml:"port" json:"port"`
	CORSOrigin   *string `yaml:"corsOrigin" json:"corsOrigin"`
	PingInterval *int    `yaml:"pingInterval" json:"pingInterval"`
}

func (r RawServerConfig) ToDomain() ServerConfig {
	var cfg ServerConfig
	if r.Port != nil {
		cfg.Port = *r.Port
	}
	if r.CORSOrigin != nil {
		cfg.CORSOrigin = *r.CORSOrigin
	}
	if r.PingInterval != nil {
		cfg.PingInterval = *r.PingInterval
	}
	return cfg
}

type RawSecurityConfig struct {
	AdminCredential   *string   `yaml:"adminCredential" json:"adminCredential"`
	TLSCrtFile        *string   `yaml:"tlsCrtFile" json:"tlsCrtFile"`
	TLSKeyFile        *string   `yaml:"tlsKeyFile" json:"tlsKeyFile"`
	AdminsRawNetworks *[]string `yaml:"adminsNetworks" json:"adminsNetworks"`
}

func (r RawSecurityConfig) ToDomain() (SecurityConfig, error) {
	var cfg SecurityConfig
	cfg.AdminCredential = r.AdminCredential
	cfg.TLSCrtFile = r.TLSCrtFile
	cfg.TLSKeyFile = r.TLSKeyFile

	if r.AdminsRawNetworks != nil {
		nets := make([]netip.Prefix, 0, len(*r.AdminsRawNetworks))
		for _, s := range *r.AdminsRawNetworks {
			p, err := netip.ParsePrefix(s)
			if err != nil {
				return SecurityConfig{}, err
			}
			nets = append(nets, p)
		}
		cfg.AdminsRawNetworks = nets
	}

	return cfg, nil
}

type RawWebRTCConfig struct {
	PeerConnectionConfig *api.PeerConnectionConfig `yaml:"peerConnectionConfig" json:"peerConnectionConfig"`
}

func (r RawWebRTCConfig) ToDomain() WebRTCConfig {
	var cfg WebRTCConfig
	if r.PeerConnectionConfig != nil {
		cfg.PeerConnectionConfig = *r.PeerConnectionConfig
	}
	return cfg
}

type RawRelayConfig struct {
	MaxMessageSize *int64 `yaml:"maxMessageSize" json:"maxMessageSize"`
}

func (r RawRelayConfig) ToDomain() RelayConfig {
	var cfg RelayConfig
	if r.MaxMessageSize != nil {
		cfg.MaxMessageSize = *r.MaxMessageSize
	}
	return cfg
}
