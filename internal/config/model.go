package config

import (
	"net/netip"

	"github.com/studiocast/relay/internal/api"
)

type AppConfig struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Security SecurityConfig `json:"security" yaml:"security"`
	WebRTC   WebRTCConfig   `json:"webrtc" yaml:"webrtc"`
	Relay    RelayConfig    `json:"relay" yaml:"relay"`
}

type ServerConfig struct {
	Port         int    `json:"port" yaml:"port"`
	CORSOrigin   string `json:"corsOrigin" yaml:"corsOrigin"`
	PingInterval int    `json:"pingInterval" yaml:"pingInterval"` // msec
}

type SecurityConfig struct {
	AdminCredential   *string        `json:"adminCredential" yaml:"adminCredential"`
	TLSCrtFile        *string        `json:"tlsCrtFile" yaml:"tlsCrtFile"`
	TLSKeyFile        *string        `json:"tlsKeyFile" yaml:"tlsKeyFile"`
	AdminsRawNetworks []netip.Prefix `json:"adminsNetworks" yaml:"adminsNetworks"`
}

type WebRTCConfig struct {
	PeerConnectionConfig api.PeerConnectionConfig `json:"peerConnectionConfig" yaml:"peerConnectionConfig"`
}

type RelayConfig struct {
	// MaxMessageSize bounds a single inbound frame, in bytes. SDP offers
	// rarely exceed a few tens of kilobytes.
	MaxMessageSize int64 `json:"maxMessageSize" yaml:"maxMessageSize"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:         3001,
			CORSOrigin:   "*",
			PingInterval: 30000,
		},
		Security: SecurityConfig{
			AdminCredential: nil,
			AdminsRawNetworks: []netip.Prefix{
				netip.MustParsePrefix("0.0.0.0/0"),
			},
			TLSCrtFile: nil,
			TLSKeyFile: nil,
		},
		WebRTC: WebRTCConfig{
			PeerConnectionConfig: api.DefaultPeerConnectionConfig(),
		},
		Relay: RelayConfig{
			MaxMessageSize: 64 * 1024,
		},
	}
}
