package signalling

import (
	"log/slog"
	"net/netip"

	"github.com/studiocast/relay/internal/config"
)

type AuthHandler struct {
	cfg *config.Manager
}

func NewAuthHandler(cfg *config.Manager) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// CheckAdminCredential validates the basicauth pair for the admin API.
// Authentication is disabled when no credential is configured.
func (h *AuthHandler) CheckAdminCredential(user, pass string) bool {
	credential := h.cfg.Get().Security.AdminCredential
	return credential == nil || (user == "admin" && pass == *credential)
}

// IsAdminAddr checks the remote "IP:port" address against the configured
// admin networks.
func (h *AuthHandler) IsAdminAddr(addrPort string) bool {
	ip, err := netip.ParseAddrPort(addrPort)
	if err != nil {
		slog.Error("failed to parse remote address", "addr", addrPort, "error", err)
		return false
	}

	for _, n := range h.cfg.Get().Security.AdminsRawNetworks {
		if n.Contains(ip.Addr()) {
			return true
		}
	}
	return false
}
