package middleware

import (
	"net"
	"strings"

	"github.com/erp/contable/internal/infrastructure/config"
	"github.com/erp/contable/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SwaggerProtection guards the API docs: 404 when disabled, 403 for clients
// outside AllowedIPs (single IPs or CIDRs; empty allows everyone).
func SwaggerProtection(cfg config.SwaggerConfig) gin.HandlerFunc {
	var allowedNets []*net.IPNet
	for _, s := range cfg.AllowedIPs {
		if !strings.Contains(s, "/") {
			if ip := net.ParseIP(s); ip != nil {
				bits := 32
				if ip.To4() == nil {
					bits = 128
				}
				allowedNets = append(allowedNets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			}
			continue
		}
		if _, network, err := net.ParseCIDR(s); err == nil {
			allowedNets = append(allowedNets, network)
		}
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, dto.ErrCodeNotFound, "API documentation is not available")
			return
		}
		if len(cfg.AllowedIPs) > 0 && !ipAllowed(net.ParseIP(c.ClientIP()), allowedNets) {
			abortWithError(c, dto.ErrCodeForbidden, "Access to API documentation is restricted")
			return
		}
		c.Next()
	}
}

func ipAllowed(ip net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
