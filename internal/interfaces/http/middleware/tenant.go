package middleware

import (
	"strings"

	"github.com/erp/contable/internal/infrastructure/logger"
	"github.com/erp/contable/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantIDKey is the gin context key holding the resolved tenant uuid.UUID
const TenantIDKey = "tenant_id"

// Tenant resolves the tenant of the request. The JWT claim wins over the
// X-Tenant-ID header; both are trusted verbatim once they parse as UUIDs.
func Tenant(skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range skipPrefixes {
			if path == p || strings.HasPrefix(path, p+"/") {
				c.Next()
				return
			}
		}

		raw := c.GetHeader(HeaderTenantID)
		if claims := GetClaims(c); claims != nil && claims.TenantID != "" {
			raw = claims.TenantID
		}
		if raw == "" {
			abortWithError(c, dto.ErrCodeBadRequest, "Tenant is required")
			return
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			abortWithError(c, dto.ErrCodeBadRequest, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, tenantID)
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID.String()))
		c.Next()
	}
}

// GetTenantID returns the tenant set by Tenant
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
