package models

import "github.com/golang-jwt/jwt/v5"

// Merchant permissions
const (
	PermissionSessionWrite = "session:write"
	PermissionSessionRead  = "session:read"
	PermissionSubmit       = "session:submit"
)

// MerchantClaims authenticate a merchant backend.
type MerchantClaims struct {
	jwt.RegisteredClaims
	MerchantID  string   `json:"merchant_id"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *MerchantClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// DefaultMerchantPermissions are granted when a token carries none.
func DefaultMerchantPermissions() []string {
	return []string{PermissionSessionWrite, PermissionSessionRead, PermissionSubmit}
}

// WebhookClaims sign calls made to merchant callback URLs.
type WebhookClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
}
