package jwttoken

import (
	authmw "medid/pkg/platform/middleware/auth"
)

func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	mc := &authmw.JWTClaims{
		IdentityID:  claims.IdentityID,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
		JTI:         claims.ID,
	}
	if claims.ExpiresAt != nil {
		mc.ExpiresAt = claims.ExpiresAt.Time
	}
	return mc
}

// JWTServiceAdapter exposes JWTService as the auth middleware's validator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
