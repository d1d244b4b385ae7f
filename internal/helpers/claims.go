package helpers

type EnhancedClaims struct {
	*CustomClaims
	Role   string `json:"role"`
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
}

func NewEnhancedClaims(claims *CustomClaims) *EnhancedClaims {
	return &EnhancedClaims{
		CustomClaims: claims,
		Role:         claims.Role,
		UserID:       claims.Subject,
		Email:        claims.Email,
	}
}

func (ec *EnhancedClaims) GetSafeRole() string {
	if ec.Role == "" {
		return "guest"
	}
	return ec.Role
}
