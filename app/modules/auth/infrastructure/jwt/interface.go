package authjwt

import authdomain "github.com/cuwais/cuwais-portal/app/modules/auth/domain"

// Inspector decodes identity tokens without verifying their signature.
// Verification belongs to the portal backend.
type Inspector interface {
	Inspect(tokenString string) (*authdomain.Identity, error)
}
