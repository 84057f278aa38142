package validation

import (
	"net/url"
	"strings"

	apperrors "go-face-inspector/internal/errors"
)

// AzureBlobHostSuffix is the public endpoint suffix of Azure blob storage
const AzureBlobHostSuffix = ".blob.core.windows.net"

// BlobURLValidator handles blob URL validation logic
type BlobURLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewBlobURLValidator creates a validator accepting https blob URLs on any
// account, or only on allowedHosts when that list is non-empty.
func NewBlobURLValidator(allowedHosts []string) *BlobURLValidator {
	return &BlobURLValidator{
		allowedSchemes: []string{"https"},
		allowedHosts:   allowedHosts,
	}
}

// ValidateBlobURL validates if the provided URL addresses a single blob
func (v *BlobURLValidator) ValidateBlobURL(blobURL string) error {
	if strings.TrimSpace(blobURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(blobURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	host := strings.ToLower(parsedURL.Hostname())
	if host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !strings.HasSuffix(host, AzureBlobHostSuffix) || host == AzureBlobHostSuffix[1:] {
		return apperrors.NewValidationError("URL is not an Azure blob URL", nil)
	}

	if !v.isHostAllowed(host) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	segments := strings.SplitN(strings.TrimPrefix(parsedURL.Path, "/"), "/", 2)
	if len(segments) != 2 || segments[0] == "" || strings.Trim(segments[1], "/") == "" {
		return apperrors.NewValidationError("URL must name a container and a blob", nil)
	}

	return nil
}

// isSchemeAllowed checks if the URL scheme is in the allowed list
func (v *BlobURLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// isHostAllowed checks if the URL host is in the allowed list
// Returns true if no host restrictions are set (empty allowedHosts)
func (v *BlobURLValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if strings.EqualFold(host, allowed) {
			return true
		}
	}
	return false
}
