package models

import (
	"time"

	"github.com/google/uuid"
)

// SocialPlatform identifies a supported social platform
type SocialPlatform string

const (
	PlatformInstagram SocialPlatform = "instagram"
	PlatformTikTok    SocialPlatform = "tiktok"
)

// ValidPlatform reports whether p is a platform we support
func ValidPlatform(p SocialPlatform) bool {
	return p == PlatformInstagram || p == PlatformTikTok
}

// SocialConnection records a confirmed OAuth connection for one platform.
// A row exists only after the OAuth callback has been confirmed server-side.
type SocialConnection struct {
	UserID      uuid.UUID      `json:"user_id" db:"user_id"`
	Platform    SocialPlatform `json:"platform" db:"platform"`
	Handle      string         `json:"handle" db:"handle"`
	Connected   bool           `json:"connected" db:"connected"`
	ConnectedAt time.Time      `json:"connected_at" db:"connected_at"`
}

// SocialStatus is the per-platform connection summary returned to clients
type SocialStatus struct {
	Instagram bool `json:"instagram"`
	TikTok    bool `json:"tiktok"`
}

// AnyConnected reports whether at least one platform is connected
func (s SocialStatus) AnyConnected() bool {
	return s.Instagram || s.TikTok
}
