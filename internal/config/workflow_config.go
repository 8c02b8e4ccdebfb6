package config

import "time"

const (
	// Session cookies
	TokenCookie     = "token"
	UserCookie      = "user"
	FlashCookie     = "flash"
	LangCookie      = "lang"
	SessionLifetime = 7 * 24 * time.Hour
	// DevSessionSecret signs cookies when SESSION_SECRET is unset. Release
	// mode refuses to start with it.
	DevSessionSecret = "devsessionsecret"

	// Form rules
	UsernameMinLength    = 3
	PasswordMinLength    = 6
	TitleMinLength       = 5
	DescriptionMinLength = 10
	MaxAttachmentBytes   = 5 << 20

	// Notifications
	FlashTTL = 2 * time.Minute

	// Listing defaults
	DefaultPage      = 1
	DefaultPageLimit = 10
	TaskPageLimit    = 100
	StatsPageLimit   = 1000

	// Request correlation
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"

	// Live refresh
	DefaultLivePollInterval = 30 * time.Second
)
