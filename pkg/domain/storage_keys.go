package domain

// Keys under which client state is persisted to local storage. The persisted
// shape carries no version; readers must tolerate missing keys.
const (
	StorageKeyAuthToken      = "auth_token"
	StorageKeyAuthUser       = "auth_user"
	StorageKeyTheme          = "theme"
	StorageKeyFontSize       = "font_size"
	StorageKeyOnboardingSeen = "onboarding_seen"
)
