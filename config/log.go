package config

const (
	// System is the key to use to prefix system log messages
	System = "[system]"
	// Filter is the key to use to prefix lead pipeline log messages
	Filter = "[filter]"
	// DiscordPrefix is the key to use to prefix Discord session log messages
	DiscordPrefix = "[discord]"
	// AdminPrefix is the key to use to prefix admin log messages
	AdminPrefix = "[admin]"
	// OCRPrefix is the key to use to prefix OCR log messages
	OCRPrefix = "[ocr]"
	// RelayPrefix is the key to use to prefix relay queue log messages
	RelayPrefix = "[relay]"
)
