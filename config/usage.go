package config

const dbConnStringHelp = `The connection string for your database

    	For sqlite3, the path to the database file.

    	For postgres, a string of the format "parameter=value parameter2=value2"

    	Valid parameters:

    	* dbname - The name of the database to connect to
    	* user - The user to sign in as
    	* password - The user's password
    	* host - The host to connect to. Values that start with / are for unix domain sockets. (default is localhost)
    	* port - The port to bind to. (default is 5432)
    	* sslmode - Whether or not to use SSL (default is require, this is not the default for libpq)
    	* connect_timeout - Maximum wait for connection, in seconds. Zero or not specified means wait indefinitely.`

var usageStrings = map[string]string{
	"version":        "Whether to print the version and quit",
	"example-config": "Whether to print an example leadfilter.conf file and quit",
	"config":         "The path to the configuration file",

	"airbrake-api-key":     "The API key to use for Airbrake notifications",
	"airbrake-project-id":  "The ID assigned to your Airbrake project",
	"airbrake-environment": "The environment tag under which errors are reported to Airbrake",

	"db-migrate":         "Whether or not to migrate the database on startup",
	"db-driver":          "The database driver; sqlite3 or postgres",
	"db-conn-string":     dbConnStringHelp,
	"db-max-connections": "The maximum number of connections to use",

	"discord-token":               "The Discord bot token. Required.",
	"discord-forward-user-id":     "The Discord user ID approved leads are DMed to",
	"discord-fallback-to-channel": "Whether to reply in-channel when the forward user cannot be DMed",

	"filter-min-roi":        "The default minimum ROI percentage for new guilds",
	"filter-dedupe-hours":   "The default number of hours an ASIN is suppressed after being forwarded",
	"filter-block-keywords": "Comma-separated alert keywords that block a lead",

	"ocr-provider": "The OCR provider for image-only posts; ocrspace, tesseract, or blank to disable",
	"ocr-api-key":  "The OCR.space API key. Required when ocr-provider is ocrspace.",
	"ocr-language": "The OCR language code",
	"ocr-timeout":  "The timeout in seconds to use for OCR requests",

	"admin-host":        "The host the admin API is accessible via",
	"admin-port":        "The port of the admin API server",
	"admin-path-prefix": "The path prefix the admin API is accessible under",

	"admin-cors-enabled": "Set to false to disable CORS headers from being added to admin responses.",
	"admin-cors-origin":  "The Access-Control-Allow-Origin header value to send with admin responses.",

	"admin-request-id-header": "The header to send the admin request ID back in. Not sent if blank.",

	"admin-username": "The username to require with HTTP Basic Auth to protect the admin API",
	"admin-password": "The password to require with HTTP Basic Auth to protect the admin API",
	"admin-realm":    "The HTTP Basic realm to use. Optional.",

	"admin-dev-mode": "Whether to run the admin API unauthenticated, for local development only",

	"relay-enabled": "Whether to publish approved leads on the relay queue",
	"relay-bind":    "The URI the relay publisher binds to; tcp:// and ipc:// are supported",
	"relay-buffer":  "The relay publisher socket buffer size; 0 uses the transport default",

	"stats-collect": "Whether or not to collect stats on pipeline activity.",
}
