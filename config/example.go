package config

// ExampleConfigurationFile outputs leadfilter.conf file contents
const ExampleConfigurationFile = `##################################################
### Example leadfilter configuration file
##################################################

## ---------- Database ------------
[database]
# The connection string for your database, default is '/etc/leadfilter/leadfilter.db' for the sqlite3 driver.
# Example: postgres connectionString = 'dbname=leadfilter user=user sslmode=disable host=my_host password=my_password'
# connectionString = ''

# The database driver; sqlite3 or postgres, default is 'sqlite3'. NOTE: use sqlite3 for local development only.
# driver = 'postgres'

# The maximum number of connections to use, default is 50.
# maxConnections =

# Whether or not to migrate the database on startup, default is false.
# migrate =

## ---------- Discord ------------
[discord]
# The bot token. Required.
# token = ''

# The user ID approved leads are DMed to.
# forwardUserId = ''

# Whether to reply in-channel when the forward user cannot be DMed, default is true.
# fallbackToChannel =

# The default minimum ROI percentage new guilds start from, default is 20.
# minRoi =

# The default dedupe window in hours, default is 6.
# dedupeHours =

# Comma-separated alert keywords that block a lead, default is 'IP,PL'.
# blockKeywords = ''

## ---------- OCR ------------
[ocr]
# The OCR provider for image-only posts; 'ocrspace', 'tesseract', or blank to disable.
# provider = ''

# The OCR.space API key. Required when provider is 'ocrspace'.
# apiKey = ''

# The OCR language code, default is 'eng'.
# language = ''

# The timeout in seconds to use for OCR requests, default is 30.
# timeout =

## ---------- Admin ------------
[admin]
# The host the admin API is accessible via, default is blank (all interfaces).
# host = ''

# The port of the admin API server, default is 8080.
# port =

# The path prefix the admin API is accessible under, default is '/admin/'.
# pathPrefix = ''

# The username for HTTP Basic Auth, default is 'admin'.
# username = ''

# The password for HTTP Basic Auth.
# password = 'CHANGE'

# Set to true to disable HTTP Basic Auth for local development, default is false.
# devMode =

# The HTTP Basic realm to use (optional).
# realm = ''

# Set to false to disable CORS headers from being added to admin responses, default is true.
# corsEnabled =

# The Access-Control-Allow-Origin header value to send with admin responses, default is '*'.
# corsOrigin = ''

# The header to send the admin request ID back in. Not sent if blank.
# requestIdHeader = ''

## ---------- Relay ------------
[relay]
# Whether to publish approved leads on the relay queue, default is false.
# enabled =

# The URI the relay publisher binds to, default is 'tcp://127.0.0.1:9111'.
# bind = ''

# The publish buffer size in messages, default is 0 (unbuffered).
# buffer =

## ---------- Stats ------------
[stats]
# Whether to record pipeline counters in the database, default is true.
# collect =

## ---------- Error Notification (optional) ------------
[airbrake]
# The API key to use for Airbrake notifications.
# apiKey = ''

# The environment tag under which errors are reported to Airbrake.
# environment = ''

# The ID assigned to your Airbrake project.
# projectId =
`
