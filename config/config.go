// Package config implements configuration parsing for the lead filter.
package config

import (
	"flag"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
)

// SystemVersion is the release version reported by -version and the admin
// status endpoint.
const SystemVersion = "1.0.0"

// Configuration specifies the complete lead filter configuration.
type Configuration struct {
	File string `flag:"config" default:"/etc/leadfilter/leadfilter.conf"`

	Version       bool `flag:"version" default:"false"`
	ExampleConfig bool `flag:"example-config" default:"false"`

	Airbrake Airbrake
	Database Database
	Discord  Discord
	OCR      OCR
	Admin    Admin
	Relay    Relay
	Stats    Stats
}

// Airbrake specifies configuration options for error reporting.
type Airbrake struct {
	APIKey      string `flag:"airbrake-api-key" default:""`
	ProjectID   int64  `flag:"airbrake-project-id" default:"0"`
	Environment string `flag:"airbrake-environment" default:"development"`
}

// Database specifies configuration options for your database
type Database struct {
	Migrate          bool   `flag:"db-migrate"     default:"false"`
	Driver           string `flag:"db-driver"      default:"sqlite3"`
	ConnectionString string `flag:"db-conn-string" default:"/etc/leadfilter/leadfilter.db"`
	MaxConnections   int64  `flag:"db-max-connections" default:"50"`
}

// Discord specifies configuration options for the Discord session and the
// global filter defaults new guilds start from.
type Discord struct {
	Token         string `flag:"discord-token" default:""`
	ForwardUserID string `flag:"discord-forward-user-id" default:""`

	FallbackToChannel bool `flag:"discord-fallback-to-channel" default:"true"`

	MinROI        float64 `flag:"filter-min-roi" default:"20"`
	DedupeHours   float64 `flag:"filter-dedupe-hours" default:"6"`
	BlockKeywords string  `flag:"filter-block-keywords" default:"IP,PL"`
}

// OCR specifies configuration options for image-only post handling.
type OCR struct {
	Provider string `flag:"ocr-provider" default:""`
	APIKey   string `flag:"ocr-api-key" default:""`
	Language string `flag:"ocr-language" default:"eng"`
	Timeout  int64  `flag:"ocr-timeout" default:"30"`
}

// Admin specifies configuration options that apply to the admin API.
type Admin struct {
	Host       string `flag:"admin-host" default:""`
	Port       int64  `flag:"admin-port" default:"8080"`
	PathPrefix string `flag:"admin-path-prefix" default:"/admin/"`

	CORSEnabled bool   `flag:"admin-cors-enabled" default:"true"`
	CORSOrigin  string `flag:"admin-cors-origin" default:"*"`

	RequestIDHeader string `flag:"admin-request-id-header" default:""`

	Username string `flag:"admin-username" default:"admin"`
	Password string `flag:"admin-password" default:""`
	Realm    string `flag:"admin-realm"    default:""`

	DevMode bool `flag:"admin-dev-mode" default:"false"`
}

// Relay specifies configuration options for the approved-lead queue.
type Relay struct {
	Enabled bool   `flag:"relay-enabled" default:"false"`
	Bind    string `flag:"relay-bind" default:"tcp://127.0.0.1:9111"`
	Buffer  int64  `flag:"relay-buffer" default:"0"`
}

// Stats specifies configuration options for pipeline stats collection.
type Stats struct {
	Collect bool `flag:"stats-collect" default:"true"`
}

const envPrefix = "LEADFILTER_"

// DevMode reports whether the admin API runs unauthenticated.
func (c Configuration) DevMode() bool {
	return c.Admin.DevMode
}

// Parse all configuration.
//
// Environment variables take precendence over the configuration file,
// but command line flags take precedence over both.
func Parse(args []string) (Configuration, error) {
	config := Configuration{}

	// Parse flags
	setupFlags(reflect.ValueOf(config))
	flag.CommandLine.Parse(args)

	// Parse environment
	setUnsetFlagsFromEnv()

	// Set default in our instance
	setDefaults(reflect.ValueOf(&config).Elem())

	// Override values with config file
	if err := parseConfigFile(&config); err != nil {
		return config, err
	}
	// Override values with flags (including environment)
	setFromFlags(reflect.ValueOf(&config).Elem())

	return config, nil
}

func parseConfigFile(config *Configuration) error {
	configFile := flag.Lookup("config").Value.String()
	_, err := toml.DecodeFile(configFile, config)
	if os.IsNotExist(err) {
		log.Printf(
			"%s Config file '%s' does not exist and will not be used.\n",
			System, configFile)
		return nil
	}
	return err
}

func setUnsetFlagsFromEnv() {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	flag.VisitAll(func(f *flag.Flag) {
		if !set[f.Name] {
			if val := envValueForFlag(f.Name); val != "" {
				flag.Set(f.Name, val)
			}
		}
	})
}

func envValueForFlag(name string) string {
	key := envPrefix + strings.ToUpper(strings.Replace(name, "-", "_", -1))
	return os.Getenv(key)
}
