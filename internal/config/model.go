// internal/config/model.go
//
// Typed configuration model for the storefront core.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                             – dotenv values,
//   • `conf/global.yaml`                          – primary static file,
//   • `CRAFTFLOW_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling, so downstream code
// never sees Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`; Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Backend API section
//

// API describes the platform backend that owns catalog, cart, and
// customer data.  Every outbound REST call is rooted at BaseURL.
type API struct {
	BaseURL        string `koanf:"base_url" validate:"required,url"`
	TimeoutSeconds int    `koanf:"timeout_seconds" validate:"gte=0"`
	Token          string `koanf:"token"` // optional service token, may be a vault: ref
}

//
// Platform section
//

// Platform holds the tenancy-resolution knobs: which host is the main
// marketing site, which suffix marks preview deployments, and the path
// prefix tenant-scoped requests are rewritten to.
type Platform struct {
	MainDomain      string `koanf:"main_domain" validate:"required,fqdn"`
	PreviewSuffix   string `koanf:"preview_suffix"`
	StorePathPrefix string `koanf:"store_path_prefix" validate:"required,startswith=/"`
}

//
// Database section
//

// Database holds the DSN for the domain-map control table.  The DSN
// template stays in YAML so operators can tweak host, port, or flags
// without touching Vault; the password is typically a Vault reference.
type Database struct {
	DomainMapDSN string `koanf:"domain_map_dsn" validate:"required"`
	Password     string `koanf:"password"`
}

//
// Redis section
//

// Redis configures the session-identity store.
type Redis struct {
	Addr     string `koanf:"addr" validate:"required,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or CRAFTFLOW_ROOT override) so later code
// can build absolute file paths.
type Paths struct {
	Root string // CRAFTFLOW_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	API      API      `koanf:"api"`
	Platform Platform `koanf:"platform"`
	Database Database `koanf:"database"`
	Redis    Redis    `koanf:"redis"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
