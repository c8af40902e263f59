package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/mentorlink/internal/security/secretbox"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		Name     string `yaml:"name"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		IdleTimeout        time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"` // postgres | memory
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns int `yaml:"max_open_conns"`
			MaxIdleConns int `yaml:"max_idle_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr     string `yaml:"addr"`
			DB       int    `yaml:"db"`
			Password string `yaml:"password"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	JWT struct {
		Issuer    string        `yaml:"issuer"`
		Secret    string        `yaml:"secret"`
		AccessTTL time.Duration `yaml:"access_ttl"`
	} `yaml:"jwt"`

	Auth struct {
		Verify struct {
			TTL time.Duration `yaml:"ttl"`
		} `yaml:"verify"`
		Reset struct {
			TTL time.Duration `yaml:"ttl"`
		} `yaml:"reset"`
		Admin struct {
			// Domain es el dominio institucional; sólo emails @Domain pueden ser admin.
			Domain    string        `yaml:"domain"`
			InviteTTL time.Duration `yaml:"invite_ttl"`
		} `yaml:"admin"`
	} `yaml:"auth"`

	Security struct {
		PasswordPolicy struct {
			MinLength     int  `yaml:"min_length"`
			RequireUpper  bool `yaml:"require_upper"`
			RequireLower  bool `yaml:"require_lower"`
			RequireDigit  bool `yaml:"require_digit"`
			RequireSymbol bool `yaml:"require_symbol"`
		} `yaml:"password_policy"`
		PasswordBlacklistPath string `yaml:"password_blacklist_path"`
	} `yaml:"security"`

	Rate struct {
		Enabled  bool       `yaml:"enabled"`
		Login    RateWindow `yaml:"login"`
		Register RateWindow `yaml:"register"`
		Codes    RateWindow `yaml:"codes"`
	} `yaml:"rate"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
	} `yaml:"smtp"`

	Bootstrap struct {
		Enabled  bool   `yaml:"enabled"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"bootstrap"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
	} `yaml:"flags"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// RateWindow límite fijo por ventana.
type RateWindow struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

// Load lee el YAML (si path no es vacío), aplica defaults y overrides
// por env, y valida. Un error de Validate es fatal para el proceso.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.openSecrets(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Ruta de blacklist relativa al directorio del YAML
	if p := strings.TrimSpace(c.Security.PasswordBlacklistPath); p != "" && path != "" && !filepath.IsAbs(p) {
		c.Security.PasswordBlacklistPath = filepath.Clean(filepath.Join(filepath.Dir(path), p))
	}
	return &c, nil
}

// Default retorna una config con defaults y sin env (tests, mentorctl).
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "mentorlink"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Storage.Postgres.MaxOpenConns == 0 {
		c.Storage.Postgres.MaxOpenConns = 10
	}
	if c.Storage.Postgres.MaxIdleConns == 0 {
		c.Storage.Postgres.MaxIdleConns = 2
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "mentorlink:"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "mentorlink"
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = time.Hour
	}
	if c.Auth.Verify.TTL == 0 {
		c.Auth.Verify.TTL = 48 * time.Hour
	}
	if c.Auth.Reset.TTL == 0 {
		c.Auth.Reset.TTL = 15 * time.Minute
	}
	if c.Auth.Admin.InviteTTL == 0 {
		c.Auth.Admin.InviteTTL = 72 * time.Hour
	}
	// Política por defecto: 8 caracteres, mayúscula y símbolo.
	pp := &c.Security.PasswordPolicy
	if pp.MinLength == 0 {
		pp.MinLength = 8
		pp.RequireUpper = true
		pp.RequireSymbol = true
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login = RateWindow{Limit: 10, Window: time.Minute}
	}
	if c.Rate.Register.Limit == 0 {
		c.Rate.Register = RateWindow{Limit: 5, Window: 10 * time.Minute}
	}
	if c.Rate.Codes.Limit == 0 {
		c.Rate.Codes = RateWindow{Limit: 5, Window: 10 * time.Minute}
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// openSecrets descifra los valores "enc:" con SECRETBOX_MASTER_KEY.
func (c *Config) openSecrets() error {
	var box *secretbox.Box
	for _, f := range []*string{
		&c.Storage.DSN,
		&c.JWT.Secret,
		&c.Cache.Redis.Password,
		&c.SMTP.Password,
		&c.Bootstrap.Password,
	} {
		if !secretbox.IsSealed(*f) {
			continue
		}
		if box == nil {
			b, err := secretbox.FromEnv()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			box = b
		}
		v, err := box.Open(*f)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		*f = v
	}
	return nil
}

// MinJWTSecretLen largo mínimo del secreto HS256.
const MinJWTSecretLen = 32

// Validate detecta configuraciones con las que el proceso no debe arrancar.
func (c *Config) Validate() error {
	var errs []error

	switch strings.TrimSpace(c.JWT.Secret) {
	case "":
		errs = append(errs, errors.New("jwt.secret is required (JWT_SECRET)"))
	default:
		if len(strings.TrimSpace(c.JWT.Secret)) < MinJWTSecretLen {
			errs = append(errs, fmt.Errorf("jwt.secret must be at least %d bytes", MinJWTSecretLen))
		}
	}

	switch c.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn is required for driver postgres"))
		}
	case "memory":
		if strings.EqualFold(c.App.Env, "prod") {
			errs = append(errs, errors.New("storage.driver memory is not allowed in prod"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver))
	}

	if c.Cache.Kind == "redis" && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		errs = append(errs, errors.New("cache.redis.addr is required for cache kind redis"))
	}

	d := strings.TrimSpace(c.Auth.Admin.Domain)
	if d == "" || strings.Contains(strings.TrimPrefix(d, "@"), "@") {
		errs = append(errs, errors.New("auth.admin.domain must be a single domain (e.g. university.edu)"))
	}

	if c.Security.PasswordPolicy.MinLength < 8 {
		errs = append(errs, errors.New("security.password_policy.min_length must be >= 8"))
	}

	if c.Bootstrap.Enabled && (c.Bootstrap.Email == "" || c.Bootstrap.Password == "") {
		errs = append(errs, errors.New("bootstrap.email and bootstrap.password are required when bootstrap is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// AdminDomainSuffix retorna "@<dominio>" en minúsculas.
func (c *Config) AdminDomainSuffix() string {
	d := strings.ToLower(strings.TrimSpace(c.Auth.Admin.Domain))
	return "@" + strings.TrimPrefix(d, "@")
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// JWT
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvDur("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}

	// AUTH
	if v, ok := getEnvDur("AUTH_VERIFY_TTL"); ok {
		c.Auth.Verify.TTL = v
	}
	if v, ok := getEnvDur("AUTH_RESET_TTL"); ok {
		c.Auth.Reset.TTL = v
	}
	if v, ok := getEnvStr("AUTH_ADMIN_DOMAIN"); ok {
		c.Auth.Admin.Domain = v
	}
	if v, ok := getEnvDur("AUTH_ADMIN_INVITE_TTL"); ok {
		c.Auth.Admin.InviteTTL = v
	}

	// SECURITY
	if v, ok := getEnvInt("SECURITY_PASSWORD_POLICY_MIN_LENGTH"); ok {
		c.Security.PasswordPolicy.MinLength = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_UPPER"); ok {
		c.Security.PasswordPolicy.RequireUpper = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_LOWER"); ok {
		c.Security.PasswordPolicy.RequireLower = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_DIGIT"); ok {
		c.Security.PasswordPolicy.RequireDigit = v
	}
	if v, ok := getEnvBool("SECURITY_PASSWORD_POLICY_REQUIRE_SYMBOL"); ok {
		c.Security.PasswordPolicy.RequireSymbol = v
	}
	if v, ok := getEnvStr("SECURITY_PASSWORD_BLACKLIST_PATH"); ok {
		c.Security.PasswordBlacklistPath = strings.TrimSpace(v)
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvDur("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
	if v, ok := getEnvInt("RATE_REGISTER_LIMIT"); ok {
		c.Rate.Register.Limit = v
	}
	if v, ok := getEnvDur("RATE_REGISTER_WINDOW"); ok {
		c.Rate.Register.Window = v
	}
	if v, ok := getEnvInt("RATE_CODES_LIMIT"); ok {
		c.Rate.Codes.Limit = v
	}
	if v, ok := getEnvDur("RATE_CODES_WINDOW"); ok {
		c.Rate.Codes.Window = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvStr("SMTP_TLS"); ok {
		c.SMTP.TLS = strings.ToLower(v)
	}
	if v, ok := getEnvBool("SMTP_INSECURE_SKIP_VERIFY"); ok {
		c.SMTP.InsecureSkipVerify = v
	}

	// BOOTSTRAP
	if v, ok := getEnvBool("BOOTSTRAP_ENABLED"); ok {
		c.Bootstrap.Enabled = v
	}
	if v, ok := getEnvStr("BOOTSTRAP_ADMIN_EMAIL"); ok {
		c.Bootstrap.Email = v
	}
	if v, ok := getEnvStr("BOOTSTRAP_ADMIN_PASSWORD"); ok {
		c.Bootstrap.Password = v
	}
	if v, ok := getEnvStr("BOOTSTRAP_ADMIN_NAME"); ok {
		c.Bootstrap.Name = v
	}

	// FLAGS / METRICS
	if v, ok := getEnvBool("FLAGS_MIGRATE"); ok {
		c.Flags.Migrate = v
	}
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}

	// Guardia: en prod nunca se saltea la verificación TLS del SMTP.
	if strings.EqualFold(c.App.Env, "prod") {
		c.SMTP.InsecureSkipVerify = false
	}
}
