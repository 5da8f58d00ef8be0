package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid              string `yaml:"appid" json:"appid"`
	Location           string `yaml:"location" json:"location"`
	Workdir            string `yaml:"workdir" json:"workdir"`
	Debug              bool   `yaml:"debug" json:"debug"`
	AuditRetentionDays int    `yaml:"audit_retention_days" json:"audit_retention_days"`
}

// WebConfig web server and session configuration
type WebConfig struct {
	Host           string `yaml:"host" json:"host"`
	Port           int    `yaml:"port" json:"port"`
	Secret         string `yaml:"secret" json:"-"`
	SessionName    string `yaml:"session_name" json:"session_name"`
	SecureCookie   bool   `yaml:"secure_cookie" json:"secure_cookie"`
	CSRF           bool   `yaml:"csrf" json:"csrf"`
	JwtSecret      string `yaml:"jwt_secret" json:"-"`
	JwtExpireHours int    `yaml:"jwt_expire_hours" json:"jwt_expire_hours"`
}

// DBConfig database configuration
type DBConfig struct {
	Type     string `yaml:"type" json:"type"` // postgres, mysql or sqlite
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"-"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// LogConfig logging configuration
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// ExportConfig report export configuration
type ExportConfig struct {
	PdfEngine       string `yaml:"pdf_engine" json:"pdf_engine"` // fpdf or wkhtmltopdf
	WkhtmltopdfPath string `yaml:"wkhtmltopdf_path" json:"wkhtmltopdf_path"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
	Export   ExportConfig `yaml:"export" json:"export"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

// Address returns the listen address of the web server
func (c *AppConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
}

// DefaultAppConfig returns a fresh copy of the built-in defaults
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:              "crmdesk",
			Location:           "UTC",
			Workdir:            "/var/crmdesk",
			Debug:              false,
			AuditRetentionDays: 365,
		},
		Web: WebConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			Secret:         "9b6de5cc-0731-4bf1-a4f5-crmdesk",
			SessionName:    "crmdesk_session",
			SecureCookie:   false,
			CSRF:           true,
			JwtSecret:      "0f3c2a7e-jwt-crmdesk",
			JwtExpireHours: 24,
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "crmdesk",
			User:     "postgres",
			Passwd:   "postgres",
			MaxConn:  100,
			IdleConn: 10,
			Debug:    false,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/crmdesk/logs/crmdesk.log",
		},
		Export: ExportConfig{
			PdfEngine: "fpdf",
		},
	}
}

// LoadConfig reads the YAML file (if present) over the defaults, then
// applies .env and CRMDESK_* environment overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	_ = godotenv.Load()

	if cfile == "" {
		cfile = "crmdesk.yml"
	}
	if !fileExists(cfile) {
		cfile = "/etc/crmdesk.yml"
	}

	cfg := DefaultAppConfig()
	if fileExists(cfile) {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfile, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfile, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.initDirs()
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	setEnvValue("CRMDESK_SYSTEM_WORKER_DIR", &c.System.Workdir)
	setEnvValue("CRMDESK_SYSTEM_LOCATION", &c.System.Location)
	setEnvBoolValue("CRMDESK_SYSTEM_DEBUG", &c.System.Debug)
	setEnvIntValue("CRMDESK_SYSTEM_AUDIT_RETENTION_DAYS", &c.System.AuditRetentionDays)

	setEnvValue("CRMDESK_WEB_HOST", &c.Web.Host)
	setEnvIntValue("CRMDESK_WEB_PORT", &c.Web.Port)
	setEnvValue("CRMDESK_WEB_SECRET", &c.Web.Secret)
	setEnvBoolValue("CRMDESK_WEB_SECURE_COOKIE", &c.Web.SecureCookie)
	setEnvBoolValue("CRMDESK_WEB_CSRF", &c.Web.CSRF)
	setEnvValue("CRMDESK_WEB_JWT_SECRET", &c.Web.JwtSecret)

	setEnvValue("CRMDESK_DB_TYPE", &c.Database.Type)
	setEnvValue("CRMDESK_DB_HOST", &c.Database.Host)
	setEnvIntValue("CRMDESK_DB_PORT", &c.Database.Port)
	setEnvValue("CRMDESK_DB_NAME", &c.Database.Name)
	setEnvValue("CRMDESK_DB_USER", &c.Database.User)
	setEnvValue("CRMDESK_DB_PWD", &c.Database.Passwd)
	setEnvBoolValue("CRMDESK_DB_DEBUG", &c.Database.Debug)

	setEnvValue("CRMDESK_LOGGER_MODE", &c.Logger.Mode)
	setEnvBoolValue("CRMDESK_LOGGER_FILE_ENABLE", &c.Logger.FileEnable)

	setEnvValue("CRMDESK_EXPORT_PDF_ENGINE", &c.Export.PdfEngine)
	setEnvValue("CRMDESK_EXPORT_WKHTMLTOPDF_PATH", &c.Export.WkhtmltopdfPath)
}

func (c *AppConfig) validate() error {
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}
	if strings.TrimSpace(c.Web.Secret) == "" {
		return fmt.Errorf("web secret cannot be empty")
	}
	switch c.Database.Type {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	switch c.Export.PdfEngine {
	case "fpdf", "wkhtmltopdf":
	default:
		return fmt.Errorf("unsupported pdf engine %q", c.Export.PdfEngine)
	}
	return nil
}

func setEnvValue(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*val = b
		}
	}
}

func setEnvIntValue(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			*val = i
		}
	}
}

func fileExists(file string) bool {
	info, err := os.Stat(file)
	return err == nil && !info.IsDir()
}
