package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// ErrMissingType is returned by NewViperFromBytes without a format name.
var ErrMissingType = errors.New("config: type is required")

// envAliases binds keys to the variable names the deployment already exports.
// Every other key is overridable in upper snake form
// (modules.otp.mode -> MODULES_OTP_MODE).
var envAliases = map[string][]string{
	"modules.otp.digits":         {"OTP_DIGITS"},
	"modules.otp.expiry_minutes": {"OTP_EXPIRY_MINUTES"},
	"sms.username":               {"SMS_USERNAME"},
	"sms.token":                  {"SMS_TOKEN"},
	"mail.username":              {"GMAIL_USER", "MAIL_USERNAME"},
	"mail.password":              {"GMAIL_PASSWORD", "MAIL_PASSWORD"},
	"mail.from":                  {"MAIL_FROM", "GMAIL_USER"},
	"database.url":               {"DATABASE_URL"},
	"redis.url":                  {"REDIS_URL"},
	"jwt.secret":                 {"JWT_SECRET"},
}

var defaults = map[string]any{
	"instrument.enabled":                          true,
	"instrument.service_name":                     "prescripto",
	"modules.otp.enabled":                         true,
	"modules.otp.digits":                          6,
	"modules.otp.expiry_minutes":                  10,
	"modules.otp.mode":                            "dual",
	"modules.otp.policy":                          "all",
	"modules.otp.store":                           "memory",
	"modules.otp.channel_timeout_seconds":         10,
	"modules.otp.expose_code":                     false,
	"modules.otp.email_subject":                   "Tu código OTP para Prescripto",
	"modules.otp.sms_template":                    "Tu código de verificación es: {{.Code}}. Utiliza este código para completar tu verificación.",
	"modules.otp.rate_limit.per_minute":           10,
	"modules.otp.rate_limit.burst":                5,
	"modules.notification.enabled":                true,
	"modules.directory.enabled":                   true,
	"modules.account.enabled":                     true,
	"sms.base_url":                                "https://api.labsmobile.com",
	"sms.sender":                                  "Sender",
	"sms.timeout_seconds":                         10,
	"sms.max_retries":                             2,
	"mail.host":                                   "smtp.gmail.com",
	"mail.port":                                   587,
	"jwt.ttl_minutes":                             60,
	"hash.bcrypt.cost":                            10,
	"app.server.http.address":                     ":8080",
	"app.server.http.read_header_timeout_seconds": 5,
	"app.server.shutdown_timeout_seconds":         10,
}

// Viper is the Config used by the service: a YAML file, environment
// overrides and hot reload on file change.
type Viper struct {
	v *viper.Viper
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	return v, nil
}

// NewViper reads the file at path; the format follows its extension.
// Edits to the file are picked up without a restart.
func NewViper(path string) (*Viper, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	v.SetConfigFile(filepath.Clean(path))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config reloaded", "path", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes reads configuration of the given format ("yaml", "json")
// from memory. Tests build their settings this way.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrMissingType
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	return &Viper{v: v}, nil
}

func (c *Viper) GetBool(key string) bool       { return c.v.GetBool(key) }
func (c *Viper) GetString(key string) string   { return c.v.GetString(key) }
func (c *Viper) GetInt(key string) int         { return c.v.GetInt(key) }
func (c *Viper) GetInt32(key string) int32     { return c.v.GetInt32(key) }
func (c *Viper) GetUint64(key string) uint64   { return c.v.GetUint64(key) }
func (c *Viper) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }

func (c *Viper) GetSecond(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Second
}

func (c *Viper) GetMinute(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Minute
}

func (c *Viper) GetArray(key string) []string {
	var items []string
	if s, ok := c.v.Get(key).(string); ok {
		items = strings.Split(s, ",")
	} else {
		items = c.v.GetStringSlice(key)
	}

	return lo.Compact(lo.Map(items, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

// Close stops nothing; viper's watcher lives for the process.
func (c *Viper) Close() error {
	return nil
}
