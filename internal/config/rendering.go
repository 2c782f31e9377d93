package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DefaultEmailSubject supports the {number} and {company} placeholders.
const DefaultEmailSubject = "Facture {number} - {company}"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// RenderingConfig is the hot-reloadable part of document rendering.
type RenderingConfig struct {
	Style  StyleConfig  `mapstructure:"style"`
	Email  EmailConfig  `mapstructure:"email"`
	Footer FooterConfig `mapstructure:"footer"`
}

type StyleConfig struct {
	PrimaryColor string `mapstructure:"primaryColor"`
	FontFamily   string `mapstructure:"fontFamily"`
}

type EmailConfig struct {
	Subject string `mapstructure:"subject"`
}

type FooterConfig struct {
	Notes string `mapstructure:"notes"`
}

func DefaultRenderingConfig() RenderingConfig {
	return RenderingConfig{
		Style: StyleConfig{
			PrimaryColor: "#1f3a5f",
			FontFamily:   "Helvetica",
		},
		Email: EmailConfig{Subject: DefaultEmailSubject},
	}
}

type RenderingConfigHolder struct {
	current atomic.Value // holds RenderingConfig
}

// NewStaticRenderingConfigHolder serves a fixed configuration.
func NewStaticRenderingConfigHolder(cfg RenderingConfig) *RenderingConfigHolder {
	holder := &RenderingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// NewRenderingConfigHolder reads render.yml and watches it for changes. A
// missing file is not an error: defaults apply.
func NewRenderingConfigHolder(cfg Config, log *zap.Logger) (*RenderingConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v := viper.New()

	if cfg.Render.ConfigPath != "" {
		v.SetConfigFile(cfg.Render.ConfigPath)
	} else {
		v.SetConfigName("render")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/facture")
		v.AddConfigPath(filepath.Join(".", "config"))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FACTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRenderingConfig()
	v.SetDefault("render.style.primaryColor", defaults.Style.PrimaryColor)
	v.SetDefault("render.style.fontFamily", defaults.Style.FontFamily)
	v.SetDefault("render.email.subject", defaults.Email.Subject)
	v.SetDefault("render.footer.notes", defaults.Footer.Notes)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		found = false
	}

	current, err := unmarshalRendering(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticRenderingConfigHolder(current)
	if !found {
		log.Info("render config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := unmarshalRendering(v)
		if err != nil {
			log.Warn("render config invalid, reload ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("render config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *RenderingConfigHolder) Get() RenderingConfig {
	return h.current.Load().(RenderingConfig)
}

func unmarshalRendering(v *viper.Viper) (RenderingConfig, error) {
	var cfg RenderingConfig
	if err := v.UnmarshalKey("render", &cfg); err != nil {
		return RenderingConfig{}, err
	}
	if err := validateRenderingConfig(cfg); err != nil {
		return RenderingConfig{}, err
	}
	if strings.TrimSpace(cfg.Email.Subject) == "" {
		cfg.Email.Subject = DefaultEmailSubject
	}
	return cfg, nil
}

func validateRenderingConfig(cfg RenderingConfig) error {
	if color := strings.TrimSpace(cfg.Style.PrimaryColor); color != "" && !hexColor.MatchString(color) {
		return errors.New("render.style.primaryColor must be a #rrggbb colour")
	}
	if strings.ContainsAny(cfg.Style.FontFamily, ";{}<>") {
		return errors.New("render.style.fontFamily contains forbidden characters")
	}
	return nil
}
