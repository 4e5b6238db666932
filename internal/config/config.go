// Package config loads the settings consumed by the TickTick client. Values
// come from environment variables, optionally seeded from a YAML file.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/avandorp/ticktick-mcp/internal/apierr"
)

// DefaultRequestTimeout is applied to every transport call when no timeout
// is configured. One value for all operations; there is no per-operation
// override.
const DefaultRequestTimeout = 30 * time.Second

// Settings holds every input the client needs. The client only reads the
// named fields; it never writes them back.
type Settings struct {
	// Open API (documented backend) OAuth2 credentials. ClientID,
	// ClientSecret and RedirectURI are only needed by the out-of-band
	// authorization helper; operations need AccessToken.
	ClientID     string `yaml:"client_id" env:"TICKTICK_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"TICKTICK_CLIENT_SECRET"`
	RedirectURI  string `yaml:"redirect_uri" env:"TICKTICK_REDIRECT_URI"`
	AccessToken  string `yaml:"access_token" env:"TICKTICK_ACCESS_TOKEN"`

	// Session API (undocumented backend) login credentials.
	Username string `yaml:"username" env:"TICKTICK_USERNAME"`
	Password string `yaml:"password" env:"TICKTICK_PASSWORD"`

	// DeviceID identifies this installation to the session API. Generated
	// once per process when absent.
	DeviceID string `yaml:"device_id" env:"TICKTICK_DEVICE_ID"`

	// RequestTimeout applies uniformly to every transport call.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"TICKTICK_REQUEST_TIMEOUT"`
}

// Load reads settings from the given YAML file path (optional; pass "" for
// environment only) with environment variables taking precedence for unset
// fields. Absent DeviceID is filled with a generated identifier so the
// session backend always presents a stable device identity for the process
// lifetime.
func Load(path string) (*Settings, error) {
	var s Settings

	if path == "" {
		if err := cleanenv.ReadEnv(&s); err != nil {
			return nil, apierr.Configf("loadConfig", "cannot read environment: %v", err)
		}
	} else if err := cleanenv.ReadConfig(path, &s); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&s); err != nil {
				return nil, apierr.Configf("loadConfig", "cannot read environment: %v", err)
			}
		} else {
			return nil, apierr.Configf("loadConfig", "cannot read config %q: %v", path, err)
		}
	}

	s.applyDefaults()
	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}
	if s.DeviceID == "" {
		s.DeviceID = uuid.NewString()
	}
}

// Validate checks that every field required to open both backend sessions is
// present. It returns a configuration-kind error naming all missing fields
// at once, so an operator fixes them in one pass.
func (s *Settings) Validate() error {
	var missing []string
	if s.AccessToken == "" {
		missing = append(missing, "access_token")
	}
	if s.Username == "" {
		missing = append(missing, "username")
	}
	if s.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return apierr.Configf("validateConfig", "missing required settings: %s", strings.Join(missing, ", "))
	}
	if s.RequestTimeout <= 0 {
		return apierr.Configf("validateConfig", "request_timeout must be positive, got %s", s.RequestTimeout)
	}
	return nil
}

// ValidateAuthFlow checks the fields the out-of-band OAuth2 authorization
// helper needs. Kept separate from Validate because operations do not need
// the OAuth2 app credentials once a token exists.
func (s *Settings) ValidateAuthFlow() error {
	var missing []string
	if s.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if s.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if s.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	if len(missing) > 0 {
		return apierr.Configf("validateConfig", "missing required settings for authorization: %s", strings.Join(missing, ", "))
	}
	return nil
}
