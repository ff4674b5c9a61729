package config

import (
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nextracker/nextracker/internal/errors"
)

// Environment variables holding the connection credentials.
const (
	EnvInstance = "NC_INSTANCE"
	EnvUser     = "NC_USER"
	EnvPassword = "NC_PASS"
	EnvRoot     = "NC_ROOT"
)

// DefaultEnvFile is the dotenv file read when --env-file is not given.
const DefaultEnvFile = ".env"

// Credentials tell the poller where and how to connect.
type Credentials struct {
	InstanceURL string
	User        string
	Password    string

	// RootURL is queried without auth when the instance URL does not answer
	// with JSON. Defaults to scheme://host/ of InstanceURL.
	RootURL string
}

// LoadCredentials reads credentials from the process environment, falling
// back to envFile for variables that are unset. A missing envFile is not an
// error.
func LoadCredentials(envFile string) (Credentials, error) {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case os.IsNotExist(err):
		default:
			return Credentials{}, errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot read env file "+envFile,
				"Check the file uses KEY=value lines")
		}
	}

	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileVars[key])
	}

	creds := Credentials{
		InstanceURL: get(EnvInstance),
		User:        get(EnvUser),
		Password:    get(EnvPassword),
		RootURL:     get(EnvRoot),
	}

	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}

	if creds.RootURL == "" {
		creds.RootURL = rootOf(creds.InstanceURL)
	}
	return creds, nil
}

// Validate checks that all three required values are present and the
// instance URL is absolute.
func (c Credentials) Validate() error {
	var missing []string
	if c.InstanceURL == "" {
		missing = append(missing, EnvInstance)
	}
	if c.User == "" {
		missing = append(missing, EnvUser)
	}
	if c.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrConfig,
			"Missing credentials: "+strings.Join(missing, ", "),
			"Set them in the environment or in a .env file next to your config")
	}

	for _, raw := range []string{c.InstanceURL, c.RootURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New(errors.ErrConfig,
				"'"+raw+"' is not an absolute http(s) URL",
				"Use the full serverinfo URL, e.g. https://cloud.example.com/ocs/v2.php/apps/serverinfo/api/v1/info?format=json")
		}
	}
	return nil
}

// Host returns the host part of the instance URL, for display.
func (c Credentials) Host() string {
	u, err := url.Parse(c.InstanceURL)
	if err != nil {
		return c.InstanceURL
	}
	return u.Host
}

func rootOf(instance string) string {
	u, err := url.Parse(instance)
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}).String()
}
