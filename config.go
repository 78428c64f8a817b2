package sssp

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is a connection profile for an SSSP daemon, typically supplied
// by the host application as a YAML file.
type Config struct {
	// ConnType is one of "unix", "tcp" or "remotetcp".
	ConnType string `yaml:"conntype"`
	// Address is the socket path (unix) or host:port (tcp).
	Address string `yaml:"address"`
	// Timeout is the connect timeout as a duration string, e.g. "5s".
	Timeout string `yaml:"timeout"`
}

// LoadConfig reads a connection profile from path.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open config file")
	}
	defer file.Close()

	config := &Config{}
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, errors.Wrap(err, "could not parse config file")
	}

	if config.ConnType == "" {
		config.ConnType = ConnUnix
	}
	if config.Address == "" {
		return nil, errors.New("config is missing an address")
	}

	return config, nil
}

// Remote reports whether the profile requires inline-data requests
// because the daemon cannot read the client's filesystem.
func (c *Config) Remote() bool {
	return c.ConnType == ConnRemoteTCP
}

// ConnectTimeout returns the configured connect timeout, falling back to
// the 5 second default when unset or unparsable.
func (c *Config) ConnectTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultConnectTimeout
	}
	return d
}
