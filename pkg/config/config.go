// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable, e.g. TABUA_DATA_PATH.
const Prefix = "tabua"

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`

	// DataPath is the JSON tide table.
	DataPath string `split_words:"true" default:"tabua.json"`
	// Location is the port name stamped on every record.
	Location string `default:"Porto de Cabedelo - PB"`
	// Zone is the time zone of the table's clock.
	Zone string `default:"America/Fortaleza"`
	// Embark adds the embarkation time to every record.
	Embark   bool          `default:"true"`
	CacheTTL time.Duration `split_words:"true" default:"1h"`
	Debug    bool

	SessionKey    string `split_words:"true" default:"deadbeef"`
	EncryptionKey string `split_words:"true" default:"deadbeef"`
}

// Process loads the configuration from the environment.
func Process() (Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return c, err
	}
	if _, err := c.TimeZone(); err != nil {
		return c, err
	}
	return c, nil
}

// TimeZone resolves Zone.
func (c Config) TimeZone() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Zone)
	if err != nil {
		return nil, fmt.Errorf("zone %q: %w", c.Zone, err)
	}
	return loc, nil
}
