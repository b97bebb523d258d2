/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package strictlru

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// DataType is a type of data format in which configuration may be described.
type DataType string

// Supported data types for configuration.
const (
	DataTypeYAML DataType = "yaml"
	DataTypeJSON DataType = "json"
)

const cfgKeyCapacity = "lruCache.capacity"

// DefaultCapacity is used when the configuration does not specify a capacity.
const DefaultCapacity = 1000

// Config represents a set of configuration parameters for LRUCache.
type Config struct {
	// Capacity is the maximum number of entries the cache retains.
	// Values below MinCapacity are clamped to it.
	Capacity int

	keyPrefix string
}

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return NewConfigWithKeyPrefix("")
}

// NewConfigWithKeyPrefix creates a new instance of the Config.
// Allows specifying key prefix which will be used for parsing configuration parameters.
func NewConfigWithKeyPrefix(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{Capacity: DefaultCapacity}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values in the provided viper instance.
func (c *Config) SetProviderDefaults(v *viper.Viper) {
	v.SetDefault(c.key(cfgKeyCapacity), DefaultCapacity)
}

// Set sets configuration values from the provided viper instance.
// Malformed capacity values are clamped, not rejected, so Set only fails on
// provider-level errors.
func (c *Config) Set(v *viper.Viper) error {
	c.Capacity = capacityFromConfig(v.Get(c.key(cfgKeyCapacity)))
	return nil
}

// LoadFromReader loads configuration values from the provided reader.
func (c *Config) LoadFromReader(r io.Reader, dataType DataType) error {
	v := viper.New()
	v.SetConfigType(string(dataType))
	if err := v.ReadConfig(r); err != nil {
		return fmt.Errorf("read %s config: %w", dataType, err)
	}
	c.SetProviderDefaults(v)
	return c.Set(v)
}

// LoadFromFile loads configuration values from the provided file.
func (c *Config) LoadFromFile(path string, dataType DataType) error {
	v := viper.New()
	v.SetConfigType(string(dataType))
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	c.SetProviderDefaults(v)
	return c.Set(v)
}

func (c *Config) key(k string) string {
	if c.keyPrefix == "" {
		return k
	}
	return c.keyPrefix + "." + k
}

// capacityFromConfig coerces a raw configuration scalar into a usable
// capacity. Non-numeric and non-finite values degrade to MinCapacity;
// numeric values go through the same clamping as programmatic capacities.
// Values beyond the int range are pinned to the nearest representable
// capacity before the float-to-int conversion, which is undefined for them.
func capacityFromConfig(raw interface{}) int {
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return MinCapacity
	}
	if f >= float64(math.MaxInt) {
		return math.MaxInt
	}
	if f <= float64(math.MinInt) {
		return MinCapacity
	}
	return normalizeCapacity(int(f))
}
