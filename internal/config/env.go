package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CINE_"

type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func str(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func boolean(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func integer(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func list(dst func(*Config) *[]string) func(*Config, string) error {
	return func(c *Config, v string) error {
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*dst(c) = out
		return nil
	}
}

var envVars = []envVar{
	{"DATA_DIR", str(func(c *Config) *string { return &c.Source.Dir })},
	{"DB_KIND", str(func(c *Config) *string { return &c.Storage.Kind })},
	{"DB_DSN", str(func(c *Config) *string { return &c.Storage.DSN })},
	{"CHUNK_SIZE", integer(func(c *Config) *int { return &c.Storage.ChunkSize })},
	{"CHANNEL_BUFFER", integer(func(c *Config) *int { return &c.Runtime.ChannelBuffer })},
	{"ONLY", list(func(c *Config) *[]string { return &c.Import.Entities })},
	{"INCLUDE_ADULT", boolean(func(c *Config) *bool { return &c.Import.IncludeAdult })},
	{"CHECK_ORPHANS", boolean(func(c *Config) *bool { return &c.Import.CheckOrphans })},
	{"LENIENT", boolean(func(c *Config) *bool { return &c.Import.Lenient })},
	{"METRICS_BACKEND", str(func(c *Config) *string { return &c.Metrics.Backend })},
	{"METRICS_JOB", str(func(c *Config) *string { return &c.Metrics.Job })},
	{"PUSHGATEWAY_URL", str(func(c *Config) *string { return &c.Metrics.PushgatewayURL })},
	{"DOGSTATSD_ADDR", str(func(c *Config) *string { return &c.Metrics.DogStatsDAddr })},
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FORMAT", str(func(c *Config) *string { return &c.Log.Format })},
}

// ApplyEnv overrides c with CINE_* variables found by lookup, typically
// os.LookupEnv. A variable that does not parse is an error; set but empty
// variables are applied as empty values.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok {
			continue
		}
		if err := ev.set(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("config: %s%s=%q: %w", EnvPrefix, ev.name, v, err)
		}
	}
	return nil
}
