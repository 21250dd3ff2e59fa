// Package config loads types.Config from files and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	// EnvPrefix starts every environment variable read by Load
	EnvPrefix = "HVCTL_"
	// DefaultConfigEnv names a config file used when none is given
	DefaultConfigEnv = "HVCTL_DEFAULT_CONFIG"
	// RCFile is the per-user config file, read from the home directory
	RCFile = ".hvctlrc"
)

// Load reads the config file at path, then applies .env and HVCTL_*
// overrides. An empty path falls back to $HVCTL_DEFAULT_CONFIG and then
// ~/.hvctlrc; neither existing is not an error.
func Load(path, envFile string) (*types.Config, error) {
	c := &types.Config{}

	if path == "" {
		path = defaultPath()
	}
	if path != "" {
		if err := ReadFile(path, c); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "loading env file")
		}
	}
	if err := ApplyEnv(c); err != nil {
		return nil, err
	}

	return c, nil
}

func defaultPath() string {
	if conf := os.Getenv(DefaultConfigEnv); conf != "" {
		return conf
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	conf := filepath.Join(home, RCFile)
	if _, err := os.Stat(conf); err != nil {
		return ""
	}
	return conf
}

// ReadFile decodes the file at path into c. The format follows the
// extension: .yaml or .yml, .toml, and JSON for anything else.
func ReadFile(path string, c *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, c)
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), c)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = errors.Errorf("unknown key %s", undecoded[0])
			}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(c)
	}
	if err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}
	return nil
}

// ApplyEnv overrides c with the HVCTL_* variables that are set. Secrets
// are only ever read from here.
func ApplyEnv(c *types.Config) error {
	strs := map[string]*string{
		"EXECUTABLE":       &c.Executable,
		"ENCODING":         &c.Encoding,
		"VMRUN_HOST_TYPE":  &c.Vmrun.HostType,
		"VMRUN_INVENTORY":  &c.Vmrun.InventoryPath,
		"VMRUN_VMPASSWORD": &c.Vmrun.VMPassword,
		"VMREST_URL":       &c.VmRest.URL,
		"VMREST_USERNAME":  &c.VmRest.Username,
		"VMREST_PASSWORD":  &c.VmRest.Password,
		"HYPERV_SCRIPTDIR": &c.HyperV.ScriptDir,
	}
	for name, field := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*field = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "BACKEND"); ok {
		c.Backend = types.Backend(v)
	}

	if v, ok := os.LookupEnv(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, EnvPrefix+"TIMEOUT")
		}
		c.Timeout = types.Duration(d)
	}

	bools := map[string]*bool{
		"VMREST_INSECURE":     &c.VmRest.Insecure,
		"VBOX_LIVE_SNAPSHOTS": &c.VBox.LiveSnapshots,
	}
	for name, field := range bools {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, EnvPrefix+name)
		}
		*field = b
	}
	return nil
}

// Validate checks c before a driver is built from it
func Validate(c *types.Config) error {
	if c.Backend == "" {
		return errors.New("no backend selected, use one of vbox, vmrun, vmrest or hyperv")
	}
	backend, err := types.ParseBackend(string(c.Backend))
	if err != nil {
		return err
	}
	c.Backend = backend

	if c.Timeout < 0 {
		return errors.Errorf("negative timeout %s", c.Timeout.Std())
	}

	if _, err := textutil.LookupEncoding(c.Encoding); err != nil {
		return errors.Wrap(err, "encoding")
	}

	switch backend {
	case types.BackendVmrun:
		switch c.Vmrun.HostType {
		case "", "ws", "player", "fusion":
		default:
			return errors.Errorf("unknown vmrun host type %q, use ws, player or fusion", c.Vmrun.HostType)
		}
	case types.BackendVmRest:
		if c.VmRest.URL != "" {
			u, err := url.Parse(c.VmRest.URL)
			if err != nil {
				return errors.Wrap(err, "vmrest url")
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return errors.Errorf("vmrest url %q must be http or https", c.VmRest.URL)
			}
		}
	}
	return nil
}
