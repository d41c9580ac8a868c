// internal/config/loader.go
//
// Settings resolution pipeline.
//
/*
Context
--------
`Load()` builds one immutable `Settings` snapshot from three layers
(highest precedence last):

  1. Built-in defaults, including the freshly generated secret key and the
     version discovered from `project.yaml`.
  2. Optional `.env` in the working directory.  Skipped entirely when the
     TESTING variable is set, so test runs never absorb a developer's local
     overrides.
  3. Process environment variables, matched case-sensitively against the
     `env:"…"` tags on Settings.

After merging, the tree is unmarshalled through the wire decode hooks (CORS
shapes, Secret conversion, weak integer coercion) and validated.  Failures
surface all at once as a *ValidationError naming each offending variable.

Resolution happens exactly once, at process start, before any concurrency;
the caller owns the snapshot and passes it down explicitly.  There is no
package-level cache, no Get(), and no Reload() on purpose: nothing may
re-resolve settings after boot.

Instrumentation
---------------
  • DEBUG spans – dotenv overlay presence, manifest fallback.
  • INFO  span  – final "settings resolved" with safe highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).

Notes
-----
  • A variable that is unset OR empty resolves to the layer below; empty
    string never reaches validation.
  • Unknown variables are ignored; matching is exact and case-sensitive.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// envFile is the optional dotenv overlay, resolved against the cwd.
const envFile = ".env"

/*──────────────────────────── wire contract ───────────────────────────────*/

// envToPath and pathToEnv tie the case-sensitive env contract to the merge
// tree.  Both are generated from the Settings struct tags, so the contract
// cannot drift from the model.
var envToPath, pathToEnv = contractMaps()

func contractMaps() (byEnv, byPath map[string]string) {
	byEnv = make(map[string]string)
	byPath = make(map[string]string)
	t := reflect.TypeOf(Settings{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, path := f.Tag.Get("env"), f.Tag.Get("koanf")
		if name == "" || path == "" {
			continue
		}
		byEnv[name] = path
		byPath[path] = name
	}
	return byEnv, byPath
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load resolves the snapshot for a real process: dotenv overlay from the
// working directory, manifest discovery climbing from the same place.
func Load() (*Settings, error) {
	wd, _ := os.Getwd()
	return load(envFile, wd)
}

// load is the seam tests use: envPath locates the dotenv overlay, root is
// where manifest discovery starts.
func load(envPath, root string) (*Settings, error) {
	k := koanf.New(".")

	// Defaults first: fresh secret, manifest version.
	if err := k.Load(structs.Provider(defaultSettings(root), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Dotenv overlay, unless a test run asked for hermetic input.
	if os.Getenv("TESTING") != "" {
		zap.S().Debugw("dotenv overlay disabled", "reason", "TESTING is set")
	} else if overlay := readEnvFile(envPath); len(overlay) > 0 {
		if err := k.Load(dotenvMap(overlay), nil); err != nil {
			return nil, fmt.Errorf("merge %s: %w", envPath, err)
		}
	}

	// Process environment wins.  Unknown names and empty values are
	// skipped, so defaults (or the overlay) keep applying.
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		path, known := envToPath[key]
		if !known || value == "" {
			return "", nil
		}
		return path, value
	}), nil); err != nil {
		return nil, fmt.Errorf("merge environment: %w", err)
	}

	var s Settings
	if err := unmarshalSettings(k, &s); err != nil {
		verr := decodeFieldErrors(err)
		// Rules still run over whatever did decode, so one broken
		// deployment reports everything at once.
		if rerr := validateSettings(&s); rerr != nil {
			seen := make(map[string]bool, len(verr.Fields))
			for _, f := range verr.Fields {
				seen[f.Field] = true
			}
			for _, f := range rerr.Fields {
				if !seen[f.Field] {
					verr.Fields = append(verr.Fields, f)
				}
			}
		}
		return nil, verr
	}

	if verr := validateSettings(&s); verr != nil {
		return nil, verr
	}

	zap.S().Infow("settings resolved",
		"project", s.ProjectName,
		"version", s.AppVersion,
		"environment", s.Environment,
		"port", s.Port,
		"cors_origins", len(s.AllCORSOrigins()),
		"db", s.PostgresServer+"/"+s.PostgresDB,
	)
	return &s, nil
}

// unmarshalSettings decodes the merged tree through the wire hooks.
func unmarshalSettings(k *koanf.Koanf, s *Settings) error {
	return k.UnmarshalWithConf("", s, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           s,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				corsDecodeHook,
				secretDecodeHook,
			),
		},
	})
}

/*──────────────────────────── dotenv overlay ───────────────────────────────*/

// readEnvFile parses the overlay and filters it to contract keys with
// non-empty values, keyed by tree path.  A missing or unreadable file is an
// absent layer, never an error; the overlay is optional by contract.
func readEnvFile(name string) map[string]interface{} {
	raw, err := godotenv.Read(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			zap.S().Debugw("dotenv overlay unreadable", "file", name, "err", err)
		}
		return nil
	}
	overlay := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		path, known := envToPath[key]
		if !known || value == "" {
			continue
		}
		overlay[path] = value
	}
	zap.S().Debugw("dotenv overlay loaded", "file", name, "keys", len(overlay))
	return overlay
}

// dotenvMap adapts the filtered overlay to koanf's Provider interface.
type dotenvMap map[string]interface{}

func (m dotenvMap) Read() (map[string]interface{}, error) { return m, nil }

func (m dotenvMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("dotenv overlay does not support ReadBytes")
}
