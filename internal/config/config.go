package config

import (
	"cosbackup/internal/storage"
	"cosbackup/internal/types"
	"cosbackup/logger"
	"encoding/json"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

const (
	FileName = "config.json"

	EnvSecretID  = "TENCENT_SECRET_ID"
	EnvSecretKey = "TENCENT_SECRET_KEY"
	EnvRegion    = "TENCENT_REGION"
	EnvBucket    = "TENCENT_BUCKET"
	EnvPrefix    = "TENCENT_PREFIX"
	EnvRetention = "TENCENT_RETENTION"
	EnvEndpoint  = "TENCENT_ENDPOINT"
)

var validate = newValidator()

type (
	Config struct {
		SecretID  string `json:"SecretId" yaml:"SecretId" validate:"required"`
		SecretKey string `json:"SecretKey" yaml:"SecretKey" validate:"required"`
		Region    string `json:"Region" yaml:"Region" validate:"required"`
		Bucket    string `json:"Bucket" yaml:"Bucket" validate:"required"`
		Prefix    string `json:"Prefix,omitempty" yaml:"Prefix,omitempty"`

		// Retention is the number of objects kept under Prefix. Zero keeps everything.
		Retention int `json:"Retention,omitempty" yaml:"Retention,omitempty" validate:"min=0"`

		// Endpoint overrides the regional COS domain, e.g. "http://localhost:9000".
		Endpoint string `json:"Endpoint,omitempty" yaml:"Endpoint,omitempty"`
	}

	Options struct {
		// Path of the config file. Defaults to DefaultPath().
		Path string
		// EnvFile is an optional dotenv file layered between the process
		// environment and the config file.
		EnvFile string
		// LookupEnv defaults to os.LookupEnv.
		LookupEnv func(key string) (string, bool)
	}

	MissingConfigError struct {
		Fields []string
	}

	// configFile is what readFile decodes. It differs from Config only in how
	// Retention is read.
	configFile struct {
		SecretID  string    `json:"SecretId" yaml:"SecretId"`
		SecretKey string    `json:"SecretKey" yaml:"SecretKey"`
		Region    string    `json:"Region" yaml:"Region"`
		Bucket    string    `json:"Bucket" yaml:"Bucket"`
		Prefix    string    `json:"Prefix" yaml:"Prefix"`
		Retention retention `json:"Retention" yaml:"Retention"`
		Endpoint  string    `json:"Endpoint" yaml:"Endpoint"`
	}

	// retention accepts a number or a numeric string. A value that is neither
	// is kept in raw so readFile can report it without dropping the whole file.
	retention struct {
		value int
		raw   string
		valid bool
	}
)

func (e *MissingConfigError) Error() string {
	return "missing required configuration: " + strings.Join(e.Fields, ", ")
}

// DefaultPath is config.json next to the running executable, or in the working
// directory when the executable has none (as under go run).
func DefaultPath() string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	return lookupPath(dirs)
}

// lookupPath returns the first existing config file in dirs, or the one in the
// first dir when none exists yet.
func lookupPath(dirs []string) string {
	paths := lo.Map(dirs, func(dir string, _ int) string {
		return filepath.Join(dir, FileName)
	})
	if path, ok := lo.Find(paths, fileExists); ok {
		return path
	}
	return lo.FirstOr(paths, FileName)
}

// Load merges the process environment, the dotenv file, the config file and the
// built-in defaults, in that order of precedence. Unreadable files are logged
// and skipped. Load does not validate the result.
func Load(opts Options) (Config, error) {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.Path == "" {
		opts.Path = DefaultPath()
	}

	file := readFile(opts.Path)
	dotenv := readEnvFile(opts.EnvFile)
	env := func(key string) string {
		if v, ok := opts.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v
		}
		return dotenv[key]
	}

	cfg := Config{
		SecretID:  coalesce(env(EnvSecretID), file.SecretID),
		SecretKey: coalesce(env(EnvSecretKey), file.SecretKey),
		Region:    coalesce(env(EnvRegion), file.Region),
		Bucket:    coalesce(env(EnvBucket), file.Bucket),
		Prefix:    coalesce(env(EnvPrefix), file.Prefix, storage.DefaultPrefix),
		Endpoint:  coalesce(env(EnvEndpoint), file.Endpoint),
		Retention: file.Retention,
	}

	if v := env(EnvRetention); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid %s value %q", EnvRetention, v)
		}
		cfg.Retention = n
	}

	return cfg, nil
}

// Validate reports every missing required field as a *MissingConfigError.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	var invalid error
	missing := &MissingConfigError{}
	for _, nextErr := range vErrs {
		if nextErr.Tag() == "required" {
			missing.Fields = append(missing.Fields, nextErr.Field())
			continue
		}
		if invalid == nil {
			invalid = fmt.Errorf("invalid value provided for: %s", nextErr.Field())
		}
	}

	if len(missing.Fields) > 0 {
		return missing
	}
	return invalid
}

func (c Config) StorageCredentials() types.StorageCredentials {
	return types.StorageCredentials{
		Endpoint:  c.Endpoint,
		SecretID:  c.SecretID,
		SecretKey: c.SecretKey,
		Region:    c.Region,
		Bucket:    c.Bucket,
	}
}

// Save writes cfg to path in the format Load expects for that extension.
func Save(path string, cfg Config) error {
	var value []byte
	var err error
	if isYAML(path) {
		value, err = yaml.Marshal(cfg)
	} else {
		value, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, value, 0600)
}

func readFile(path string) Config {
	value, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("error reading config file", zap.String("path", path), zap.Error(err))
		}
		return Config{}
	}

	c := configFile{}
	if isYAML(path) {
		err = yaml.Unmarshal(value, &c)
	} else {
		err = json.Unmarshal(value, &c)
	}
	if err != nil {
		logger.Warn("error loading config file", zap.String("path", path), zap.Error(err))
		return Config{}
	}
	if !c.Retention.valid && c.Retention.raw != "" {
		logger.Warn("ignoring invalid Retention in config file",
			zap.String("path", path),
			zap.String("value", c.Retention.raw))
	}

	return Config{
		SecretID:  c.SecretID,
		SecretKey: c.SecretKey,
		Region:    c.Region,
		Bucket:    c.Bucket,
		Prefix:    c.Prefix,
		Retention: c.Retention.value,
		Endpoint:  c.Endpoint,
	}
}

func (r *retention) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	var quoted string
	if err := json.Unmarshal(data, &quoted); err == nil {
		raw = quoted
	}
	r.parse(raw)
	return nil
}

func (r *retention) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		r.parse(node.Tag)
		return nil
	}
	if node.Tag == "!!null" {
		return nil
	}
	r.parse(node.Value)
	return nil
}

func (r *retention) parse(raw string) {
	r.raw, r.value, r.valid = raw, 0, false
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		r.value, r.valid = n, true
		return
	}
	// whole floats such as 5.0
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		r.value, r.valid = int(f), true
	}
}

func readEnvFile(path string) map[string]string {
	if path == "" {
		return nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("error loading env file", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	return values
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// coalesce returns the first value that is not blank, trimmed.
func coalesce(values ...string) string {
	v, _ := lo.Coalesce(lo.Map(values, func(item string, _ int) string {
		return strings.TrimSpace(item)
	})...)
	return v
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their config file key
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
