package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/seqyank/internal/domain"
)

// FileName is the workspace configuration file.
const FileName = "seqyank.yaml"

// Load reads the workspace configuration: seqyank.yaml over the defaults,
// then <root>/.env, then SEQYANK_* environment variables.
func Load(root string) (domain.Config, error) {
	path := filepath.Join(root, FileName)

	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := LoadDotEnv(filepath.Join(root, ".env")); err != nil {
		return cfg, &domain.OpError{Op: "config.dotenv", Kind: domain.KindInvalidConfig, Path: filepath.Join(root, ".env"), Err: err}
	}

	env, err := LoadFromEnv()
	if err != nil {
		return cfg, &domain.OpError{Op: "config.env", Kind: domain.KindInvalidConfig, Err: err}
	}
	cfg = env.Apply(cfg)

	if err := Validate(path, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile reads one seqyank.yaml without environment overrides.
func LoadFile(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapConfig(path, dto)
}

// LoadBatch reads a batch file. delim joins mapping-style requests.
func LoadBatch(path, delim string) (domain.BatchSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.BatchSpec{}, &domain.OpError{
			Op:   "config.load_batch",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLBatch
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.BatchSpec{}, &domain.OpError{
			Op:   "config.load_batch",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapBatch(path, dto, delim)
}
