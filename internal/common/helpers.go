// Package common provides general utility helper functions and types
package common

import (
	"errors"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

// TimeTrack tracks execution time of each function.
func TimeTrack(start time.Time, name string, logger log.Logger) {
	elapsed := time.Since(start)
	level.Debug(logger).Log("msg", name, "elapsed_time", elapsed)
}

// IsFinite returns true when v is neither NaN nor +/-Inf.
func IsFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// SanitizeFloat replaces +/-Inf and NaN with zero.
func SanitizeFloat(v float64) float64 {
	if !IsFinite(v) {
		return 0
	}

	return v
}

// GetUUIDFromString returns a UUID5 for given slice of strings.
func GetUUIDFromString(stringSlice []string) (string, error) {
	s := strings.Join(stringSlice, ",")
	h := xxh3.HashString128(s).Bytes()
	uuid, err := uuid.FromBytes(h[:])

	return uuid.String(), err
}

// MakeConfig reads config file, merges with passed default config and returns updated
// config instance.
func MakeConfig[T any](filePath string) (*T, error) {
	// Create a new pointer to config instance
	config := new(T)

	// If no config file path provided, return default config
	if filePath == "" {
		return config, errors.New("config file path missing")
	}

	// Read config file
	configFile, err := os.ReadFile(filePath)
	if err != nil {
		return config, err
	}

	err = yaml.Unmarshal(configFile, config)
	if err != nil {
		return config, err
	}

	return config, nil
}
