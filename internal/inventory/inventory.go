// Package inventory fetches hosts, racks and switches through the response
// cache. Each call returns a fresh snapshot; callers never mutate it.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"evalgo.org/labops/internal/cache"
	"evalgo.org/labops/internal/validation"
	"evalgo.org/labops/models"
	"evalgo.org/labops/pkg/labops/client"
)

// Cache keys, one per resource.
const (
	KeyHosts    = "hosts"
	KeyRacks    = "racks"
	KeySwitches = "switches"
)

// API is the subset of the inventory client the Source needs.
type API interface {
	FetchHosts(ctx context.Context) ([]models.Host, error)
	FetchRacks(ctx context.Context) ([]models.Rack, error)
	FetchSwitches(ctx context.Context) ([]models.Switch, error)
	FindHostByAssetID(ctx context.Context, assetID string) (*models.Host, error)
	FindHostByHardwareID(ctx context.Context, hardwareID string) (*models.Host, error)
}

var _ API = (*client.Client)(nil)

// Source combines the API with a cache.
type Source struct {
	api       API
	cache     cache.Store
	validator *validation.Validator

	// Refresh skips cache reads; fetched data is still written back.
	Refresh bool
}

// NewSource returns a Source. A nil store disables caching.
func NewSource(api API, store cache.Store) *Source {
	if store == nil {
		store = cache.Nop{}
	}
	return &Source{api: api, cache: store, validator: validation.New()}
}

// Hosts returns all hosts.
func (s *Source) Hosts(ctx context.Context) ([]models.Host, error) {
	return cached(ctx, s, KeyHosts, s.api.FetchHosts, s.validator.ValidateHosts)
}

// Racks returns all racks.
func (s *Source) Racks(ctx context.Context) ([]models.Rack, error) {
	return cached(ctx, s, KeyRacks, s.api.FetchRacks, s.validator.ValidateRacks)
}

// Switches returns all switches.
func (s *Source) Switches(ctx context.Context) ([]models.Switch, error) {
	return cached(ctx, s, KeySwitches, s.api.FetchSwitches, s.validator.ValidateSwitches)
}

// cached serves key from the cache when fresh. Fetched data is audited
// before it is stored; problems are logged and the records kept.
func cached[T any](ctx context.Context, s *Source, key string, fetch func(context.Context) ([]T, error), audit func([]T) *validation.ValidationResult) ([]T, error) {
	logger := log.With().Str("resource", key).Logger()

	if !s.Refresh {
		payload, fresh, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Msg("Cache read failed")
		}
		if fresh {
			var items []T
			if err := json.Unmarshal(payload, &items); err == nil {
				logger.Debug().Int("count", len(items)).Msg("Serving from cache")
				return items, nil
			}
			logger.Warn().Msg("Discarding unreadable cache entry")
		}
	}

	logger.Info().Msgf("Fetching %s from API...", key)
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("count", len(items)).Msg("Data retrieved successfully")

	if result := audit(items); !result.Valid {
		for _, verr := range result.Errors {
			logger.Warn().Str("field", verr.Field).Interface("value", verr.Value).Msg(verr.Message)
		}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		logger.Warn().Err(err).Msg("Cache encode failed")
		return items, nil
	}
	if err := s.cache.Put(ctx, key, payload); err != nil {
		logger.Warn().Err(err).Msg("Cache write failed")
	}
	return items, nil
}

// IDKind says which identifier a lookup string is.
type IDKind int

const (
	AssetID IDKind = iota
	HardwareID
)

func (k IDKind) String() string {
	if k == HardwareID {
		return "Hardware ID"
	}
	return "Asset ID"
}

// ClassifyID treats anything with a dot or a letter as a hardware id and
// everything else as an asset id.
func ClassifyID(id string) IDKind {
	if strings.Contains(id, ".") || strings.IndexFunc(id, unicode.IsLetter) >= 0 {
		return HardwareID
	}
	return AssetID
}

// LookupError reports a failed direct lookup.
type LookupError struct {
	Kind IDKind
	ID   string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %s not found: %v", e.Kind, e.ID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// NotFound reports whether the service had no record, as opposed to a
// transport failure.
func (e *LookupError) NotFound() bool { return errors.Is(e.Err, client.ErrNotFound) }

// Lookup finds one host by asset or hardware id. A hardware id lookup
// returns a status record; when it names an asset id the full record is
// fetched with a second request.
func (s *Source) Lookup(ctx context.Context, id string) (*models.Host, error) {
	id = strings.TrimSpace(id)
	kind := ClassifyID(id)

	if kind == AssetID {
		host, err := s.api.FindHostByAssetID(ctx, id)
		if err != nil {
			return nil, &LookupError{Kind: kind, ID: id, Err: err}
		}
		return host, nil
	}

	partial, err := s.api.FindHostByHardwareID(ctx, id)
	if err != nil {
		return nil, &LookupError{Kind: kind, ID: id, Err: err}
	}
	if partial.AssetID == "" {
		return partial, nil
	}
	full, err := s.api.FindHostByAssetID(ctx, partial.AssetID)
	if err != nil {
		return nil, &LookupError{Kind: kind, ID: id, Err: err}
	}
	return full, nil
}
