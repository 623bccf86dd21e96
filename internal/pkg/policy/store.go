package policy

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/subpilot/subpilot/app/models"
	"github.com/subpilot/subpilot/app/repository"
)

// snapshot is the immutable unit the cache swaps atomically: the merged
// policy, the raw active overrides it was built from, and the build time.
type snapshot struct {
	policy    Policy
	overrides map[string]string
	loadedAt  time.Time
}

// Store serves the effective policy from a TTL cache and owns every mutation
// of the override/audit tables. Reads never fail: a broken reload degrades to
// the previous snapshot, or to the defaults when none exists yet.
type Store struct {
	cfg      repository.ConfigRepository
	defaults Policy

	// mu serializes reloads so concurrent cache misses coalesce into one
	// recomputation; readers never take it.
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]

	now func() time.Time
}

// NewStore creates a policy store over the injected config repository.
func NewStore(cfg repository.ConfigRepository) *Store {
	return &Store{
		cfg:      cfg,
		defaults: DefaultPolicy(),
		now:      time.Now,
	}
}

// GetDefaultPolicy returns the compiled-in defaults, independent of overrides.
func (s *Store) GetDefaultPolicy() Policy {
	return s.defaults
}

// GetEffectivePolicy returns the current merged policy. Fast path is an
// unsynchronized snapshot read; on expiry the reload is single-writer locked
// with a double-checked freshness test.
func (s *Store) GetEffectivePolicy() Policy {
	if sn := s.snap.Load(); sn != nil && s.fresh(sn) {
		return sn.policy
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sn := s.snap.Load(); sn != nil && s.fresh(sn) {
		return sn.policy
	}
	sn, err := s.rebuild()
	if err != nil {
		log.Printf("policy: cache reload failed, serving stale policy: %v", err)
		if prev := s.snap.Load(); prev != nil {
			return prev.policy
		}
		return s.defaults
	}
	return sn.policy
}

// GetActiveOverrides returns a copy of the active override map backing the
// current snapshot.
func (s *Store) GetActiveOverrides() map[string]string {
	s.GetEffectivePolicy()
	sn := s.snap.Load()
	if sn == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(sn.overrides))
	for k, v := range sn.overrides {
		out[k] = v
	}
	return out
}

// RefreshCache unconditionally rebuilds the snapshot.
func (s *Store) RefreshCache() Policy {
	return s.forceReload()
}

// ApplyOverrides validates and persists a batch of override mutations. The
// whole batch is validated before any write: one unknown key or out-of-range
// value rejects the entire call. A blank value deactivates the key's
// override. The cache is only invalidated when at least one value actually
// changed. Returns the resulting effective policy.
func (s *Store) ApplyOverrides(overrides map[string]string, actor string) (Policy, error) {
	if len(overrides) == 0 {
		return s.GetEffectivePolicy(), nil
	}

	normalized := make(map[string]string, len(overrides))
	for raw, value := range overrides {
		key, err := normalizeKey(raw)
		if err != nil {
			return Policy{}, err
		}
		normalized[key] = value
	}
	keys := sortedKeys(normalized)

	// dry-run merge into a probe policy; rejects before any persistence
	probe := s.defaults
	for _, key := range keys {
		value := strings.TrimSpace(normalized[key])
		if value == "" {
			continue
		}
		if err := keySpecs[key].apply(&probe, key, value); err != nil {
			return Policy{}, err
		}
	}

	changed := false
	err := s.cfg.Mutate(func(tx repository.ConfigMutation) error {
		for _, key := range keys {
			value := strings.TrimSpace(normalized[key])
			if value == "" {
				before, err := tx.DeactivateOverride(key)
				if err != nil {
					return err
				}
				if before == nil {
					continue
				}
				changed = true
				if err := tx.AppendAudit(&models.ConfigAudit{
					ConfigKey:   key,
					BeforeValue: before,
					AfterValue:  nil,
					ActionType:  models.ConfigActionDeactivate,
					Actor:       actor,
				}); err != nil {
					return err
				}
				continue
			}

			before, didChange, err := tx.UpsertOverride(key, value)
			if err != nil {
				return err
			}
			if !didChange {
				continue
			}
			changed = true
			after := value
			if err := tx.AppendAudit(&models.ConfigAudit{
				ConfigKey:   key,
				BeforeValue: before,
				AfterValue:  &after,
				ActionType:  models.ConfigActionUpsert,
				Actor:       actor,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Policy{}, fmt.Errorf("apply overrides: %w", err)
	}

	if !changed {
		return s.GetEffectivePolicy(), nil
	}
	return s.forceReload(), nil
}

// RollbackAllOverrides deactivates every active override, writing one
// ROLLBACK_ALL audit per key, and returns the now-default-equivalent policy.
func (s *Store) RollbackAllOverrides(actor string) (Policy, error) {
	err := s.cfg.Mutate(func(tx repository.ConfigMutation) error {
		rows, err := tx.ActiveOverrides()
		if err != nil {
			return err
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ConfigKey < rows[j].ConfigKey })
		for _, row := range rows {
			before, err := tx.DeactivateOverride(row.ConfigKey)
			if err != nil {
				return err
			}
			if before == nil {
				continue
			}
			if err := tx.AppendAudit(&models.ConfigAudit{
				ConfigKey:   row.ConfigKey,
				BeforeValue: before,
				AfterValue:  nil,
				ActionType:  models.ConfigActionRollbackAll,
				Actor:       actor,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Policy{}, fmt.Errorf("rollback all overrides: %w", err)
	}
	return s.forceReload(), nil
}

// RollbackOverrideByKey restores a key to the value it held before the most
// recent change. The target is found by scanning the key's audit history
// newest-first for the entry whose after-value equals the currently active
// value; that entry's before-value wins. An active override without a
// matching audit entry (legacy data) reverts to "no override".
func (s *Store) RollbackOverrideByKey(rawKey, actor string) (Policy, error) {
	key, err := normalizeKey(rawKey)
	if err != nil {
		return Policy{}, err
	}

	err = s.cfg.Mutate(func(tx repository.ConfigMutation) error {
		active, err := tx.ActiveOverride(key)
		if err != nil {
			return err
		}
		audits, err := tx.AuditsByKeyDesc(key)
		if err != nil {
			return err
		}
		if active == nil && len(audits) == 0 {
			return &KeyError{Key: key, Reason: "no override and no history", err: ErrNothingToRollback}
		}

		var current *string
		if active != nil {
			v := active.Value
			current = &v
		}

		target, matched := rollbackTarget(audits, current)
		if !matched && active == nil {
			// history exists but none of it ends at the current (empty)
			// state; there is no state to restore
			return &KeyError{Key: key, Reason: "no reconstructable prior state", err: ErrNothingToRollback}
		}
		if !matched {
			target = nil
		}

		if target == nil {
			before, err := tx.DeactivateOverride(key)
			if err != nil {
				return err
			}
			return tx.AppendAudit(&models.ConfigAudit{
				ConfigKey:   key,
				BeforeValue: before,
				AfterValue:  nil,
				ActionType:  models.ConfigActionRollbackKey,
				Actor:       actor,
			})
		}

		if _, _, err := tx.UpsertOverride(key, *target); err != nil {
			return err
		}
		return tx.AppendAudit(&models.ConfigAudit{
			ConfigKey:   key,
			BeforeValue: current,
			AfterValue:  target,
			ActionType:  models.ConfigActionRollbackKey,
			Actor:       actor,
		})
	})
	if err != nil {
		return Policy{}, err
	}
	return s.forceReload(), nil
}

// GetRecentAudits returns audit entries newest-first, optionally filtered to
// one validated key. The limit is clamped into [1, 200].
func (s *Store) GetRecentAudits(limit int, key string) ([]models.ConfigAudit, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}
	if strings.TrimSpace(key) == "" {
		return s.cfg.RecentAudits(limit)
	}
	k, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	return s.cfg.RecentAuditsByKey(k, limit)
}

// rollbackTarget scans newest-first for the audit entry whose after-value
// equals the current value and returns its before-value.
func rollbackTarget(audits []models.ConfigAudit, current *string) (*string, bool) {
	for _, a := range audits {
		if strPtrEqual(a.AfterValue, current) {
			return a.BeforeValue, true
		}
	}
	return nil, false
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// fresh applies the read-path TTL: max(1s, default runtimeCacheTtlMs).
func (s *Store) fresh(sn *snapshot) bool {
	ttl := time.Duration(s.defaults.RuntimeCacheTtlMs) * time.Millisecond
	if ttl < time.Second {
		ttl = time.Second
	}
	return s.now().Sub(sn.loadedAt) < ttl
}

// forceReload rebuilds the snapshot regardless of freshness, degrading to
// stale-or-default on failure like the read path.
func (s *Store) forceReload() Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, err := s.rebuild()
	if err != nil {
		log.Printf("policy: forced reload failed, serving stale policy: %v", err)
		if prev := s.snap.Load(); prev != nil {
			return prev.policy
		}
		return s.defaults
	}
	return sn.policy
}

// rebuild recomputes the snapshot from defaults + active overrides and swaps
// it in. Caller must hold mu.
func (s *Store) rebuild() (*snapshot, error) {
	rows, err := s.cfg.FindActiveOverrides()
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]string, len(rows))
	for _, row := range rows {
		overrides[row.ConfigKey] = row.Value
	}
	sn := &snapshot{
		policy:    Merge(s.defaults, overrides),
		overrides: overrides,
		loadedAt:  s.now(),
	}
	s.snap.Store(sn)
	return sn, nil
}
