package reconcile

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey signals that the fetched entity set repeated an identity key.
// Duplicates surviving canonicalization indicate an aggregation bug upstream;
// the engine fails fast rather than silently picking one.
var ErrDuplicateKey = errors.New("duplicate identity key in fetched entities")

// Diff computes the four-way partition of the fetched entity set against the
// persisted snapshot, keyed by identity key.
//
// An intersecting key whose source linkage differs is classified as updated:
// the identity is the same logical thing but its underlying source object
// changed, so the whole row is re-upserted. Individual fields are not
// inspected, which means an attribute edit that keeps the source object id is
// invisible here; callers relying on finer change detection must add it at the
// source.
//
// Output ordering follows input ordering, so identical inputs yield identical
// plans across runs.
func Diff(fetched []SourceItem, persisted []StoreItem, adapter Adapter) (*Plan, error) {
	fetchedKeys := make(map[string]struct{}, len(fetched))
	for _, item := range fetched {
		key := adapter.SourceKey(item)
		if _, dup := fetchedKeys[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		fetchedKeys[key] = struct{}{}
	}

	// Index active persisted records by key. A duplicate active key in the
	// store keeps the first row, matching the store's read order.
	persistedLinkage := make(map[string]string, len(persisted))
	activeCount := 0
	for _, item := range persisted {
		if !adapter.StoreActive(item) {
			continue
		}
		activeCount++
		key := adapter.StoreKey(item)
		if _, seen := persistedLinkage[key]; !seen {
			persistedLinkage[key] = adapter.StoreLinkage(item)
		}
	}

	plan := &Plan{}

	for _, item := range fetched {
		key := adapter.SourceKey(item)
		storedLinkage, exists := persistedLinkage[key]
		switch {
		case !exists:
			plan.Added = append(plan.Added, item)
		case storedLinkage != adapter.SourceLinkage(item):
			plan.Updated = append(plan.Updated, item)
		default:
			plan.Unchanged = append(plan.Unchanged, key)
		}
	}

	seenRemoved := make(map[string]struct{})
	for _, item := range persisted {
		if !adapter.StoreActive(item) {
			continue
		}
		key := adapter.StoreKey(item)
		if _, fetchedToo := fetchedKeys[key]; fetchedToo {
			continue
		}
		if _, seen := seenRemoved[key]; seen {
			continue
		}
		seenRemoved[key] = struct{}{}
		plan.Removed = append(plan.Removed, key)
	}

	plan.Summary = Summary{
		Fetched:   len(fetched),
		Persisted: activeCount,
		Added:     len(plan.Added),
		Updated:   len(plan.Updated),
		Removed:   len(plan.Removed),
		Unchanged: len(plan.Unchanged),
	}

	return plan, nil
}
