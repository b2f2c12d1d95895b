// Package provenance stamps every populated leaf of an output aggregate
// with when, and by which delivery, its value was last supplied. The
// downstream merge store compares these shadow maps to make per-field
// last-writer-wins decisions over overlapping, out-of-order partial
// updates, so delivery ordering is resolved at the edge rather than in
// the store.
package provenance

import "github.com/lotwire-systems/lotwire-relay/common/value"

// Shadow map keys. Stamp always skips these two so an aggregate that
// already carries provenance never stamps its own shadow maps.
const (
	KeyLastReceivedAt = "last_received_at"
	KeyLastReceivedBy = "last_received_by"
)

// Stamp walks aggregate and records arrival and fp at the mirrored path
// of every leaf passing value.HasValue. Nested objects produce nested
// sub-maps at the same key, never flattened paths; arrays are attributed
// as a single unit. exclude names additional top-level fields to skip,
// the aggregate's identifier being the usual one.
func Stamp(aggregate map[string]interface{}, arrival int64, fp string, exclude ...string) (map[string]interface{}, map[string]interface{}) {
	skip := map[string]struct{}{
		KeyLastReceivedAt: {},
		KeyLastReceivedBy: {},
	}
	for _, f := range exclude {
		skip[f] = struct{}{}
	}

	at := make(map[string]interface{})
	by := make(map[string]interface{})
	for k, v := range aggregate {
		if _, excluded := skip[k]; excluded {
			continue
		}
		stampField(at, by, k, v, arrival, fp)
	}
	return at, by
}

func stampField(at, by map[string]interface{}, key string, v interface{}, arrival int64, fp string) {
	if sub, isObject := v.(map[string]interface{}); isObject {
		subAt := make(map[string]interface{})
		subBy := make(map[string]interface{})
		for k, nested := range sub {
			stampField(subAt, subBy, k, nested, arrival, fp)
		}
		// A nested object with nothing present contributes no entry at
		// all, keeping the shadow maps as sparse as the aggregate.
		if len(subAt) > 0 {
			at[key] = subAt
			by[key] = subBy
		}
		return
	}

	if !value.HasValue(v) {
		return
	}
	at[key] = arrival
	by[key] = fp
}
