//go:build property
// +build property

// Package canonical_test holds property-based checks for the canonical
// encoder. Run with: go test -tags property ./common/canonical/
package canonical_test

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/lotwire-systems/lotwire-relay/common/canonical"
)

// TestEncodeDeterminism verifies repeated encoding of the same value is
// byte-identical for both variants.
func TestEncodeDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("encoding is deterministic", prop.ForAll(
		func(keys []string, values []string, nums []int) bool {
			obj := buildObject(keys, values, nums)

			if canonical.Encode(obj) != canonical.Encode(obj) {
				return false
			}
			return canonical.EncodeUnordered(obj) == canonical.EncodeUnordered(obj)
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.IntRange(-1000, 1000)),
	))

	properties.TestingRun(t)
}

// TestUnorderedArrayPermutationInvariance verifies reversing any array
// leaves the unordered encoding unchanged.
func TestUnorderedArrayPermutationInvariance(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("array reversal does not change the unordered form", prop.ForAll(
		func(items []string) bool {
			forward := make([]interface{}, len(items))
			backward := make([]interface{}, len(items))
			for i, s := range items {
				forward[i] = s
				backward[len(items)-1-i] = s
			}

			a := map[string]interface{}{"items": forward}
			b := map[string]interface{}{"items": backward}

			return canonical.EncodeUnordered(a) == canonical.EncodeUnordered(b)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// TestEncodeProducesValidJSON verifies both variants always emit
// parseable JSON, whatever the input shape.
func TestEncodeProducesValidJSON(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("output is valid JSON", prop.ForAll(
		func(keys []string, values []string, nums []int) bool {
			obj := buildObject(keys, values, nums)

			if !json.Valid([]byte(canonical.Encode(obj))) {
				return false
			}
			return json.Valid([]byte(canonical.EncodeUnordered(obj)))
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.IntRange(-1000, 1000)),
	))

	properties.TestingRun(t)
}

func buildObject(keys, values []string, nums []int) map[string]interface{} {
	obj := make(map[string]interface{})
	for i := 0; i < len(keys) && i < len(values); i++ {
		if keys[i] != "" {
			obj[keys[i]] = values[i]
		}
	}

	numbers := make([]interface{}, len(nums))
	for i, n := range nums {
		numbers[i] = n
	}
	obj["numbers"] = numbers
	obj["nested"] = map[string]interface{}{"count": len(keys)}
	return obj
}
