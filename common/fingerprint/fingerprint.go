// Package fingerprint derives the deterministic identity of an inbound
// delivery from its content. The identifier is UUID-shaped for the benefit
// of downstream systems but is a reformatted content hash, not a random or
// time-based UUID.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/lotwire-systems/lotwire-relay/common/canonical"
)

// ArrivalField is the top-level key carrying the arrival timestamp. The
// logical flavor strips it so redeliveries of the same business event
// collapse to one identity.
const ArrivalField = "received_at"

const separator = ":"

// New computes the fingerprint of raw under the given category namespace.
// includeArrival selects the flavor: false yields the logical identity,
// stable across redelivery; true folds the arrival timestamp in, making
// every physical delivery distinct.
//
// Equal content always yields an equal fingerprint regardless of key or
// array ordering in the source, because hashing runs over the
// order-insensitive canonical form. Never fails: values the encoder
// cannot represent degrade to null before hashing.
func New(raw map[string]interface{}, namespace string, includeArrival bool) string {
	subject := raw
	if !includeArrival {
		if _, present := raw[ArrivalField]; present {
			subject = make(map[string]interface{}, len(raw))
			for k, v := range raw {
				if k == ArrivalField {
					continue
				}
				subject[k] = v
			}
		}
	}

	// MD5 here is content identity for dedup at CRM volumes, not a
	// security boundary.
	sum := md5.Sum([]byte(namespace + separator + canonical.EncodeUnordered(subject)))
	return format(sum[:])
}

// format renders the 128-bit digest as 8-4-4-4-12 hex groups.
func format(b []byte) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		hex.EncodeToString(b[0:4]),
		hex.EncodeToString(b[4:6]),
		hex.EncodeToString(b[6:8]),
		hex.EncodeToString(b[8:10]),
		hex.EncodeToString(b[10:16]))
}
