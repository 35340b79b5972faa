// Package entity defines the domain records shared by the store, the
// gateways, and the optimistic mutation coordinator: posts, comments, likes,
// stories, learning entries, connections, users, and notifications.
//
// Identity is a two-state type. A confirmed ID carries the server-assigned
// value; a pending ID carries a locally generated token that exists only
// while an optimistic create is in flight. The two states can never collide
// because pending tokens live in their own namespace.
package entity

import (
	"encoding/json"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// pendingPrefix namespaces locally generated tokens so a pending ID can
// never equal a server-assigned one.
const pendingPrefix = "pending-"

// ID identifies an entity within its collection. The zero value is unset.
type ID struct {
	value   string
	pending bool
}

// ConfirmedID wraps a server-assigned identifier.
func ConfirmedID(value string) ID {
	return ID{value: value}
}

// PendingID generates a fresh placeholder identity. Tokens are ULIDs, so two
// invocations in the same process never collide.
func PendingID() ID {
	return ID{value: pendingPrefix + ulid.Make().String(), pending: true}
}

// ParseID reconstructs an ID from its string form. Strings carrying the
// pending namespace come back as pending ids; everything else is confirmed.
func ParseID(s string) ID {
	if len(s) > len(pendingPrefix) && s[:len(pendingPrefix)] == pendingPrefix {
		return ID{value: s, pending: true}
	}
	return ID{value: s}
}

// IsPending reports whether this is a placeholder identity.
func (id ID) IsPending() bool { return id.pending }

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool { return id.value == "" }

// String returns the wire/string form of the ID.
func (id ID) String() string { return id.value }

// Equal reports identity equality. Pending and confirmed ids never compare
// equal to each other even if the raw strings matched.
func (id ID) Equal(other ID) bool {
	return id.value == other.value && id.pending == other.pending
}

// MarshalJSON encodes the ID as its string form.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON decodes an ID from a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Some backends hand back numeric ids.
		var n json.Number
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return fmt.Errorf("entity id must be string or number: %w", err)
		}
		s = n.String()
	}
	*id = ParseID(s)
	return nil
}
