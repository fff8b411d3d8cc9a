package cache

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// TagKey holds the version counter of namespace ns.
func TagKey(ns string) string {
	return "tag:" + ns
}

// ListKey builds <ns>:<op>:v<version>:<hash>. A bump of ns orphans every key built
// against the previous version.
func ListKey(ns, op string, version int64, args any) (string, error) {
	h, err := Hash(args)
	if err != nil {
		return "", err
	}
	return ns + ":" + op + ":v" + strconv.FormatInt(version, 10) + ":" + h, nil
}

// PointKey is the by-id entry of one row.
func PointKey(ns, id string) string {
	return ns + ":byid:" + id
}

// Hash is the hex xxhash64 of the canonical JSON encoding of v. Struct fields encode in
// declaration order and map keys sorted, so equal filters hash equally.
func Hash(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash cache args: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(raw)), nil
}
