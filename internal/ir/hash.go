package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows a future algorithm change.
const (
	DomainPopulation = "lenspop/population/v1"
	DomainDraws      = "lenspop/draws/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PopulationHash identifies a population configuration snapshot.
func PopulationHash(snapshot map[string]any) (string, error) {
	canonical, err := MarshalCanonical(snapshot)
	if err != nil {
		return "", fmt.Errorf("PopulationHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPopulation, canonical), nil
}

// DrawsHash identifies an ordered sequence of drawn record IDs.
func DrawsHash(ids []int) (string, error) {
	arr := make([]any, len(ids))
	for i, id := range ids {
		arr[i] = id
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("DrawsHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDraws, canonical), nil
}
