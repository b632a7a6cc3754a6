// Package ir provides canonical JSON encoding and content-addressed hashes
// used to identify population configurations and draw sequences.
//
// Two runs with the same configuration snapshot share a PopulationHash
// regardless of map iteration order or Unicode normalization form.
package ir
