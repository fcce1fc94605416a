//go:build !amd64.v3

package poly

// Lanes is the number of float32 lanes in a Float.
const Lanes = 4
