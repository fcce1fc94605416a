//go:build synthdebug

package poly

const debugChecks = true
