//go:build griddebug

package grid

// Built with -tags griddebug, key collisions are logged.
const debugChecks = true
