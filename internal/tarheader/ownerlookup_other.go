//go:build !unix

package tarheader

// IsSuperuser always reports false on non-Unix platforms: there is no
// effective-uid concept for owner reconciliation to gate on.
func IsSuperuser() bool { return false }
