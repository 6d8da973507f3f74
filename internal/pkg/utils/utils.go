// Package utils holds small generic helpers shared across packages.
package utils

// Ptr returns a pointer to v. Useful for building partial updates.
func Ptr[T any](v T) *T {
	return &v
}
