//go:build !windows

package textutil

// DefaultEncodingName is utf-8 outside Windows
func DefaultEncodingName() string {
	return "utf-8"
}
