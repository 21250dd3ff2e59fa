package textutil

import (
	"strconv"

	"golang.org/x/sys/windows"
)

// DefaultEncodingName is the ANSI code page of the host
func DefaultEncodingName() string {
	return "cp" + strconv.FormatUint(uint64(windows.GetACP()), 10)
}
