package types

import (
	"fmt"
	"strings"
)

// StartMode selects whether a VM window is shown
type StartMode int

// Start modes
const (
	Headless StartMode = iota
	GUI
)

func (m StartMode) String() string {
	if m == GUI {
		return "gui"
	}
	return "headless"
}

// StopMode selects between a guest shutdown and a power cut
type StopMode int

// Stop modes
const (
	Soft StopMode = iota
	Hard
)

func (m StopMode) String() string {
	if m == Hard {
		return "hard"
	}
	return "soft"
}

// Backend names one of the supported hypervisor control surfaces
type Backend string

// Supported backends
const (
	BackendVBoxManage Backend = "vbox"
	BackendVmrun      Backend = "vmrun"
	BackendVmRest     Backend = "vmrest"
	BackendHyperV     Backend = "hyperv"
)

// Backends lists every supported backend
var Backends = []Backend{BackendVBoxManage, BackendVmrun, BackendVmRest, BackendHyperV}

// ParseBackend accepts a backend name and a few common aliases
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vbox", "virtualbox", "vboxmanage":
		return BackendVBoxManage, nil
	case "vmrun", "vmware", "workstation":
		return BackendVmrun, nil
	case "vmrest", "rest":
		return BackendVmRest, nil
	case "hyperv", "hyper-v":
		return BackendHyperV, nil
	}
	return "", fmt.Errorf("unknown backend %q", name)
}
