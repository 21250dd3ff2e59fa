package vmrun

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/spf13/afero"
)

var (
	dictLine      = regexp.MustCompile(`^\s*([^=\s]+)\s*=\s*"(.*)"\s*$`)
	inventoryKey  = regexp.MustCompile(`(?i)^vmlist(\d+)\.(config|displayname)$`)
	preferenceKey = regexp.MustCompile(`(?i)^pref\.mruvm(\d+)\.(filename|displayname)$`)
	hexEscape     = regexp.MustCompile(`\|([0-9A-Fa-f]{2})`)
)

// Inventory reads the VMs known to VMware Workstation or Player from the
// per-user inventory.vmls or preferences.ini file
type Inventory struct {
	fs   afero.Fs
	path string
}

// NewInventory returns an Inventory backed by fs. An empty path selects the
// per-user default for hostType.
func NewInventory(fs afero.Fs, path, hostType string) *Inventory {
	if path == "" {
		path = DefaultInventoryPath(hostType)
	}
	return &Inventory{fs: fs, path: path}
}

// Path returns the inventory file in use
func (inv *Inventory) Path() string {
	return inv.path
}

// DefaultInventoryPath returns where VMware keeps its VM list for the
// current user
func DefaultInventoryPath(hostType string) string {
	switch runtime.GOOS {
	case "windows":
		dir := filepath.Join(os.Getenv("APPDATA"), "VMware")
		if hostType == HostPlayer {
			return filepath.Join(dir, "preferences.ini")
		}
		return filepath.Join(dir, "inventory.vmls")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "VMware Fusion", "vmInventory")
	}
	home, _ := os.UserHomeDir()
	if hostType == HostPlayer {
		return filepath.Join(home, ".vmware", "preferences")
	}
	return filepath.Join(home, ".vmware", "inventory.vmls")
}

// List returns the VMs in the inventory file. A missing file means no
// VMs are registered.
func (inv *Inventory) List() ([]types.VM, error) {
	b, err := afero.ReadFile(inv.fs, inv.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, vmerr.Wrap(vmerr.BackendError, err, "reading "+inv.path)
	}
	return ParseInventory(string(b))
}

// Suspended reports whether the suspend state file that vmx names in
// checkpoint.vmState exists. A .vmx without that key counts as suspended
// when <name>.vmss or <name>-*.vmss sits beside it.
func (inv *Inventory) Suspended(vmx string) bool {
	dir := filepath.Dir(vmx)
	if b, err := afero.ReadFile(inv.fs, vmx); err == nil {
		if dict, err := ParseDictionary(string(b)); err == nil {
			if state, ok := dict["checkpoint.vmstate"]; ok {
				if state == "" {
					return false
				}
				if !filepath.IsAbs(state) {
					state = filepath.Join(dir, state)
				}
				return inv.Exists(state)
			}
		}
	}

	entries, err := afero.ReadDir(inv.fs, dir)
	if err != nil {
		return false
	}
	name := strings.TrimSuffix(filepath.Base(vmx), filepath.Ext(vmx))
	for _, e := range entries {
		f := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(f), ".vmss") {
			continue
		}
		stem := strings.TrimSuffix(f, filepath.Ext(f))
		if stem == name || strings.HasPrefix(stem, name+"-") {
			return true
		}
	}
	return false
}

// Exists reports whether vmx is present on disk
func (inv *Inventory) Exists(vmx string) bool {
	ok, err := afero.Exists(inv.fs, vmx)
	return err == nil && ok
}

// ParseDictionary reads a VMware dictionary file (`key = "value"` lines).
// Keys are lower-cased and |XX escapes in values are decoded. A
// .encoding line selects the character set of the rest of the file.
func ParseDictionary(text string) (map[string]string, error) {
	dict := map[string]string{}
	for _, line := range textutil.NonEmptyLines(text) {
		if strings.HasPrefix(line, "#") {
			continue
		}
		m := dictLine.FindStringSubmatch(line)
		if m == nil {
			return nil, vmerr.Newf(vmerr.ParseFailure, "unrecognized dictionary line %q", line)
		}
		dict[strings.ToLower(m[1])] = unescape(m[2])
	}
	enc, ok := dict[".encoding"]
	if !ok || strings.EqualFold(enc, "utf-8") {
		return dict, nil
	}

	// values were read as raw bytes; re-decode them in the declared charset
	e, err := textutil.LookupEncoding(enc)
	if err != nil {
		return nil, vmerr.Wrap(vmerr.ParseFailure, err, "dictionary encoding")
	}
	for k, v := range dict {
		s, err := e.Decode([]byte(v))
		if err != nil {
			return nil, vmerr.Wrap(vmerr.ParseFailure, err, "dictionary value "+k)
		}
		dict[k] = s
	}
	return dict, nil
}

func unescape(v string) string {
	return hexEscape.ReplaceAllStringFunc(v, func(s string) string {
		n, err := strconv.ParseUint(s[1:], 16, 8)
		if err != nil {
			return s
		}
		return string([]byte{byte(n)})
	})
}

// ParseInventory reads inventory.vmls (vmlistN.config) or preferences.ini
// (pref.mruVMN.filename) and returns the VMs in file order. The VM ID is
// the .vmx path.
func ParseInventory(text string) ([]types.VM, error) {
	dict, err := ParseDictionary(text)
	if err != nil {
		return nil, err
	}

	type entry struct{ path, name string }
	entries := map[int]*entry{}
	for k, v := range dict {
		m := inventoryKey.FindStringSubmatch(k)
		if m == nil {
			m = preferenceKey.FindStringSubmatch(k)
		}
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		e, ok := entries[n]
		if !ok {
			e = &entry{}
			entries[n] = e
		}
		if m[2] == "displayname" {
			e.name = v
		} else {
			e.path = v
		}
	}

	var keys []int
	for n := range entries {
		keys = append(keys, n)
	}
	sort.Ints(keys)

	var vms []types.VM
	seen := map[string]bool{}
	for _, n := range keys {
		e := entries[n]
		// folders and team entries have no config
		if !strings.HasSuffix(strings.ToLower(e.path), ".vmx") || seen[e.path] {
			continue
		}
		seen[e.path] = true
		name := e.name
		if name == "" {
			name = vmName(e.path)
		}
		vms = append(vms, types.VM{ID: types.VMID(e.path), Name: name})
	}
	return vms, nil
}

// vmName derives a display name from a .vmx path
func vmName(vmx string) string {
	base := vmx[strings.LastIndexAny(vmx, `/\`)+1:]
	return strings.TrimSuffix(base, path.Ext(base))
}
