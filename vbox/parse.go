package vbox

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	virtualbox "github.com/terra-farm/go-virtualbox"
)

var (
	vmLineUUID    = regexp.MustCompile(`^"(.*)" \{([0-9a-fA-F-]+)\}$`)
	vmLineIndex   = regexp.MustCompile(`^(\d+):"(.*)"$`)
	errorLine     = regexp.MustCompile(`(?im)^VBoxManage(?:\.exe)?: error: (.*)$`)
	snapshotKey   = regexp.MustCompile(`^Snapshot(Name|UUID|Description)((?:-\d+)*)$`)
	takenUUID     = regexp.MustCompile(`UUID: ([0-9a-fA-F-]{36})`)
	propertyValue = regexp.MustCompile(`(?m)^Value: (.*)$`)
	versionLine   = regexp.MustCompile(`^\d+\.\d+\.\d+\S*$`)
)

const noSnapshots = "does not have any snapshots"

// errorRules classify the "VBoxManage: error:" lines of a failed command
var errorRules = vmerr.Rules{
	{Match: "not able to logon on guest", Kind: vmerr.AuthenticationFailure},
	{Match: "VERR_AUTHENTICATION_FAILURE", Kind: vmerr.AuthenticationFailure},
	{Match: "VERR_ACCOUNT_RESTRICTED", Kind: vmerr.AuthenticationFailure},
	{Match: "Could not find a registered machine", Kind: vmerr.NotFound},
	{Match: "Could not find a snapshot", Kind: vmerr.NotFound},
	{Match: "VBOX_E_OBJECT_NOT_FOUND", Kind: vmerr.NotFound},
	{Match: "VERR_FILE_NOT_FOUND", Kind: vmerr.NotFound},
	{Match: "VERR_PATH_NOT_FOUND", Kind: vmerr.NotFound},
	{Match: "FsObjQueryInfo failed", Kind: vmerr.NotFound},
	{Match: "Syntax error", Kind: vmerr.UnsupportedOperation},
	{Match: "Unknown subcommand", Kind: vmerr.UnsupportedOperation},
	{Match: "Invalid command", Kind: vmerr.UnsupportedOperation},
}

// ParseVMList reads the output of "list vms". Both the
// `"name" {uuid}` form and the numbered `index:"name"` form are accepted.
func ParseVMList(text string) ([]types.VM, error) {
	var vms []types.VM
	for _, line := range textutil.NonEmptyLines(text) {
		if m := vmLineUUID.FindStringSubmatch(line); m != nil {
			if _, err := uuid.Parse(m[2]); err != nil {
				return nil, vmerr.Newf(vmerr.ParseFailure, "bad machine uuid in %q", line)
			}
			vms = append(vms, types.VM{ID: types.VMID(m[2]), Name: m[1]})
			continue
		}
		if m := vmLineIndex.FindStringSubmatch(line); m != nil {
			vms = append(vms, types.VM{ID: types.VMID(m[1]), Name: m[2]})
			continue
		}
		return nil, vmerr.Newf(vmerr.ParseFailure, "unrecognized vm line %q", line)
	}
	return vms, nil
}

// ParseInfo reads "showvminfo --machinereadable" into a property map
func ParseInfo(text string) (map[string]string, error) {
	info, err := textutil.PairMap(text)
	if err != nil {
		return nil, vmerr.Wrap(vmerr.ParseFailure, err, "showvminfo")
	}
	return info, nil
}

// ParseState extracts the power state from "showvminfo --machinereadable"
func ParseState(text string) (types.VMState, error) {
	info, err := ParseInfo(text)
	if err != nil {
		return types.StateUnknown, err
	}
	state, ok := info["VMState"]
	if !ok {
		return types.StateUnknown, vmerr.New(vmerr.ParseFailure, "showvminfo output has no VMState")
	}
	return mapState(state), nil
}

func mapState(state string) types.VMState {
	switch virtualbox.MachineState(state) {
	case virtualbox.Running:
		return types.StateRunning
	case virtualbox.Poweroff, virtualbox.Aborted:
		return types.StateStopped
	case virtualbox.Paused:
		return types.StatePaused
	case virtualbox.Saved:
		return types.StateSuspended
	}
	return types.StateUnknown
}

// ParseSnapshots reads "snapshot list --machinereadable". Snapshots are
// returned in tree order, parents before children.
func ParseSnapshots(text string) ([]types.Snapshot, error) {
	if strings.Contains(text, noSnapshots) {
		return nil, nil
	}

	pairs, err := textutil.ParsePairs(text)
	if err != nil {
		return nil, vmerr.Wrap(vmerr.ParseFailure, err, "snapshot list")
	}

	var (
		order    []string
		bySuffix = map[string]*types.Snapshot{}
		current  string
	)
	for _, p := range pairs {
		if p.Key == "CurrentSnapshotUUID" {
			current = p.Value
			continue
		}
		m := snapshotKey.FindStringSubmatch(p.Key)
		if m == nil {
			continue
		}
		s, ok := bySuffix[m[2]]
		if !ok {
			s = &types.Snapshot{}
			bySuffix[m[2]] = s
			order = append(order, m[2])
		}
		switch m[1] {
		case "Name":
			s.Name = p.Value
		case "UUID":
			s.ID = types.SnapshotID(p.Value)
		case "Description":
			s.Description = p.Value
		}
	}

	snaps := make([]types.Snapshot, 0, len(order))
	for _, suffix := range order {
		s := bySuffix[suffix]
		if s.ID == "" || s.Name == "" {
			return nil, vmerr.Newf(vmerr.ParseFailure, "snapshot%s has no name or uuid", suffix)
		}
		s.Current = current != "" && string(s.ID) == current
		snaps = append(snaps, *s)
	}
	if len(snaps) == 0 && len(textutil.NonEmptyLines(text)) > 0 {
		return nil, vmerr.New(vmerr.ParseFailure, "snapshot list has no snapshot entries")
	}
	return snaps, nil
}

// ParseSnapshotTaken returns the UUID printed by "snapshot take"
func ParseSnapshotTaken(text string) (types.SnapshotID, error) {
	id, ok := textutil.Field(takenUUID, text)
	if !ok {
		return "", vmerr.New(vmerr.ParseFailure, "snapshot take did not report a uuid")
	}
	return types.SnapshotID(id), nil
}

// ParseGuestProperty returns the value printed by "guestproperty get".
// ok is false when the property is not set.
func ParseGuestProperty(text string) (value string, ok bool, err error) {
	if strings.Contains(text, "No value set!") {
		return "", false, nil
	}
	v, found := textutil.Field(propertyValue, text)
	if !found {
		return "", false, vmerr.Newf(vmerr.ParseFailure, "unrecognized guestproperty output %q", strings.TrimSpace(text))
	}
	return strings.TrimSpace(v), true, nil
}

// ParseVersion reads the output of "--version"
func ParseVersion(text string) (string, error) {
	lines := textutil.NonEmptyLines(text)
	if len(lines) == 0 {
		return "", vmerr.New(vmerr.ParseFailure, "empty version output")
	}
	v := lines[len(lines)-1]
	if !versionLine.MatchString(v) {
		return "", vmerr.Newf(vmerr.ParseFailure, "unrecognized version %q", v)
	}
	return v, nil
}

// ParseError turns the output of a failed command into a normalized error
func ParseError(stderr, stdout string, exitCode int) *vmerr.Error {
	var msgs []string
	for _, m := range errorLine.FindAllStringSubmatch(stderr, -1) {
		msgs = append(msgs, strings.TrimSpace(m[1]))
	}
	detail := strings.Join(msgs, "; ")
	if detail == "" {
		detail = strings.TrimSpace(stderr)
	}
	if detail == "" {
		detail = strings.TrimSpace(stdout)
	}
	if detail == "" {
		return vmerr.Newf(vmerr.BackendError, "VBoxManage exited with status %d", exitCode)
	}
	return errorRules.Error(detail)
}
