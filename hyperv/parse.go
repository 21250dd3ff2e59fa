package hyperv

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

var (
	cmdletPrefix = regexp.MustCompile(`^[A-Za-z]+-[A-Za-z]+ : `)
	warningLine  = regexp.MustCompile(`(?m)^WARNING: (.*)$`)
)

// errorRules classify the first line of a failed script's stderr
var errorRules = vmerr.Rules{
	{Match: "unable to find a virtual machine", Kind: vmerr.NotFound},
	{Match: "Unable to find a snapshot", Kind: vmerr.NotFound},
	{Match: "Unable to find an IPv4 address", Kind: vmerr.NotFound},
	{Match: "credential is invalid", Kind: vmerr.AuthenticationFailure},
	{Match: "user name or password is incorrect", Kind: vmerr.AuthenticationFailure},
	{Match: "You do not have the required permission", Kind: vmerr.AuthenticationFailure},
	{Match: "is not recognized as the name of a cmdlet", Kind: vmerr.LaunchFailure},
}

// ParseVMTable reads the Format-Table rendering of Get-VM with VMId and
// Name columns
func ParseVMTable(text string) ([]types.VM, error) {
	table, err := parseTable(text, "VMId", "Name")
	if err != nil {
		return nil, err
	}
	var vms []types.VM
	for _, row := range table.Rows {
		id := table.Value(row, "VMId")
		if _, err := uuid.Parse(id); err != nil {
			return nil, vmerr.Newf(vmerr.ParseFailure, "bad VMId %q", id)
		}
		vms = append(vms, types.VM{ID: types.VMID(id), Name: table.Value(row, "Name")})
	}
	return vms, nil
}

// ParseSnapshotTable reads the Format-Table rendering of Get-VMSnapshot
// with Id, Name, Current and Notes columns
func ParseSnapshotTable(text string) ([]types.Snapshot, error) {
	table, err := parseTable(text, "Id", "Name", "Current")
	if err != nil {
		return nil, err
	}
	var snaps []types.Snapshot
	for _, row := range table.Rows {
		id := table.Value(row, "Id")
		if _, err := uuid.Parse(id); err != nil {
			return nil, vmerr.Newf(vmerr.ParseFailure, "bad snapshot Id %q", id)
		}
		current, err := strconv.ParseBool(table.Value(row, "Current"))
		if err != nil {
			return nil, vmerr.Wrap(vmerr.ParseFailure, err, "snapshot Current column")
		}
		snaps = append(snaps, types.Snapshot{
			ID:          types.SnapshotID(id),
			Name:        table.Value(row, "Name"),
			Description: table.Value(row, "Notes"),
			Current:     current,
		})
	}
	return snaps, nil
}

func parseTable(text string, columns ...string) (textutil.Table, error) {
	table, err := textutil.ParseTable(text)
	if err != nil {
		return table, vmerr.Wrap(vmerr.ParseFailure, err, "Format-Table output")
	}
	if strings.TrimSpace(text) == "" {
		return table, nil
	}
	for _, c := range columns {
		if table.Index(c) < 0 {
			return table, vmerr.Newf(vmerr.ParseFailure, "table has no %s column", c)
		}
	}
	return table, nil
}

// ParseState maps the name of a VMState to a VMState. The Critical
// variants map like their plain counterparts.
func ParseState(text string) types.VMState {
	s := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(s, "Running"):
		return types.StateRunning
	case strings.HasPrefix(s, "Off"):
		return types.StateStopped
	case strings.HasPrefix(s, "Saved"), strings.HasPrefix(s, "FastSaved"), s == "Hibernated":
		return types.StateSuspended
	case strings.HasPrefix(s, "Paused"):
		return types.StatePaused
	}
	return types.StateUnknown
}

// ParseGUID reads the single GUID a script printed
func ParseGUID(text string) (string, error) {
	lines := textutil.NonEmptyLines(text)
	if len(lines) == 0 {
		return "", vmerr.New(vmerr.ParseFailure, "script printed no identifier")
	}
	last := lines[len(lines)-1]
	id, err := uuid.Parse(last)
	if err != nil {
		return "", vmerr.Wrap(vmerr.ParseFailure, err, "identifier "+strconv.Quote(last))
	}
	return id.String(), nil
}

// ParseValue returns the last non-empty line a script printed
func ParseValue(text string) (string, error) {
	lines := textutil.NonEmptyLines(text)
	for i := len(lines) - 1; i >= 0; i-- {
		if !warningLine.MatchString(lines[i]) {
			return lines[i], nil
		}
	}
	return "", vmerr.New(vmerr.ParseFailure, "script printed nothing")
}

type runDoc struct {
	ExitCode *int    `json:"ExitCode"`
	Stdout   *string `json:"Stdout"`
	Stderr   *string `json:"Stderr"`
}

// ParseRunResult reads the JSON document the guest run script prints
func ParseRunResult(text string) (*types.GuestResult, error) {
	line, err := ParseValue(text)
	if err != nil {
		return nil, err
	}
	var doc runDoc
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, vmerr.Wrap(vmerr.ParseFailure, err, "run result")
	}
	if doc.ExitCode == nil {
		return nil, vmerr.New(vmerr.ParseFailure, "run result has no ExitCode")
	}
	res := &types.GuestResult{ExitCode: *doc.ExitCode, Captured: true}
	if doc.Stdout != nil {
		res.Stdout = strings.ReplaceAll(*doc.Stdout, "\r\n", "\n")
	}
	if doc.Stderr != nil {
		res.Stderr = strings.ReplaceAll(*doc.Stderr, "\r\n", "\n")
	}
	return res, nil
}

// ParseError classifies a failed script. The diagnostic is the first line
// of stderr without its "Cmdlet-Name : " prefix.
func ParseError(stderr, stdout string, code int) *vmerr.Error {
	detail := firstLine(stderr)
	if detail == "" {
		detail = firstLine(stdout)
	}
	if detail == "" {
		detail = "powershell exited with status " + strconv.Itoa(code)
	}
	return errorRules.Error(cmdletPrefix.ReplaceAllString(detail, ""))
}

func firstLine(s string) string {
	lines := textutil.NonEmptyLines(s)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

// warning returns the first WARNING line of a script's output, such as
// the one Start-VM prints for a VM that is already running
func warning(stdout string) string {
	w, _ := textutil.Field(warningLine, stdout)
	return w
}
