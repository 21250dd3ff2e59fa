package vmrun

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

var (
	errorLine    = regexp.MustCompile(`(?m)^Error: (.*)$`)
	runningTotal = regexp.MustCompile(`^Total running VMs: (\d+)$`)
	snapTotal    = regexp.MustCompile(`^Total snapshots: (\d+)$`)
	exitCode     = regexp.MustCompile(`exited with non-zero exit code: (-?\d+)`)
	versionLine  = regexp.MustCompile(`(?m)^vmrun version (\S+ build-\d+)`)
	processTotal = regexp.MustCompile(`^Process list: (\d+)$`)
	processLine  = regexp.MustCompile(`^pid=(\d+), owner=(.*?), cmd=(.*)$`)
	dirTotal     = regexp.MustCompile(`^Directory list: (\d+)$`)
)

var errorRules = vmerr.Rules{
	{Match: "Invalid user name or password", Kind: vmerr.AuthenticationFailure},
	{Match: "Cannot open VM", Kind: vmerr.NotFound},
	{Match: "cannot be found", Kind: vmerr.NotFound},
	{Match: "does not exist", Kind: vmerr.NotFound},
	{Match: "Unrecognized command", Kind: vmerr.UnsupportedOperation},
	{Match: "not supported", Kind: vmerr.UnsupportedOperation},
}

// ParseRunning reads the output of "list" and returns the .vmx paths of the
// running VMs.
func ParseRunning(text string) ([]string, error) {
	return counted(text, runningTotal, "list")
}

// ParseSnapshots reads the output of "listSnapshots". vmrun identifies
// snapshots by name, so names double as IDs.
func ParseSnapshots(text string) ([]types.Snapshot, error) {
	names, err := counted(text, snapTotal, "listSnapshots")
	if err != nil {
		return nil, err
	}
	var snaps []types.Snapshot
	for _, name := range names {
		snaps = append(snaps, types.Snapshot{ID: types.SnapshotID(name), Name: name})
	}
	return snaps, nil
}

// ParseProcesses reads the output of "listProcessesInGuest"
func ParseProcesses(text string) ([]Process, error) {
	lines, err := counted(text, processTotal, "listProcessesInGuest")
	if err != nil {
		return nil, err
	}
	var procs []Process
	for _, l := range lines {
		m := processLine.FindStringSubmatch(l)
		if m == nil {
			return nil, vmerr.Newf(vmerr.ParseFailure, "listProcessesInGuest: unexpected line %q", l)
		}
		pid, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return nil, vmerr.Wrap(vmerr.ParseFailure, err, "listProcessesInGuest")
		}
		procs = append(procs, Process{PID: pid, Owner: m[2], Command: m[3]})
	}
	return procs, nil
}

// ParseDirectory reads the output of "listDirectoryInGuest"
func ParseDirectory(text string) ([]string, error) {
	return counted(text, dirTotal, "listDirectoryInGuest")
}

// ParseToolsState reads the output of "checkToolsState"
func ParseToolsState(text string) (ToolsState, error) {
	switch s := ToolsState(strings.TrimSpace(text)); s {
	case ToolsUnknown, ToolsInstalled, ToolsRunning:
		return s, nil
	}
	return "", vmerr.Newf(vmerr.ParseFailure, "unexpected tools state %q", strings.TrimSpace(text))
}

// counted reads a "Total ...: N" header followed by N entries
func counted(text string, header *regexp.Regexp, op string) ([]string, error) {
	lines := textutil.NonEmptyLines(text)
	if len(lines) == 0 {
		return nil, nil
	}
	m := header.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if m == nil {
		return nil, vmerr.Newf(vmerr.ParseFailure, "%s: unexpected header %q", op, lines[0])
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, vmerr.Wrap(vmerr.ParseFailure, err, op)
	}
	entries := lines[1:]
	if len(entries) != n {
		return nil, vmerr.Newf(vmerr.ParseFailure, "%s: header announces %d entries, got %d", op, n, len(entries))
	}
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSpace(e))
	}
	return out, nil
}

// ParseExitCode extracts the guest exit status from the output of a failed
// runProgramInGuest
func ParseExitCode(text string) (int, bool) {
	v, ok := textutil.Field(exitCode, text)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseExists reads the answer of fileExistsInGuest or
// directoryExistsInGuest
func ParseExists(text, what string) (bool, error) {
	switch strings.TrimSpace(text) {
	case "The " + what + " exists.":
		return true, nil
	case "The " + what + " does not exist.":
		return false, nil
	}
	return false, vmerr.Newf(vmerr.ParseFailure, "unexpected answer %q", strings.TrimSpace(text))
}

// ParseIP reads the output of getGuestIPAddress
func ParseIP(text string) (string, error) {
	lines := textutil.NonEmptyLines(text)
	if len(lines) != 1 || strings.ContainsAny(strings.TrimSpace(lines[0]), " \t") {
		return "", vmerr.Newf(vmerr.ParseFailure, "unexpected address %q", strings.TrimSpace(text))
	}
	return strings.TrimSpace(lines[0]), nil
}

// ParseVersion finds "vmrun version 1.17.0 build-17801498" in the usage text
func ParseVersion(text string) (string, error) {
	v, ok := textutil.Field(versionLine, text)
	if !ok {
		return "", vmerr.New(vmerr.ParseFailure, "no version line in vmrun output")
	}
	return v, nil
}

// ParseError classifies the output of a failed vmrun command. The
// diagnostic is an "Error: " line on either stream.
func ParseError(stdout, stderr string, code int) *vmerr.Error {
	var msgs []string
	for _, m := range errorLine.FindAllStringSubmatch(stderr+"\n"+stdout, -1) {
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
		detail = "vmrun exited with status " + strconv.Itoa(code)
	}
	return errorRules.Error(detail)
}

// failed reports whether a vmrun invocation reported an error
func failed(stdout, stderr string, code int) bool {
	return code != 0 || errorLine.MatchString(stdout) || errorLine.MatchString(stderr)
}
