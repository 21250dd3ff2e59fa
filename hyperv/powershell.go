package hyperv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/nanovms/hvctl/log"
	"github.com/nanovms/hvctl/process"
	"github.com/nanovms/hvctl/textutil"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/nanovms/hvctl/wsl"
)

// prologue runs before every script. Parameters arrive as a JSON document
// on stdin in $p and never on the command line.
const prologue = `$ErrorActionPreference = 'Stop'
$ProgressPreference = 'SilentlyContinue'
[Threading.Thread]::CurrentThread.CurrentUICulture = 'en-US'
[Console]::OutputEncoding = New-Object System.Text.UTF8Encoding $false
$p = [Console]::In.ReadToEnd() | ConvertFrom-Json

function Find-VM([string]$id) {
  $vm = Get-VM | Where-Object { $_.VMId.ToString() -eq $id -or $_.Name -eq $id } | Select-Object -First 1
  if ($vm -eq $null) {
    throw "Hyper-V was unable to find a virtual machine with identifier '$id'."
  }
  $vm
}

function Find-Snapshot($vm, [string]$id) {
  $snap = Get-VMSnapshot -VM $vm | Where-Object { $_.Id.ToString() -eq $id -or $_.Name -eq $id } | Select-Object -First 1
  if ($snap -eq $null) {
    throw "Unable to find a snapshot matching the given criteria."
  }
  $snap
}

function New-GuestCredential {
  $secret = ConvertTo-SecureString $p.password -AsPlainText -Force
  New-Object System.Management.Automation.PSCredential($p.username, $secret)
}
`

// PowerShell runs scripts through powershell.exe
type PowerShell struct {
	runner    process.Runner
	path      string
	encoding  textutil.Encoding
	scriptDir string
	paths     *wsl.Converter
}

type output struct {
	stdout, stderr string
	code           int
}

// Run saves script to a temporary .ps1 file and runs it with params
// encoded on stdin. A non-zero exit status is returned as a classified
// error.
func (ps *PowerShell) Run(ctx context.Context, script string, params interface{}) (string, error) {
	out, err := ps.exec(ctx, script, params)
	if err != nil {
		return "", err
	}
	if out.code != 0 {
		return "", ParseError(out.stderr, out.stdout, out.code)
	}
	if w := warning(out.stdout); w != "" {
		log.Debug("hyperv: %s", w)
	}
	return out.stdout, nil
}

func (ps *PowerShell) exec(ctx context.Context, script string, params interface{}) (output, error) {
	filename, err := saveScript(ps.scriptDir, prologue+script)
	if err != nil {
		return output{}, vmerr.Wrap(vmerr.LaunchFailure, err, "writing script")
	}
	defer os.Remove(filename)

	scriptPath, err := ps.paths.ToWindows(ctx, filename)
	if err != nil {
		return output{}, err
	}

	stdin, err := encodeParams(params)
	if err != nil {
		return output{}, vmerr.Wrap(vmerr.LaunchFailure, err, "encoding parameters")
	}

	res, err := ps.runner.Run(ctx, process.Command{
		Path:  ps.path,
		Args:  createArgs(scriptPath),
		Stdin: stdin,
	})
	if err != nil {
		return output{}, err
	}

	stdout, err := ps.encoding.Decode(res.Stdout)
	if err != nil {
		return output{}, vmerr.Wrap(vmerr.ParseFailure, err, "decoding stdout")
	}
	stderr, err := ps.encoding.Decode(res.Stderr)
	if err != nil {
		return output{}, vmerr.Wrap(vmerr.ParseFailure, err, "decoding stderr")
	}
	return output{stdout: stdout, stderr: stderr, code: res.ExitCode}, nil
}

func saveScript(dir, contents string) (string, error) {
	file, err := os.CreateTemp(dir, "hvctl-*.ps1")
	if err != nil {
		return "", err
	}

	_, err = file.WriteString(contents)
	if err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}

	err = file.Close()
	if err != nil {
		os.Remove(file.Name())
		return "", err
	}

	return file.Name(), nil
}

func createArgs(filename string) []string {
	return []string{
		"-ExecutionPolicy", "Bypass",
		"-NoProfile",
		"-NonInteractive",
		"-File", filename,
	}
}

// encodeParams renders params as JSON with every non-ASCII rune escaped,
// so the document reads the same under any console input code page
func encodeParams(params interface{}) ([]byte, error) {
	if params == nil {
		params = struct{}{}
	}
	b, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		switch {
		case r < utf8.RuneSelf:
			buf.WriteByte(b[0])
		case r > 0xFFFF:
			r -= 0x10000
			fmt.Fprintf(&buf, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		default:
			fmt.Fprintf(&buf, `\u%04x`, r)
		}
		b = b[size:]
	}
	return buf.Bytes(), nil
}
