package hyperv

import (
	"context"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

const (
	copyToGuestScript = `
$vm = Find-VM $p.vm
Copy-VMFile -VM $vm -SourcePath $p.host -DestinationPath $p.guest -FileSource Host -CreateFullPath -Force
`
	copyFromGuestScript = `
$vm = Find-VM $p.vm
$session = New-PSSession -VMId $vm.VMId -Credential (New-GuestCredential)
try {
  Copy-Item -FromSession $session -Path $p.guest -Destination $p.host -Force
} finally {
  Remove-PSSession $session
}
`
	runScript = `
$vm = Find-VM $p.vm
$r = Invoke-Command -VMId $vm.VMId -Credential (New-GuestCredential) -ArgumentList $p.program, @($p.args) -ScriptBlock {
  param($program, $arguments)
  $psi = New-Object System.Diagnostics.ProcessStartInfo
  $psi.FileName = $program
  $psi.Arguments = ($arguments | ForEach-Object { '"' + ($_ -replace '"', '\"') + '"' }) -join ' '
  $psi.UseShellExecute = $false
  $psi.RedirectStandardOutput = $true
  $psi.RedirectStandardError = $true
  $proc = [System.Diagnostics.Process]::Start($psi)
  $stderr = $proc.StandardError.ReadToEndAsync()
  $stdout = $proc.StandardOutput.ReadToEnd()
  $proc.WaitForExit()
  [pscustomobject]@{ ExitCode = $proc.ExitCode; Stdout = $stdout; Stderr = $stderr.Result }
}
[pscustomobject]@{ ExitCode = $r.ExitCode; Stdout = $r.Stdout; Stderr = $r.Stderr } | ConvertTo-Json -Compress
`
	ipScript = `
$vm = Find-VM $p.vm
$ip = $vm.NetworkAdapters | ForEach-Object { $_.IPAddresses } | Where-Object { $_ -match '^\d{1,3}(\.\d{1,3}){3}$' } | Select-Object -First 1
if ($ip -eq $null) {
  throw "Unable to find an IPv4 address for virtual machine '$($vm.Name)'."
}
$ip
`
)

type copyParams struct {
	VM       string `json:"vm"`
	Host     string `json:"host"`
	Guest    string `json:"guest"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type runParams struct {
	VM       string   `json:"vm"`
	Program  string   `json:"program"`
	Args     []string `json:"args"`
	Username string   `json:"username"`
	Password string   `json:"password"`
}

func account(c types.GuestCredentials) string {
	if c.Domain != "" {
		return c.Domain + `\` + c.Username
	}
	return c.Username
}

// CopyFile copies a file into the guest through Guest Services, or out of
// it through a PowerShell Direct session
func (d *Driver) CopyFile(ctx context.Context, id types.VMID, creds types.GuestCredentials, direction types.CopyDirection, host types.HostPath, guest types.GuestPath) (err error) {
	defer vmerr.Annotate(&err, backend, "copy "+direction.String())

	hostPath, err := d.paths.ToWindows(ctx, string(host))
	if err != nil {
		return err
	}

	if direction == types.ToGuest {
		_, err = d.ps.Run(ctx, copyToGuestScript, copyParams{VM: string(id), Host: hostPath, Guest: string(guest)})
		return err
	}

	_, err = d.ps.Run(ctx, copyFromGuestScript, copyParams{
		VM:       string(id),
		Host:     hostPath,
		Guest:    string(guest),
		Username: account(creds),
		Password: creds.Password,
	})
	return err
}

// RunInGuest runs a program in the guest over PowerShell Direct and
// captures its output
func (d *Driver) RunInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, program types.GuestPath, args []string) (res *types.GuestResult, err error) {
	defer vmerr.Annotate(&err, backend, "run")

	if args == nil {
		args = []string{}
	}
	out, err := d.ps.Run(ctx, runScript, runParams{
		VM:       string(id),
		Program:  string(program),
		Args:     args,
		Username: account(creds),
		Password: creds.Password,
	})
	if err != nil {
		return nil, err
	}
	return ParseRunResult(out)
}

// GuestIP returns the first IPv4 address reported by the integration
// services
func (d *Driver) GuestIP(ctx context.Context, id types.VMID) (ip string, err error) {
	defer vmerr.Annotate(&err, backend, "guest ip")

	out, err := d.ps.Run(ctx, ipScript, vmParams{VM: string(id)})
	if err != nil {
		return "", err
	}
	return ParseValue(out)
}
