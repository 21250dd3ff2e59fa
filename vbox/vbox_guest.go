package vbox

import (
	"context"
	"fmt"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

const ipProperty = "/VirtualBox/GuestInfo/Net/0/V4/IP"

func credentialArgs(c types.GuestCredentials) []string {
	args := []string{"--username", c.Username, "--password", c.Password}
	if c.Domain != "" {
		args = append(args, "--domain", c.Domain)
	}
	return args
}

// CopyFile copies one file between host and guest through the guest
// additions
func (d *Driver) CopyFile(ctx context.Context, id types.VMID, creds types.GuestCredentials, direction types.CopyDirection, host types.HostPath, guest types.GuestPath) (err error) {
	defer vmerr.Annotate(&err, backend, "copy "+direction.String())

	hostPath, err := d.hostPath(ctx, host)
	if err != nil {
		return err
	}

	args := []string{"guestcontrol", string(id)}
	if direction == types.FromGuest {
		args = append(args, "copyfrom")
		args = append(args, credentialArgs(creds)...)
		args = append(args, string(guest), hostPath)
	} else {
		args = append(args, "copyto")
		args = append(args, credentialArgs(creds)...)
		args = append(args, hostPath, string(guest))
	}

	_, err = d.run(ctx, args...)
	return err
}

// RunInGuest runs a program in the guest and waits for it. VBoxManage
// passes the guest exit status through as its own.
func (d *Driver) RunInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, program types.GuestPath, args []string) (res *types.GuestResult, err error) {
	defer vmerr.Annotate(&err, backend, "run")

	cmd := []string{"guestcontrol", string(id), "run"}
	cmd = append(cmd, credentialArgs(creds)...)
	cmd = append(cmd, "--exe", string(program), "--wait-stdout", "--wait-stderr", "--", string(program))
	cmd = append(cmd, args...)

	out, err := d.exec(ctx, cmd...)
	if err != nil {
		return nil, err
	}
	if errorLine.MatchString(out.stderr) {
		return nil, ParseError(out.stderr, out.stdout, out.code)
	}
	return &types.GuestResult{
		ExitCode: out.code,
		Stdout:   out.stdout,
		Stderr:   out.stderr,
		Captured: true,
	}, nil
}

// GuestIP returns the first IPv4 address reported by the guest additions
func (d *Driver) GuestIP(ctx context.Context, id types.VMID) (ip string, err error) {
	defer vmerr.Annotate(&err, backend, "guest ip")

	out, err := d.run(ctx, "guestproperty", "get", string(id), ipProperty)
	if err != nil {
		return "", err
	}
	ip, ok, err := ParseGuestProperty(out)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", vmerr.New(vmerr.NotFound, fmt.Sprintf("%s has no guest address; are the guest additions running?", id))
	}
	return ip, nil
}
