package vmrest

import (
	"context"
	"net/http"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// CopyFile is not provided by vmrest. The API has no guest file transfer.
func (d *Driver) CopyFile(ctx context.Context, id types.VMID, creds types.GuestCredentials, direction types.CopyDirection, host types.HostPath, guest types.GuestPath) error {
	return vmerr.Unsupported(backend, "copy "+direction.String())
}

// RunInGuest is not provided by vmrest. The API has no guest program
// execution.
func (d *Driver) RunInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, program types.GuestPath, args []string) (*types.GuestResult, error) {
	return nil, vmerr.Unsupported(backend, "run")
}

// GuestIP returns the address VMware Tools reports for the guest
func (d *Driver) GuestIP(ctx context.Context, id types.VMID) (ip string, err error) {
	defer vmerr.Annotate(&err, backend, "guest ip")

	var doc ipDoc
	if err = d.do(ctx, http.MethodGet, vmPath(id, "ip"), nil, &doc); err != nil {
		return "", err
	}
	return doc.IP, nil
}
