package vbox

import (
	"context"
	"fmt"

	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

// KeyboardPutScancode sends raw PC scancodes to a running VM
func (d *Driver) KeyboardPutScancode(ctx context.Context, id types.VMID, codes []byte) (err error) {
	defer vmerr.Annotate(&err, backend, "keyboard scancode")

	if len(codes) == 0 {
		return vmerr.New(vmerr.BackendError, "no scancodes to send")
	}
	args := []string{"controlvm", string(id), "keyboardputscancode"}
	for _, c := range codes {
		args = append(args, fmt.Sprintf("%02x", c))
	}
	_, err = d.run(ctx, args...)
	return err
}

// KeyboardPutString types text into a running VM. Each argument is sent
// as one string, VBoxManage separates them with a space.
func (d *Driver) KeyboardPutString(ctx context.Context, id types.VMID, text ...string) (err error) {
	defer vmerr.Annotate(&err, backend, "keyboard string")

	if len(text) == 0 {
		return vmerr.New(vmerr.BackendError, "no text to send")
	}
	_, err = d.run(ctx, append([]string{"controlvm", string(id), "keyboardputstring"}, text...)...)
	return err
}
