// Package metrics counts and times driver operations with Prometheus.
package metrics

import (
	"context"
	"time"

	"github.com/nanovms/hvctl/driver"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelBackend = "backend"
	labelOp      = "op"
	labelKind    = "kind"
)

// Collectors are the metrics recorded for driver operations
type Collectors struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewCollectors creates the collectors and registers them with reg
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hvctl_operations_total",
			Help: "Number of driver operations by outcome; kind is none on success",
		}, []string{labelBackend, labelOp, labelKind}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hvctl_operation_duration_seconds",
			Help:    "Length of time per driver operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 180},
		}, []string{labelBackend, labelOp}),
	}
	for _, collector := range []prometheus.Collector{c.Operations, c.Duration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Driver records every call of the wrapped driver
type Driver struct {
	next    driver.Driver
	metrics *Collectors
	backend string
}

var _ driver.Driver = (*Driver)(nil)

// Instrument wraps d so its operations are recorded in c
func Instrument(d driver.Driver, c *Collectors) *Driver {
	return &Driver{next: d, metrics: c, backend: string(d.Backend())}
}

// Unwrap returns the instrumented driver, e.g. to reach backend extras
func (d *Driver) Unwrap() driver.Driver {
	return d.next
}

func (d *Driver) observe(op string, start time.Time, err *error) {
	d.metrics.Duration.WithLabelValues(d.backend, op).Observe(time.Since(start).Seconds())
	d.metrics.Operations.WithLabelValues(d.backend, op, vmerr.KindOf(*err).String()).Inc()
}

// Backend is the backend of the wrapped driver
func (d *Driver) Backend() types.Backend {
	return d.next.Backend()
}

// Version implements driver.Driver
func (d *Driver) Version(ctx context.Context) (v string, err error) {
	defer d.observe("version", time.Now(), &err)
	return d.next.Version(ctx)
}

// ListVMs implements driver.Driver
func (d *Driver) ListVMs(ctx context.Context) (vms []types.VM, err error) {
	defer d.observe("list vms", time.Now(), &err)
	return d.next.ListVMs(ctx)
}

// State implements driver.Driver
func (d *Driver) State(ctx context.Context, id types.VMID) (state types.VMState, err error) {
	defer d.observe("state", time.Now(), &err)
	return d.next.State(ctx, id)
}

// Start implements driver.Driver
func (d *Driver) Start(ctx context.Context, id types.VMID, mode types.StartMode) (err error) {
	defer d.observe("start", time.Now(), &err)
	return d.next.Start(ctx, id, mode)
}

// Stop implements driver.Driver
func (d *Driver) Stop(ctx context.Context, id types.VMID, mode types.StopMode) (err error) {
	defer d.observe("stop", time.Now(), &err)
	return d.next.Stop(ctx, id, mode)
}

// Pause implements driver.Driver
func (d *Driver) Pause(ctx context.Context, id types.VMID) (err error) {
	defer d.observe("pause", time.Now(), &err)
	return d.next.Pause(ctx, id)
}

// Resume implements driver.Driver
func (d *Driver) Resume(ctx context.Context, id types.VMID) (err error) {
	defer d.observe("resume", time.Now(), &err)
	return d.next.Resume(ctx, id)
}

// Suspend implements driver.Driver
func (d *Driver) Suspend(ctx context.Context, id types.VMID) (err error) {
	defer d.observe("suspend", time.Now(), &err)
	return d.next.Suspend(ctx, id)
}

// Reset implements driver.Driver
func (d *Driver) Reset(ctx context.Context, id types.VMID) (err error) {
	defer d.observe("reset", time.Now(), &err)
	return d.next.Reset(ctx, id)
}

// ListSnapshots implements driver.Driver
func (d *Driver) ListSnapshots(ctx context.Context, id types.VMID) (snaps []types.Snapshot, err error) {
	defer d.observe("list snapshots", time.Now(), &err)
	return d.next.ListSnapshots(ctx, id)
}

// TakeSnapshot implements driver.Driver
func (d *Driver) TakeSnapshot(ctx context.Context, id types.VMID, name, description string) (snap types.SnapshotID, err error) {
	defer d.observe("take snapshot", time.Now(), &err)
	return d.next.TakeSnapshot(ctx, id, name, description)
}

// RevertSnapshot implements driver.Driver
func (d *Driver) RevertSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) (err error) {
	defer d.observe("revert snapshot", time.Now(), &err)
	return d.next.RevertSnapshot(ctx, id, snap)
}

// DeleteSnapshot implements driver.Driver
func (d *Driver) DeleteSnapshot(ctx context.Context, id types.VMID, snap types.SnapshotID) (err error) {
	defer d.observe("delete snapshot", time.Now(), &err)
	return d.next.DeleteSnapshot(ctx, id, snap)
}

// CopyFile implements driver.Driver
func (d *Driver) CopyFile(ctx context.Context, id types.VMID, creds types.GuestCredentials, direction types.CopyDirection, host types.HostPath, guest types.GuestPath) (err error) {
	defer d.observe("copy", time.Now(), &err)
	return d.next.CopyFile(ctx, id, creds, direction, host, guest)
}

// RunInGuest implements driver.Driver
func (d *Driver) RunInGuest(ctx context.Context, id types.VMID, creds types.GuestCredentials, program types.GuestPath, args []string) (res *types.GuestResult, err error) {
	defer d.observe("run", time.Now(), &err)
	return d.next.RunInGuest(ctx, id, creds, program, args)
}

// GuestIP implements driver.Driver
func (d *Driver) GuestIP(ctx context.Context, id types.VMID) (ip string, err error) {
	defer d.observe("guest ip", time.Now(), &err)
	return d.next.GuestIP(ctx, id)
}

// WriteFile dumps every metric of g to path in the text exposition format,
// for the node exporter textfile collector
func WriteFile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
