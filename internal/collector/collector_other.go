//go:build !linux

package collector

// Other is the non-Linux stub collector. sitrep's distributable target is
// Linux servers; on any other OS every capability reports unavailable
// rather than guessing at a /proc-shaped interface that doesn't exist.
type Other struct{}

// New returns the stub collector.
func New() *Other { return &Other{} }

func (o *Other) DiskBusyPercent() (float64, bool)             { return 0, false }
func (o *Other) FDTotalsAndTop() FdInfo                       { return FdInfo{} }
func (o *Other) SocketOverviewAndTop() SocketOverviewInfo     { return SocketOverviewInfo{} }
func (o *Other) CtxSwitchTotalsAndTop() ContextSwitchInfo     { return ContextSwitchInfo{} }
func (o *Other) PerProcessNetRates() map[int32][2]uint64      { return nil }

// StatfsSpace has no portable equivalent outside the linux build; sysmon
// treats a false ok as "disk space unknown for this mount".
func StatfsSpace(path string) (total, available uint64, ok bool) { return 0, 0, false }
