// Package dockermon wraps the Docker engine API (github.com/docker/docker/client)
// and pairs it with the Docker monitor: container list, concurrent CPU
// sampling, log tailing, and lifecycle actions, all grounded on the
// teacher's internal/agent/docker.go wrapper.
package dockermon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"

	"github.com/rshzrh/sitrep/internal/errkind"
)

// Client wraps the Docker engine API client with the narrow surface the
// Docker monitor needs: list, one-shot CPU sampling, lifecycle actions, and
// follow-log streaming.
type Client struct {
	cli *client.Client

	availOnce sync.Once
	available bool

	cpuMu   sync.Mutex
	prevCPU map[string]cpuPrev
}

type cpuPrev struct {
	containerCPU uint64
	systemCPU    uint64
}

// NewClient dials the local Docker daemon. DOCKER_HOST is honored via
// client.FromEnv, matching the teacher's use of functional options; the
// unix socket default applies only when DOCKER_HOST is unset.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("dockermon: new client: %w", err)
	}
	return &Client{cli: cli, prevCPU: make(map[string]cpuPrev)}, nil
}

// IsAvailable pings the daemon once and memoizes the result for the
// lifetime of the Client, matching the contract's "memoized once per
// monitor lifetime" rule.
func (c *Client) IsAvailable(ctx context.Context) bool {
	c.availOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		_, err := c.cli.Ping(ctx)
		c.available = err == nil
	})
	return c.available
}

// Container is one row of the Docker monitor's container list.
type Container struct {
	ID        string // 12-character short id
	Name      string
	Image     string
	Status    string
	State     string
	Created   time.Time
	Ports     string
	IPAddress string
	CPUPercent float64
}

// ListContainers lists all containers (running and stopped), matching the
// broader snapshot shape the data model calls for rather than the
// running-only listing the original Rust client used.
func (c *Client) ListContainers(ctx context.Context) ([]Container, error) {
	raw, err := c.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("%w: container list: %v", errkind.ErrTransientIO, err)
	}

	out := make([]Container, 0, len(raw))
	for _, rc := range raw {
		id := rc.ID
		if len(id) > 12 {
			id = id[:12]
		}
		out = append(out, Container{
			ID:        id,
			Name:      containerName(rc.Names),
			Image:     rc.Image,
			Status:    rc.Status,
			State:     rc.State,
			Created:   time.Unix(rc.Created, 0),
			Ports:     formatPorts(rc.Ports),
			IPAddress: extractIP(rc.NetworkSettings),
		})
	}
	return out, nil
}

func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

// formatPorts renders a container's published ports as "80/tcp->8080",
// joined by commas; private-only ports show just "private/proto".
func formatPorts(ports []container.Port) string {
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		if p.PublicPort != 0 {
			parts = append(parts, fmt.Sprintf("%d/%s->%d", p.PrivatePort, p.Type, p.PublicPort))
		} else {
			parts = append(parts, fmt.Sprintf("%d/%s", p.PrivatePort, p.Type))
		}
	}
	return strings.Join(parts, ", ")
}

// extractIP returns the first non-empty IP address across the container's
// attached networks.
func extractIP(ns *container.NetworkSettingsSummary) string {
	if ns == nil {
		return ""
	}
	for _, net := range ns.Networks {
		if net != nil && net.IPAddress != "" {
			return net.IPAddress
		}
	}
	return ""
}

// GetAllCPUPercents fans CPU sampling out across goroutines, at most
// workerCount() (four) at a time, joins with a WaitGroup, and returns a slice aligned to ids'
// order. A failed sample yields a nil entry, never a global failure, per
// the §4.2 concurrency contract.
func (c *Client) GetAllCPUPercents(ctx context.Context, ids []string) []*float64 {
	out := make([]*float64, len(ids))
	sem := make(chan struct{}, workerCount())
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()
			if pct, err := c.GetCPUPercent(ctx, id); err == nil {
				out[i] = &pct
			}
		}(i, id)
	}
	wg.Wait()
	return out
}

func workerCount() int {
	// "two workers" in the spec's async-runtime framing; a small bounded
	// pool avoids forking one goroutine per container on hosts with
	// hundreds of them while still overlapping I/O latency.
	return 4
}

// GetCPUPercent samples one-shot stats and computes the same percentage
// docker stats reports, via calcCPUPercent.
func (c *Client) GetCPUPercent(ctx context.Context, id string) (float64, error) {
	resp, err := c.cli.ContainerStatsOneShot(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%w: stats %s: %v", errkind.ErrTransientIO, id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: read stats %s: %v", errkind.ErrTransientIO, id, err)
	}
	var stats container.StatsResponse
	if err := json.Unmarshal(body, &stats); err != nil {
		return 0, fmt.Errorf("%w: decode stats %s: %v", errkind.ErrParseError, id, err)
	}
	return c.calcCPUPercent(id, &stats), nil
}

// calcCPUPercent computes the same percentage docker stats reports, from
// the delta between this sample and the previous one for the same
// container id. On the first sample it falls back to the one-shot
// response's own pre/post pair.
func (c *Client) calcCPUPercent(id string, stats *container.StatsResponse) float64 {
	c.cpuMu.Lock()
	defer c.cpuMu.Unlock()

	cpuTotal := stats.CPUStats.CPUUsage.TotalUsage
	systemCPU := stats.CPUStats.SystemUsage

	prev, hasPrev := c.prevCPU[id]
	c.prevCPU[id] = cpuPrev{containerCPU: cpuTotal, systemCPU: systemCPU}

	if !hasPrev {
		return calcCPUPercentDelta(stats.PreCPUStats.CPUUsage.TotalUsage, cpuTotal, stats.PreCPUStats.SystemUsage, systemCPU, stats.CPUStats.OnlineCPUs)
	}
	return calcCPUPercentDelta(prev.containerCPU, cpuTotal, prev.systemCPU, systemCPU, stats.CPUStats.OnlineCPUs)
}

// calcCPUPercentDelta is the docker-stats-matching formula:
// (containerDelta / systemDelta) * onlineCPUs * 100.
func calcCPUPercentDelta(prevContainer, curContainer, prevSystem, curSystem uint64, onlineCPUs uint32) float64 {
	containerDelta := float64(curContainer) - float64(prevContainer)
	systemDelta := float64(curSystem) - float64(prevSystem)
	if systemDelta <= 0 || containerDelta <= 0 {
		return 0
	}
	cpus := float64(onlineCPUs)
	if cpus == 0 {
		cpus = 1
	}
	return (containerDelta / systemDelta) * cpus * 100
}

// Start, Stop, and Restart are the three destructive container actions.
// Each is dispatched from the monitor on a background goroutine; these
// methods themselves are synchronous and simply wrap the client call.
func (c *Client) Start(ctx context.Context, id string) error {
	if err := c.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("%w: start %s: %v", errkind.ErrActionFailed, id, err)
	}
	return nil
}

func (c *Client) Stop(ctx context.Context, id string, graceSeconds int) error {
	timeout := graceSeconds
	if err := c.cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("%w: stop %s: %v", errkind.ErrActionFailed, id, err)
	}
	return nil
}

func (c *Client) Restart(ctx context.Context, id string, graceSeconds int) error {
	timeout := graceSeconds
	if err := c.cli.ContainerRestart(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("%w: restart %s: %v", errkind.ErrActionFailed, id, err)
	}
	return nil
}

// LogStreamHandle is returned by TailLogs: Lines delivers demuxed log
// lines, Cancel stops the background reader at its next yield point.
type LogStreamHandle struct {
	ID     uuid.UUID
	Lines  <-chan string
	Cancel context.CancelFunc
}

// TailLogs starts a background goroutine following a container's combined
// stdout/stderr stream, demultiplexed via stdcopy (the multiplexed-frame
// format the Docker engine API uses), forwarding whole lines into a
// bounded (256) channel. Cancelling the returned handle's context stops
// the goroutine on its next read and closes the underlying stream.
func (c *Client) TailLogs(parent context.Context, id string) (*LogStreamHandle, error) {
	rc, err := c.cli.ContainerLogs(parent, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Timestamps: true,
		Tail:       "0",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: tail logs %s: %v", errkind.ErrTransientIO, id, err)
	}

	ctx, cancel := context.WithCancel(parent)
	lines := make(chan string, 256)

	pr, pw := io.Pipe()
	go func() {
		defer pw.Close()
		_, _ = stdcopy.StdCopy(pw, pw, rc)
	}()

	go func() {
		defer rc.Close()
		defer close(lines)
		scanLines(ctx, pr, lines)
	}()

	return &LogStreamHandle{ID: uuid.New(), Lines: lines, Cancel: cancel}, nil
}

// scanLines reads newline-delimited text from r and forwards each line to
// out, stopping when ctx is cancelled or r reaches EOF. A 64KB scanner
// buffer matches the teacher's logs.go sizing for long single lines.
func scanLines(ctx context.Context, r io.Reader, out chan<- string) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return
		case out <- stripDockerTimestamp(sc.Text()):
		}
	}
}

// stripDockerTimestamp removes the RFC3339Nano timestamp prefix Docker
// adds to each line when timestamps are requested from the engine API.
func stripDockerTimestamp(line string) string {
	if idx := strings.IndexByte(line, ' '); idx > 0 {
		if _, err := time.Parse(time.RFC3339Nano, line[:idx]); err == nil {
			return line[idx+1:]
		}
	}
	return line
}
