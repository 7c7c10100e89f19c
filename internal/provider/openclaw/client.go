// internal/provider/openclaw/client.go
package openclaw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/tamzrod/openpad-bridge/internal/provider"
)

const (
	DefaultStatusTimeout = 30 * time.Second
	DefaultDiskTimeout   = 5 * time.Second

	stderrLimit = 512
)

var (
	DefaultStatusCommand = []string{"openclaw", "status", "--json"}
	DefaultDiskCommand   = []string{"df", "-BG", "/"}
)

// Config is the minimal runtime config of the status client.
type Config struct {
	StatusCommand []string
	DiskCommand   []string
	StatusTimeout time.Duration
	DiskTimeout   time.Duration
}

// Client queries the local status process.
// Every call is bounded by its own timeout.
type Client struct {
	cfg    Config
	runner Runner
}

// New creates a client. A nil runner uses ExecRunner.
func New(cfg Config, runner Runner) (*Client, error) {
	if len(cfg.StatusCommand) == 0 {
		cfg.StatusCommand = DefaultStatusCommand
	}
	if len(cfg.DiskCommand) == 0 {
		cfg.DiskCommand = DefaultDiskCommand
	}
	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = DefaultStatusTimeout
	}
	if cfg.DiskTimeout <= 0 {
		cfg.DiskTimeout = DefaultDiskTimeout
	}
	if cfg.StatusCommand[0] == "" || cfg.DiskCommand[0] == "" {
		return nil, errors.New("openclaw: command name required")
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Client{cfg: cfg, runner: runner}, nil
}

// FetchStatus runs the status command and decodes its JSON object.
// Fails with Timeout, NonZeroExit or MalformedOutput.
func (c *Client) FetchStatus(ctx context.Context) (provider.RawRecord, error) {
	const op = "openclaw status"

	out, err := c.run(ctx, op, c.cfg.StatusCommand, c.cfg.StatusTimeout)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(out)) == 0 {
		return nil, &provider.Error{Kind: provider.KindMalformedOutput, Op: op, Body: "empty output"}
	}

	var rec provider.RawRecord
	if err := json.Unmarshal(out, &rec); err != nil {
		return nil, &provider.Error{Kind: provider.KindMalformedOutput, Op: op, Err: err}
	}
	if rec == nil {
		return nil, &provider.Error{Kind: provider.KindMalformedOutput, Op: op, Body: "null document"}
	}
	return rec, nil
}

// FetchDisk runs the disk usage command and returns its report verbatim.
func (c *Client) FetchDisk(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "openclaw disk", c.cfg.DiskCommand, c.cfg.DiskTimeout)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *Client) run(ctx context.Context, op string, argv []string, timeout time.Duration) ([]byte, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := c.runner.Run(cctx, argv[0], argv[1:]...)

	// Parent cancellation is shutdown, not a provider failure.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return nil, &provider.Error{Kind: provider.KindTimeout, Op: op, Err: cctx.Err()}
	}
	if err != nil {
		// Could not start or was killed: treat like a failed exit.
		return nil, &provider.Error{Kind: provider.KindNonZeroExit, Op: op, Code: -1, Err: err}
	}
	if res.ExitCode != 0 {
		return nil, &provider.Error{
			Kind: provider.KindNonZeroExit,
			Op:   op,
			Code: res.ExitCode,
			Body: provider.Truncate(string(bytes.TrimSpace(res.Stderr)), stderrLimit),
		}
	}
	return res.Stdout, nil
}
