package wpctl

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Role tokens accepted by wpctl in place of a concrete object id
const (
	DefaultSink   = "@DEFAULT_AUDIO_SINK@"
	DefaultSource = "@DEFAULT_AUDIO_SOURCE@"
)

// CommandError is returned when wpctl could not be spawned or exited non-zero
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("wpctl %s failed: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("wpctl %s failed: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Client runs the wpctl binary. It implements audioshim.Shim.
type Client struct {
	Path   string
	Logger *log.Logger
}

// NewClient creates a Client using wpctl from PATH
func NewClient(logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{Path: "wpctl", Logger: logger}
}

func (c *Client) Status() (string, error) {
	return c.output("status")
}

func (c *Client) StatusNames() (string, error) {
	return c.output("status", "--name")
}

func (c *Client) Inspect(id int) (string, error) {
	return c.output("inspect", strconv.Itoa(id))
}

func (c *Client) Run(args ...string) error {
	_, err := c.output(args...)
	return err
}

func (c *Client) output(args ...string) (string, error) {
	c.Logger.Debug("running wpctl", "args", args)
	cmd := exec.Command(c.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cerr := &CommandError{Args: args, Stderr: strings.TrimSpace(lossy(stderr.Bytes())), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			c.Logger.Debug("wpctl exited non-zero", "args", args, "code", exitErr.ExitCode())
		}
		return "", cerr
	}
	return lossy(stdout.Bytes()), nil
}

func lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
