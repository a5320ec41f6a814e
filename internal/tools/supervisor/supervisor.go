// Package supervisor runs the OTC gRPC server and the MCP bridge as child
// processes of one container entrypoint.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/nseguias/otc/internal/platform/config"
)

// Config holds the entrypoint configuration.
type Config struct {
	OTCBin          string        `env:"ENTRYPOINT_OTC_BIN"          envDefault:"/app/otc"`
	MCPBin          string        `env:"ENTRYPOINT_MCP_BIN"          envDefault:"/app/mcp"`
	Port            int           `env:"PORT"                        envDefault:"8095"`
	MCPHTTPAddr     string        `env:"MCP_HTTP_ADDR"               envDefault:"0.0.0.0:8096"`
	ShutdownTimeout time.Duration `env:"ENTRYPOINT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseConfig loads Config from the environment.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Port <= 0 {
		return Config{}, fmt.Errorf("port must be positive, got %d", cfg.Port)
	}
	return cfg, nil
}

// Child describes one managed command.
type Child struct {
	Name string
	Path string
	Args []string
}

// Children returns the OTC server followed by the MCP bridge dialing it over
// loopback.
func (c Config) Children() []Child {
	port := strconv.Itoa(c.Port)
	return []Child{
		{Name: "otc", Path: c.OTCBin, Args: []string{"-port=" + port}},
		{Name: "mcp", Path: c.MCPBin, Args: []string{
			"-transport=http",
			"-http-addr=" + c.MCPHTTPAddr,
			"-addr=127.0.0.1:" + port,
		}},
	}
}

type childProcess struct {
	name string
	cmd  *exec.Cmd
}

type processExit struct {
	name string
	err  error
}

// Supervise starts every child and blocks until ctx is cancelled or a child
// exits. Either way the remaining children receive SIGTERM and are killed
// once shutdownTimeout elapses. It returns the first child's exit error, or
// nil when shutdown was requested.
func Supervise(ctx context.Context, children []Child, shutdownTimeout time.Duration, stdout, stderr io.Writer) error {
	if len(children) == 0 {
		return errors.New("no children to supervise")
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	running := make([]*childProcess, 0, len(children))
	for _, child := range children {
		proc, err := startChild(child, stdout, stderr)
		if err != nil {
			terminateChildren(running)
			return err
		}
		running = append(running, proc)
	}

	exitCh := make(chan processExit, len(running))
	for _, proc := range running {
		go waitChild(proc, exitCh)
	}

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
		terminateChildren(running)
		waitForChildren(exitCh, len(running), shutdownTimeout, running)
		return nil
	case exit := <-exitCh:
		log.Printf("%s exited: %v", exit.name, exit.err)
		terminateChildren(running)
		waitForChildren(exitCh, len(running)-1, shutdownTimeout, running)
		if exit.err == nil {
			return fmt.Errorf("%s exited unexpectedly", exit.name)
		}
		return fmt.Errorf("%s: %w", exit.name, exit.err)
	}
}

func startChild(child Child, stdout, stderr io.Writer) (*childProcess, error) {
	cmd := exec.Command(child.Path, child.Args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", child.Name, err)
	}
	return &childProcess{name: child.Name, cmd: cmd}, nil
}

func waitChild(child *childProcess, exitCh chan<- processExit) {
	err := child.cmd.Wait()
	exitCh <- processExit{name: child.name, err: err}
}

func terminateChildren(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		_ = child.cmd.Process.Signal(syscall.SIGTERM)
	}
}

// waitForChildren waits for the remaining exits or force-kills on timeout.
func waitForChildren(exitCh <-chan processExit, remaining int, timeout time.Duration, children []*childProcess) {
	if remaining <= 0 {
		return
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for remaining > 0 {
		select {
		case <-exitCh:
			remaining--
		case <-timer.C:
			for _, child := range children {
				if child == nil || child.cmd == nil || child.cmd.Process == nil {
					continue
				}
				_ = child.cmd.Process.Kill()
			}
			return
		}
	}
}

// ExitCode derives a process exit code from a Supervise error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
