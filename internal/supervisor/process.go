package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wrlog/internal/shared"
)

// CommandRun returns a [RunFunc] that executes name with args and waits for it to exit.
//
// When the run context ends the child receives an interrupt and, if it has not exited after grace,
// is killed.
func CommandRun(name string, args []string, grace time.Duration, logger *log.Logger) RunFunc {
	return func(ctx context.Context) error {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
		cmd.WaitDelay = grace

		logger.Info("starting updater", "command", name)
		if err := cmd.Start(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %s: %w", shared.ErrSpawn, name, err)
		}
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// ClientProcess is a long-running helper process restarted on a fixed period.
type ClientProcess struct {
	command       []string
	restartPeriod time.Duration
	grace         time.Duration
	logger        *log.Logger
	now           func() time.Time

	mu      sync.Mutex
	cmd     *exec.Cmd
	done    chan struct{}
	started time.Time
}

// NewClientProcess returns nil when command is empty.
func NewClientProcess(command []string, restartPeriod, grace time.Duration, logger *log.Logger) *ClientProcess {
	if len(command) == 0 {
		return nil
	}
	return &ClientProcess{
		command:       command,
		restartPeriod: restartPeriod,
		grace:         grace,
		logger:        logger,
		now:           time.Now,
	}
}

// Start launches the process.
func (p *ClientProcess) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.start()
}

func (p *ClientProcess) start() error {
	cmd := exec.Command(p.command[0], p.command[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %w", shared.ErrSpawn, p.command[0], err)
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	p.cmd = cmd
	p.done = done
	p.started = p.now()
	p.logger.Info("client started", "command", p.command[0], "pid", cmd.Process.Pid)
	return nil
}

// Running reports whether the process is alive.
func (p *ClientProcess) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running()
}

func (p *ClientProcess) running() bool {
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// MaybeRestart restarts the process when its restart period has passed or it has exited.
func (p *ClientProcess) MaybeRestart() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case !p.running():
		p.logger.Warn("client not running, starting it again")
	case p.now().Sub(p.started) >= p.restartPeriod:
		p.logger.Info("restarting client", "uptime", p.now().Sub(p.started))
		p.stop()
	default:
		return nil
	}
	return p.start()
}

// Stop interrupts the process and kills it if it outlives the grace period.
func (p *ClientProcess) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
}

func (p *ClientProcess) stop() {
	if !p.running() {
		return
	}
	_ = p.cmd.Process.Signal(os.Interrupt)

	t := time.NewTimer(p.grace)
	defer t.Stop()
	select {
	case <-p.done:
	case <-t.C:
		p.logger.Warn("client ignored interrupt, killing it", "grace", p.grace)
		_ = p.cmd.Process.Kill()
		<-p.done
	}
}
