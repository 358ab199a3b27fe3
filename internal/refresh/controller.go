// Package refresh nudges a pull-based status bar (i3blocks, polybar) to
// re-read the mirrored lyric line right after a broadcast, instead of waiting
// for its own poll interval.
package refresh

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("component", "refresh").Logger()

// Controller tracks the PID of the configured process and signals it on
// demand.
type Controller struct {
	process  string
	pid      int
	pidMutex sync.RWMutex
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewController creates a controller for the named process.
func NewController(process string) *Controller {
	return &Controller{
		process:  process,
		pid:      -1,
		stopChan: make(chan struct{}),
	}
}

// Start begins refreshing the PID every 10 seconds.
func (c *Controller) Start() {
	if err := c.refreshPID(); err != nil {
		logger.Warn().Err(err).Str("process", c.process).Msg("Initial PID lookup failed")
	}

	c.ticker = time.NewTicker(10 * time.Second)
	go c.monitorLoop()

	logger.Info().Str("process", c.process).Msg("Refresh controller started")
}

// Stop ends the PID monitoring.
func (c *Controller) Stop() {
	if c.ticker == nil {
		return
	}
	close(c.stopChan)
	c.ticker.Stop()
	logger.Info().Msg("Refresh controller stopped")
}

func (c *Controller) monitorLoop() {
	for {
		select {
		case <-c.ticker.C:
			if err := c.refreshPID(); err != nil {
				logger.Debug().Err(err).Msg("PID refresh failed")
			}
		case <-c.stopChan:
			return
		}
	}
}

func (c *Controller) refreshPID() error {
	cmd := exec.Command("pgrep", "-f", c.process)
	output, err := cmd.Output()
	if err != nil {
		c.setPID(-1)
		return fmt.Errorf("%s process not found", c.process)
	}

	pidStr := strings.TrimSpace(string(output))
	lines := strings.Split(pidStr, "\n")
	if len(lines) == 0 || lines[0] == "" {
		c.setPID(-1)
		return fmt.Errorf("%s process not found", c.process)
	}

	pid, err := strconv.Atoi(lines[0])
	if err != nil {
		return fmt.Errorf("failed to parse PID: %w", err)
	}

	c.pidMutex.Lock()
	oldPID := c.pid
	c.pid = pid
	c.pidMutex.Unlock()

	if oldPID != pid {
		logger.Info().Str("process", c.process).Int("old_pid", oldPID).Int("pid", pid).Msg("Target PID updated")
	}
	return nil
}

func (c *Controller) setPID(pid int) {
	c.pidMutex.Lock()
	c.pid = pid
	c.pidMutex.Unlock()
}

// Notify sends SIGUSR1 to the tracked process.
func (c *Controller) Notify() error {
	c.pidMutex.RLock()
	pid := c.pid
	c.pidMutex.RUnlock()

	if pid <= 0 {
		return fmt.Errorf("no PID for %s", c.process)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGUSR1); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}
	return nil
}
