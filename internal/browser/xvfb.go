// CLAUDE:SUMMARY Starts and stops an Xvfb virtual display for headful stealth browser mode.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// xvfbReadyTimeout bounds how long startXvfb waits for the X socket to
// appear before giving up. The agent loop's own step budget means a
// headful run should never burn more of its wall clock on display
// startup than it has to, so this polls rather than sleeping a fixed
// duration.
const xvfbReadyTimeout = 3 * time.Second

// startXvfb launches an Xvfb virtual display for headful stealth mode.
func (m *Manager) startXvfb() error {
	if m.xvfb != nil {
		return nil // already running
	}

	display := m.cfg.XvfbDisplay
	cmd := exec.Command("Xvfb", display, "-screen", "0", m.cfg.XvfbResolution, "-ac")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start xvfb: %w", err)
	}
	m.xvfb = cmd

	if !waitXvfbSocket(display, xvfbReadyTimeout) {
		m.cfg.Logger.Warn("browser: xvfb socket not confirmed, continuing anyway", "display", display, "timeout", xvfbReadyTimeout)
	}

	m.cfg.Logger.Info("browser: xvfb started", "display", display, "resolution", m.cfg.XvfbResolution, "pid", cmd.Process.Pid)
	return nil
}

// waitXvfbSocket polls for the Unix socket Xvfb creates under /tmp/.X11-unix
// once it's accepting connections, instead of sleeping a fixed duration.
func waitXvfbSocket(display string, timeout time.Duration) bool {
	num := strings.TrimPrefix(display, ":")
	path := fmt.Sprintf("/tmp/.X11-unix/X%s", num)

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return true
		}
		time.Sleep(25 * time.Millisecond)
	}
	return false
}

// stopXvfb kills the Xvfb process if running.
func (m *Manager) stopXvfb() {
	if m.xvfb == nil {
		return
	}
	if m.xvfb.Process != nil {
		m.xvfb.Process.Kill()
		m.xvfb.Wait()
	}
	m.cfg.Logger.Info("browser: xvfb stopped")
	m.xvfb = nil
}
