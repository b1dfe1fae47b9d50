package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"syscall"
)

var templateVarRe = regexp.MustCompile(`\{[A-Z]+\}`)

// expandTemplate substitutes the {NAME} style variables of a
// command template.
func expandTemplate(tpl string, vars map[string]string) string {
	return templateVarRe.ReplaceAllStringFunc(tpl, func(m string) string {
		if v, has := vars[m[1:len(m)-1]]; has {
			return v
		}
		return m
	})
}

// shell runs the command line through the shell, wired to the
// controlling terminal when one is available.
func shell(cmdline string) *exec.Cmd {
	cmd := exec.Command("sh", "-c", cmdline)
	if tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	}
	return cmd
}

func isProcessRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

var pidfileRe = regexp.MustCompile(`^(\d+)\s+(.*)`)

// launchViewer starts the viewer command in the background, unless a
// previous run of the exact same command is still alive: a watching
// viewer picks up the rewritten output by itself, and spawning a
// second instance for every conversion would pile up windows.
// The check relies on a pidfile in the temp directory.
func launchViewer(cmdline string) error {
	pidfile := filepath.Join(os.TempDir(), "svgscad.pid")
	if data, err := os.ReadFile(pidfile); err == nil {
		if m := pidfileRe.FindStringSubmatch(string(data)); m != nil && m[2] == cmdline {
			if pid, err := strconv.Atoi(m[1]); err == nil && isProcessRunning(pid) {
				return nil
			}
		}
	}

	cmd := shell(cmdline)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s failed: %s", cmdline, err)
	}
	// best effort only: a stale or unwritable pidfile just means an
	// extra viewer next time
	_ = os.WriteFile(pidfile, []byte(fmt.Sprintf("%d\n%s\n", cmd.Process.Pid, cmdline)), 0o644)
	return nil
}

// convertToSTL runs the conversion command and sanity checks the
// result: an STL under 1000 bytes is almost always an empty or
// broken model, worth a warning with the converter output attached.
// ok is false when the file is missing or empty, which should stop
// any post processing.
func convertToSTL(cmdline, stlName string) (ok bool, err error) {
	os.Remove(stlName)

	out, runErr := exec.Command("sh", "-c", cmdline).CombinedOutput()
	if runErr != nil {
		return false, fmt.Errorf("%s failed: %s\n%s", cmdline, runErr, out)
	}

	size := int64(-1)
	if st, err := os.Stat(stlName); err == nil {
		size = st.Size()
	}
	if size < 1000 {
		log.Printf("CMD: %s", cmdline)
		log.Printf("WARNING: %s is very small: %d bytes.", stlName, size)
		log.Printf("OUTPUT:\n%s", out)
		if size <= 0 {
			return false, nil
		}
	}
	return true, nil
}

// postProcessSTL runs the post processing command (typically a
// slicer) and relays its output.
func postProcessSTL(cmdline string) error {
	out, err := exec.Command("sh", "-c", cmdline).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %s\n%s", cmdline, err, out)
	}
	if len(out) != 0 {
		log.Printf("CMD: %s\n%s", cmdline, out)
	}
	return nil
}
