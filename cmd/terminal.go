package cmd

import (
	"os"
	"runtime"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

const defaultFallbackTermWidth = 80

var (
	stdinIsPiped       = func() bool { stat, err := os.Stdin.Stat(); return err == nil && (stat.Mode()&os.ModeCharDevice) == 0 }
	stdoutIsTerminal   = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	openTerminalIOFn   = openTerminalIO
	detectTerminalSize = detectTerminalSizeImpl
)

func detectTerminalSizeImpl() (int, int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 0
}

// getProgramOptions reopens the terminal when stdin is piped so the
// interactive view still receives keyboard and mouse input.
func getProgramOptions() ([]tea.ProgramOption, func()) {
	cleanup := func() {}
	if !stdinIsPiped() {
		return nil, cleanup
	}
	ttyIn, ttyOut, err := openTerminalIOFn()
	if err != nil {
		// No controlling terminal (e.g. CI); run on the piped stdin.
		return nil, cleanup
	}
	cleanup = func() {
		_ = ttyIn.Close()
		if ttyOut != nil && ttyOut != ttyIn {
			_ = ttyOut.Close()
		}
	}
	opts := []tea.ProgramOption{tea.WithInput(ttyIn)}
	if ttyOut != nil {
		opts = append(opts, tea.WithOutput(ttyOut))
	}
	return opts, cleanup
}

func openTerminalIO() (*os.File, *os.File, error) {
	in, out := terminalDeviceNames(runtime.GOOS)

	input, err := os.OpenFile(in, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	if out == "" || out == in {
		return input, input, nil
	}
	output, err := os.OpenFile(out, os.O_RDWR, 0)
	if err != nil {
		return input, nil, err
	}
	return input, output, nil
}

func terminalDeviceNames(goos string) (input string, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}
