package observability

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var startTime = time.Now()

const (
	colorReset    = "\033[0m"
	colorPurple   = "\033[35m"
	colorNeonCyan = "\033[96m"
	colorNeonMag  = "\033[95m"
)

var spinnerFrames = []string{"◜", "◝", "◞", "◟"}
var spinnerIdx = 0

// termMu keeps log writes from landing inside a status line rewrite.
var termMu sync.Mutex

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return w
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

type termWriter struct{}

func (tw termWriter) Write(p []byte) (n int, err error) {
	termMu.Lock()
	defer termMu.Unlock()
	return os.Stderr.Write(p)
}

// NewTermWriter returns an io.Writer suitable for log.SetOutput().
// It serialises writes with PrintLiveStatus via termMu.
func NewTermWriter() *termWriter {
	return &termWriter{}
}

const banner = `
  ____        _                         _
 / __ \ _ __ | |__   ___   __ _ _ __ __| |
| |  | | '_ \| '_ \ / _ \ / _' | '__/ _' |
| |__| | | | | |_) | (_) | (_| | | | (_| |
 \____/|_| |_|_.__/ \___/ \__,_|_|  \__,_|

        >> STEP PLAN ENGINE <<
`

func PrintBanner() {
	fmt.Print("\033[2J\033[H")

	width := termWidth()
	for _, l := range strings.Split(banner, "\n") {
		padding := (width - len(l)) / 2
		if padding < 0 {
			padding = 0
		}
		fmt.Printf("%s%s%s\n", strings.Repeat(" ", padding), colorNeonCyan+l, colorReset)
	}
}

// InitializeTerminal reserves the top rows for the banner and status line
// and scrolls logs below them.
func InitializeTerminal() {
	fmt.Print("\033[12;r")
	fmt.Print("\033[12;1H")
}

func CleanupTerminal() {
	fmt.Print("\033[r\033[2J\033[H")
}

// StatusLine renders the one-line server summary.
func StatusLine(a Activity, now time.Time) string {
	pulseIcon := "🟢"
	pulseText := "SERVING"
	pulseColor := colorNeonCyan
	switch {
	case a.LastRequest.IsZero():
		pulseIcon = "💤"
		pulseText = "IDLE"
		pulseColor = colorReset
	case a.Failures > 0 && a.Failures*10 >= a.Requests:
		pulseIcon = "🔴"
		pulseText = "FAILING"
		pulseColor = colorNeonMag
	case now.Sub(a.LastRequest) > 5*time.Minute:
		pulseIcon = "🟡"
		pulseText = "QUIET"
		pulseColor = colorPurple
	}

	last := "never"
	if !a.LastSubmitted.IsZero() {
		last = a.LastSubmitted.Format("15:04:05")
	}
	return fmt.Sprintf("%s%s %-8s%s | requests %d (failed %d) | submissions %d | last submission %s",
		pulseColor, pulseIcon, pulseText, colorReset,
		a.Requests, a.Failures, a.Submissions, last)
}

// PrintLiveStatus redraws the status line in place.
func PrintLiveStatus() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(startTime).Round(time.Second)
	memMB := float64(m.Alloc) / 1024 / 1024

	spinner := spinnerFrames[spinnerIdx]
	spinnerIdx = (spinnerIdx + 1) % len(spinnerFrames)

	statusStr := fmt.Sprintf("\033[s\033[10;1H\033[K%s %s%s%s [%v] [%.1fMB]\033[u",
		StatusLine(GetActivity(), time.Now()),
		colorPurple, spinner, colorReset,
		uptime, memMB,
	)

	termMu.Lock()
	fmt.Print(statusStr)
	termMu.Unlock()
}
