package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mcdev12/lottery/go/internal/lottery"
)

// SyncWriter serializes writes from the registration loop and the announcer.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w for concurrent use.
func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// HumanDuration renders whole hours and minutes the way the operator reads them.
func HumanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// PrintStart prints the startup banner.
func PrintStart(w io.Writer, at time.Time) {
	fmt.Fprintf(w, "\n[START] Lottery system started at %s\n", at.Local().Format("15:04:05"))
}

// PrintRestored tells the operator a snapshot was loaded.
func PrintRestored(w io.Writer) {
	fmt.Fprintln(w, "[INFO] Loaded backup participants.")
}

// PrintIntro opens registration. It must be printed before any countdown notice.
func PrintIntro(w io.Writer, remaining time.Duration) {
	fmt.Fprintf(w, "Registration is open for %s. Please enter your username:\n",
		HumanDuration(remaining.Round(time.Minute)))
}

// PrintInterrupted reports an operator interrupt during registration.
func PrintInterrupted(w io.Writer) {
	fmt.Fprintln(w, "\n[WARNING] Interrupted by user.")
}

// PrintNoDraw reports that the lottery cannot proceed.
func PrintNoDraw(w io.Writer) {
	fmt.Fprintln(w, "\n[EXIT] No users registered. Lottery cannot proceed.")
}

// PrintWinner prints the winner banner.
func PrintWinner(w io.Writer, result lottery.DrawResult) {
	fmt.Fprintln(w, "\n========================")
	fmt.Fprintln(w, "🎉 Lottery Winner 🎉")
	fmt.Fprintf(w, "Winner: %s\n", result.Winner)
	fmt.Fprintf(w, "Total Participants: %d\n", result.Participants)
	fmt.Fprintln(w, "========================")
}

func printExtension(w io.Writer, ext lottery.Extension) {
	fmt.Fprintf(w, "\n[INFO] Less than %d users, extending registration by %s.\n", ext.Threshold, HumanDuration(ext.By))
}
