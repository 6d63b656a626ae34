package console

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// ReadLines feeds r into a channel one line at a time and closes it at end of input.
// Lines have no length limit, so an oversized entry still reaches validation.
// A read in progress cannot be interrupted; callers stop listening instead, and the
// goroutine is torn down with the process.
func ReadLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(r)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				lines <- strings.TrimRight(line, "\r\n")
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Warn().Err(err).Msg("console input failed")
				}
				return
			}
		}
	}()
	return lines
}
