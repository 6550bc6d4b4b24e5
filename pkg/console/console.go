// Package console is a thin adapter reading operator input off stdin and
// tokenizing it into pre-validated command.Command records. It never
// reaches into the core directly; it only produces records for something
// else to dispatch.
package console

import (
	"bufio"
	"io"
	"strings"

	"github.com/shardwell/worldcore/pkg/command"
	"github.com/shardwell/worldcore/pkg/logging"
)

var log = logging.With("console")

var recognised = map[string]command.ID{
	"stopserver":             command.StopServer,
	"switchcompressionstate": command.SwitchCompressionState,
	"dimensions":             command.ListDimensions,
	"resetdimension":         command.ResetDimension,
	"testchunkspeed":         command.TestChunkSpeed,
}

// Parse tokenizes a single line of operator input into a Command. ok is
// false for a blank line or an unrecognised verb; the caller decides how
// to report that back to the operator.
func Parse(line string) (cmd command.Command, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command.Command{}, false
	}
	id, known := recognised[strings.ToLower(fields[0])]
	if !known {
		return command.Command{}, false
	}
	return command.Command{ID: id, Args: fields[1:]}, true
}

// Run reads lines from r until EOF or the stop channel closes, sending
// each recognised line's Command on out. Unrecognised lines are logged
// and dropped. Run blocks; run it on its own goroutine.
func Run(r io.Reader, out chan<- command.Command, stop <-chan struct{}) {
	scanner := bufio.NewScanner(r)
	lines := make(chan string)

	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-stop:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			cmd, recognised := Parse(line)
			if !recognised {
				log.Warn("unrecognised command", "line", line)
				continue
			}
			out <- cmd
		}
	}
}
