// Package quotient bridges to an external group-theory engine (GAP) to
// reduce instantiations to the minimal representative of their symmetry
// group orbit. The engine is one long-lived subprocess spoken to over a
// half-duplex line protocol: a request is flushed in full and its response
// consumed in full before the next request.
package quotient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/symlab/pbessym/debug"
	"github.com/symlab/pbessym/perm"
	"github.com/symlab/pbessym/srf"
	"github.com/symlab/pbessym/term"
)

// ErrEngineExited indicates the engine process died mid-exchange. This is
// distinct from an engine that was never started or already observed dead,
// which degrades Apply to the identity instead.
var ErrEngineExited = errors.New("group engine exited")

type protoState int

const (
	stateAwaitingGroupAck protoState = iota
	stateReady
	stateAwaitingResult
)

func (s protoState) String() string {
	switch s {
	case stateAwaitingGroupAck:
		return "awaiting group ack"
	case stateReady:
		return "ready"
	case stateAwaitingResult:
		return "awaiting result"
	}
	return "<unknown state>"
}

// Engine owns one group-theory subprocess. It is not safe for concurrent
// use without external serialization.
type Engine struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	out    *bufio.Reader
	exited bool
	state  protoState

	// values maps arbitrary argument terms to the 1-based integers the
	// engine understands, insertion-ordered.
	values *indexedSet[string]
}

// Start launches the engine at path and installs the symmetry group
// generated by pi over the given number of parameters. An empty path
// returns a disengaged engine whose Apply is the identity.
func Start(pi perm.Permutation, arity int, path string) (*Engine, error) {
	e := &Engine{values: newIndexedSet[string]()}
	if path == "" {
		return e, nil
	}

	cmd := exec.Command(path, "-E", "-q")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("start group engine: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("start group engine: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start group engine: %w", err)
	}
	e.cmd = cmd
	e.stdin = stdin
	e.out = bufio.NewReader(stdout)

	e.state = stateAwaitingGroupAck
	group := GroupCommand(pi, arity)
	if debug.Quotient() {
		debug.Logf("setting symmetry group: %s\n", group)
	}
	if err := e.send(group); err != nil {
		e.Close()
		return nil, err
	}
	if pi.IsIdentity() {
		// The trivial group answers in a single line.
		if _, err := e.readLine(); err != nil {
			e.Close()
			return nil, err
		}
	} else {
		if _, err := e.readResult(); err != nil {
			e.Close()
			return nil, err
		}
	}
	e.state = stateReady
	return e, nil
}

// GroupCommand renders the engine statement installing the group generated
// by pi, in 1-based cycle notation. The identity yields the trivial group.
func GroupCommand(pi perm.Permutation, arity int) string {
	if pi.IsIdentity() {
		return "grp := Group(());"
	}
	var b strings.Builder
	b.WriteString("grp := Group([")
	visited := make([]bool, arity)
	for i := 0; i < arity; i++ {
		if visited[i] || pi.Apply(i) == i {
			continue
		}
		b.WriteByte('(')
		current := i
		first := true
		for {
			if !first {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%d", current+1)
			visited[current] = true
			current = pi.Apply(current)
			first = false
			if current == i {
				break
			}
		}
		b.WriteByte(')')
	}
	b.WriteString("]);")
	return b.String()
}

// Running reports whether the engine process is alive. A disengaged engine
// is never running, and an engine that failed mid-exchange stays dead.
// Liveness is observed through the protocol itself rather than a concurrent
// Wait, which must not race Apply's reads from the stdout pipe.
func (e *Engine) Running() bool {
	return e.cmd != nil && !e.exited
}

// Apply reduces the instantiation to the minimal representative of its
// orbit under the installed group. When the engine is not running the
// instantiation is returned unchanged.
func (e *Engine) Apply(pvi srf.PropVarInst) (srf.PropVarInst, error) {
	if !e.Running() {
		return pvi, nil
	}
	if e.state != stateReady {
		return pvi, fmt.Errorf("quotient: request while %v", e.state)
	}
	if debug.Quotient() {
		debug.Logf("applying quotient to %s\n", pvi)
	}

	indices := make([]int, 0, len(pvi.Args))
	for _, arg := range pvi.Args {
		i, _ := e.values.Insert(arg.String())
		indices = append(indices, i)
	}

	var b strings.Builder
	b.WriteString("Minimum(List(Elements(grp), g -> Permuted([")
	for i, v := range indices {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v+1)
	}
	b.WriteString("], g)));")

	e.state = stateAwaitingResult
	if err := e.send(b.String()); err != nil {
		return pvi, err
	}
	line, err := e.readResult()
	if err != nil {
		return pvi, err
	}
	e.state = stateReady
	if debug.Quotient() {
		debug.Logf("received %q\n", line)
	}

	mins, err := parseList(line)
	if err != nil {
		return pvi, fmt.Errorf("quotient: %w", err)
	}
	args := make([]term.Term, 0, len(mins))
	for _, idx := range mins {
		v, ok := e.values.At(idx)
		if !ok {
			return pvi, fmt.Errorf("quotient: engine returned unknown value index %d", idx)
		}
		t, err := term.Parse(v)
		if err != nil {
			return pvi, fmt.Errorf("quotient: %w", err)
		}
		args = append(args, t)
	}
	return srf.PropVarInst{Name: pvi.Name, Args: args}, nil
}

// Close shuts the engine down and reaps the process. All protocol reads
// have completed by the time Close runs, so waiting here does not race the
// stdout pipe.
func (e *Engine) Close() error {
	if e.cmd == nil {
		return nil
	}
	e.stdin.Close()
	e.cmd.Process.Kill()
	e.cmd.Wait()
	e.exited = true
	return nil
}

func (e *Engine) send(line string) error {
	if _, err := io.WriteString(e.stdin, line+"\n"); err != nil {
		e.exited = true
		return fmt.Errorf("%w: %v", ErrEngineExited, err)
	}
	return nil
}

func (e *Engine) readLine() (string, error) {
	line, err := e.out.ReadString('\n')
	if err != nil && line == "" {
		e.exited = true
		return "", fmt.Errorf("%w: %v", ErrEngineExited, err)
	}
	return strings.TrimRight(line, "\n"), nil
}

// readResult consumes lines until one contains a closing bracket, and
// returns their concatenation.
func (e *Engine) readResult() (string, error) {
	var result strings.Builder
	for {
		line, err := e.readLine()
		if err != nil {
			return "", err
		}
		result.WriteString(line)
		if strings.Contains(line, "]") {
			return result.String(), nil
		}
	}
}

// parseList reads the bracketed comma-separated 1-based integers of an
// engine response back to 0-based indices.
func parseList(line string) ([]int, error) {
	open := strings.Index(line, "[")
	end := strings.Index(line, "]")
	if open < 0 || end < 0 || end < open {
		return nil, fmt.Errorf("malformed engine response %q", line)
	}
	body := line[open+1 : end]
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	var out []int
	for part := range strings.SplitSeq(body, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("malformed engine response %q: %w", line, err)
		}
		out = append(out, n-1)
	}
	return out, nil
}
