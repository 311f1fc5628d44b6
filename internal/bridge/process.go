package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/posebridge/internal/logger"
)

// ErrProcessExited is returned for calls still pending when the engine process exits.
var ErrProcessExited = errors.New("engine process exited")

// DefaultCloseGrace is how long Close waits for the engine to exit after its
// stdin is closed before killing it.
const DefaultCloseGrace = 5 * time.Second

// Process is a Transport to an engine bridge running as a child process.
// Requests are written to its stdin and responses read from its stdout, one
// JSON object per line. The process is started lazily on the first request.
type Process struct {
	command    string
	args       []string
	env        []string
	closeGrace time.Duration

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	started bool
	done    chan struct{}
	exitErr error

	pendingMu sync.Mutex
	pending   map[string]chan *Response
}

// NewProcess creates a Process transport that runs command with args. env is
// appended to the current environment.
func NewProcess(command string, args []string, env ...string) *Process {
	return &Process{
		command:    command,
		args:       args,
		env:        env,
		closeGrace: DefaultCloseGrace,
		pending:    make(map[string]chan *Response),
	}
}

// RoundTrip sends req and waits for its response, the process exiting, or ctx.
func (p *Process) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	line = append(line, '\n')

	ch := make(chan *Response, 1)

	p.mu.Lock()
	if err := p.ensureStarted(); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.pendingMu.Lock()
	p.pending[req.ID] = ch
	p.pendingMu.Unlock()

	_, err = p.stdin.Write(line)
	done := p.done
	p.mu.Unlock()

	if err != nil {
		p.forget(req.ID)
		return nil, fmt.Errorf("write request: %w", err)
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-done:
		select {
		case resp := <-ch:
			return resp, nil
		default:
		}
		p.forget(req.ID)
		return nil, p.exitError()
	case <-ctx.Done():
		p.forget(req.ID)
		return nil, ctx.Err()
	}
}

// SetCloseGrace changes how long Close waits before killing the engine.
func (p *Process) SetCloseGrace(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeGrace = d
}

// Close closes the engine's stdin and waits for it to exit. An engine still
// running after the close grace period is killed.
func (p *Process) Close() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.stdin.Close()
	done, cmd, grace := p.done, p.cmd, p.closeGrace
	p.mu.Unlock()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		logger.Log().Warn("engine bridge ignored stdin close, killing it", zap.Duration("grace", grace))
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("kill engine bridge: %w", err)
		}
		<-done
		return fmt.Errorf("engine bridge did not exit within %s and was killed", grace)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	var exitErr *exec.ExitError
	if errors.As(p.exitErr, &exitErr) {
		return p.exitErr
	}
	return nil
}

func (p *Process) ensureStarted() error {
	if p.started {
		return nil
	}

	cmd := exec.Command(p.command, p.args...)
	if len(p.env) > 0 {
		cmd.Env = append(os.Environ(), p.env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Engine diagnostics go straight to our stderr.
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start engine bridge: %w", err)
	}

	p.cmd = cmd
	p.stdin = stdin
	p.started = true
	p.exitErr = nil
	p.done = make(chan struct{})

	logger.Log().Info("engine bridge started", zap.String("command", p.command), zap.Int("pid", cmd.Process.Pid))

	go p.readLoop(cmd, stdout, p.done)
	return nil
}

func (p *Process) readLoop(cmd *exec.Cmd, stdout io.Reader, done chan struct{}) {
	r := bufio.NewReader(stdout)
	for {
		line, err := r.ReadBytes('\n')
		if line = bytes.TrimSpace(line); len(line) > 0 {
			p.dispatch(line)
		}
		if err != nil {
			break
		}
	}

	waitErr := cmd.Wait()

	p.mu.Lock()
	p.started = false
	p.exitErr = fmt.Errorf("%w: %w", ErrProcessExited, waitErr)
	if waitErr == nil {
		p.exitErr = ErrProcessExited
	}
	p.cmd = nil
	p.stdin = nil
	p.mu.Unlock()

	logger.Log().Info("engine bridge stopped", zap.Error(waitErr))
	close(done)
}

func (p *Process) dispatch(line []byte) {
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		logger.Log().Warn("unparseable engine output", zap.ByteString("line", line), zap.Error(err))
		return
	}

	p.pendingMu.Lock()
	ch, ok := p.pending[resp.ID]
	delete(p.pending, resp.ID)
	p.pendingMu.Unlock()

	if !ok {
		logger.Log().Warn("engine response for unknown request", zap.String("id", resp.ID))
		return
	}
	ch <- &resp
}

func (p *Process) forget(id string) {
	p.pendingMu.Lock()
	delete(p.pending, id)
	p.pendingMu.Unlock()
}

func (p *Process) exitError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exitErr == nil {
		return ErrProcessExited
	}
	return p.exitErr
}
