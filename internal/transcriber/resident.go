package transcriber

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/config"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
)

// readyLine is printed by the worker once its model is loaded
const readyLine = "READY"

// ErrWorker wraps failures reported by the worker itself
var ErrWorker = errors.New("speech worker failed")

// workerRequest is sent to the worker as one JSON line on stdin
type workerRequest struct {
	AudioPath string `json:"audio_path"`
	Language  string `json:"language,omitempty"`
}

// workerResponse is read back as one JSON line from stdout
type workerResponse struct {
	Success  bool    `json:"success"`
	Text     string  `json:"text"`
	Duration float64 `json:"duration,omitempty"`
	Error    string  `json:"error,omitempty"`
}

type workerProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	alive  bool
}

type residentTranscriber struct {
	mu     sync.Mutex
	name   string
	args   []string
	env    []string
	proc   *workerProcess
	logger logger.Logger
}

// NewResident creates a Transcriber backed by a long-lived worker that loads
// the speech model once. The worker is started lazily on first use. env is
// added to the worker's environment after the model settings.
func NewResident(python string, cfg config.ResidentConfig, env []string, log logger.Logger) Transcriber {
	return &residentTranscriber{
		name: python,
		args: []string{cfg.WorkerScript},
		env: append([]string{
			"WHISPER_MODEL=" + cfg.Model,
			"WHISPER_DEVICE=" + cfg.Device,
		}, env...),
		logger: log,
	}
}

func (r *residentTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*Transcription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.proc == nil || !r.proc.alive {
		if r.proc != nil {
			r.logger.Warn(ctx, "Respawning speech worker")
		}
		proc, err := r.spawn(ctx)
		if err != nil {
			return nil, fmt.Errorf("start speech worker: %w", err)
		}
		r.proc = proc
	}

	reqJSON, err := json.Marshal(workerRequest{AudioPath: audioPath, Language: language})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	if _, err := fmt.Fprintf(r.proc.stdin, "%s\n", reqJSON); err != nil {
		r.kill()
		return nil, fmt.Errorf("write to speech worker: %w", err)
	}

	line, err := r.readLine(ctx)
	if err != nil {
		r.kill()
		return nil, fmt.Errorf("read from speech worker: %w", err)
	}

	var resp workerResponse
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		// the stream is out of step with our requests; start over
		r.kill()
		return nil, fmt.Errorf("parse worker response: %w, raw: %s", err, strings.TrimSpace(line))
	}
	if !resp.Success {
		return &Transcription{Stderr: resp.Error}, fmt.Errorf("%w: %s", ErrWorker, resp.Error)
	}

	r.logger.Info(ctx, "Resident transcription completed in %.1fs: %s", resp.Duration, audioPath)
	return &Transcription{Text: resp.Text}, nil
}

// spawn starts the worker and waits for its ready signal
func (r *residentTranscriber) spawn(ctx context.Context) (*workerProcess, error) {
	cmd := exec.Command(r.name, r.args...)
	cmd.Env = append(os.Environ(), r.env...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start process: %w", err)
	}

	proc := &workerProcess{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		alive:  true,
	}
	go r.logStderr(context.WithoutCancel(ctx), stderr)

	r.proc = proc
	line, err := r.readLine(ctx)
	if err != nil {
		r.kill()
		return nil, fmt.Errorf("read ready signal: %w", err)
	}
	if strings.TrimSpace(line) != readyLine {
		r.kill()
		return nil, fmt.Errorf("unexpected ready signal: %s", strings.TrimSpace(line))
	}

	r.logger.Info(ctx, "Speech worker ready (pid %d)", cmd.Process.Pid)
	return proc, nil
}

// readLine reads one line from the worker, giving up when ctx ends
func (r *residentTranscriber) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	stdout := r.proc.stdout
	go func() {
		line, err := stdout.ReadString('\n')
		done <- result{line, err}
	}()

	select {
	case res := <-done:
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *residentTranscriber) logStderr(ctx context.Context, stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		r.logger.Debug(ctx, "[worker] %s", scanner.Text())
	}
}

// kill stops the current worker; the next call respawns it
func (r *residentTranscriber) kill() {
	if r.proc == nil || !r.proc.alive {
		return
	}
	r.proc.alive = false
	r.proc.stdin.Close()
	if r.proc.cmd.Process != nil {
		r.proc.cmd.Process.Kill()
	}
	r.proc.cmd.Wait()
}

func (r *residentTranscriber) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kill()
	r.proc = nil
	return nil
}
