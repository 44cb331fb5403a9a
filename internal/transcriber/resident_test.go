package transcriber

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
)

// TestHelperWorker is not a real test. It plays the resident speech worker
// when the test binary is re-executed with GO_WANT_HELPER_WORKER=1.
func TestHelperWorker(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_WORKER") != "1" {
		return
	}
	defer os.Exit(0)

	if os.Getenv("HELPER_NOT_READY") == "1" {
		fmt.Println("LOADING")
		return
	}
	fmt.Println(readyLine)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var req workerRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			os.Exit(3)
		}
		base := filepath.Base(req.AudioPath)
		var resp workerResponse
		switch base {
		case "crash.wav":
			os.Exit(2)
		case "hang.wav":
			time.Sleep(time.Minute)
		case "garbled.wav":
			// a stray line, then the real reply
			fmt.Println("Downloading model weights 42%")
			resp = workerResponse{Success: true, Text: "late reply"}
		case "bad.wav":
			resp = workerResponse{Success: false, Error: "could not decode audio"}
		case "silence.wav":
			resp = workerResponse{Success: true, Text: ""}
		default:
			resp = workerResponse{
				Success: true,
				Text:    fmt.Sprintf("%s|%s|%s|pid=%d", base, req.Language, os.Getenv("WHISPER_MODEL"), os.Getpid()),
			}
		}
		out, _ := json.Marshal(resp)
		fmt.Println(string(out))
	}
}

func newHelperResident(extraEnv ...string) *residentTranscriber {
	env := append([]string{"GO_WANT_HELPER_WORKER=1", "WHISPER_MODEL=base", "WHISPER_DEVICE=cpu"}, extraEnv...)
	return &residentTranscriber{
		name:   os.Args[0],
		args:   []string{"-test.run=TestHelperWorker"},
		env:    env,
		logger: logger.Nop(),
	}
}

func TestResidentTranscribe(t *testing.T) {
	r := newHelperResident()
	defer r.Close()
	ctx := context.Background()

	first, err := r.Transcribe(ctx, "/tmp/standup.wav", "French")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if first.NeedsDecoding() {
		t.Error("resident result should not need decoding")
	}
	parts := strings.Split(first.Text, "|")
	if len(parts) != 4 || parts[0] != "standup.wav" || parts[1] != "French" || parts[2] != "base" {
		t.Fatalf("Text = %q", first.Text)
	}

	second, err := r.Transcribe(ctx, "/tmp/retro.wav", "French")
	if err != nil {
		t.Fatalf("second Transcribe() error = %v", err)
	}
	if !strings.HasSuffix(second.Text, parts[3]) {
		t.Errorf("worker was restarted between calls: %q vs %q", first.Text, second.Text)
	}
}

func TestResidentEmptyTranscript(t *testing.T) {
	r := newHelperResident()
	defer r.Close()

	res, err := r.Transcribe(context.Background(), "/tmp/silence.wav", "French")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty", res.Text)
	}
}

func TestResidentWorkerError(t *testing.T) {
	r := newHelperResident()
	defer r.Close()

	res, err := r.Transcribe(context.Background(), "/tmp/bad.wav", "French")
	if !errors.Is(err, ErrWorker) {
		t.Fatalf("error = %v, want ErrWorker", err)
	}
	if res == nil || res.Stderr != "could not decode audio" {
		t.Errorf("worker message not surfaced: %+v", res)
	}

	// worker stays usable after a reported failure
	if _, err := r.Transcribe(context.Background(), "/tmp/ok.wav", "French"); err != nil {
		t.Errorf("Transcribe() after worker error = %v", err)
	}
}

func TestResidentRespawnAfterGarbledReply(t *testing.T) {
	r := newHelperResident()
	defer r.Close()
	ctx := context.Background()

	first, err := r.Transcribe(ctx, "/tmp/first.wav", "French")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Transcribe(ctx, "/tmp/garbled.wav", "French"); err == nil {
		t.Fatal("Transcribe() should fail on a non-JSON reply")
	}

	next, err := r.Transcribe(ctx, "/tmp/next.wav", "French")
	if err != nil {
		t.Fatalf("Transcribe() after garbled reply error = %v", err)
	}
	if !strings.HasPrefix(next.Text, "next.wav|") {
		t.Errorf("Text = %q, read a stale reply", next.Text)
	}
	if pidOf(first.Text) == pidOf(next.Text) {
		t.Error("worker was not restarted after a garbled reply")
	}
}

func TestResidentRespawnAfterCrash(t *testing.T) {
	r := newHelperResident()
	defer r.Close()
	ctx := context.Background()

	if _, err := r.Transcribe(ctx, "/tmp/crash.wav", "French"); err == nil {
		t.Fatal("Transcribe() should fail when the worker dies")
	}
	res, err := r.Transcribe(ctx, "/tmp/after.wav", "French")
	if err != nil {
		t.Fatalf("Transcribe() after crash error = %v", err)
	}
	if !strings.HasPrefix(res.Text, "after.wav|") {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestResidentContextCancel(t *testing.T) {
	r := newHelperResident()
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := r.Transcribe(ctx, "/tmp/hang.wav", "French")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestResidentNotReady(t *testing.T) {
	r := newHelperResident("HELPER_NOT_READY=1")
	defer r.Close()

	_, err := r.Transcribe(context.Background(), "/tmp/a.wav", "French")
	if err == nil || !strings.Contains(err.Error(), "unexpected ready signal") {
		t.Errorf("error = %v, want unexpected ready signal", err)
	}
}

// pidOf extracts the helper worker's pid from a default reply
func pidOf(text string) string {
	parts := strings.Split(text, "|")
	return parts[len(parts)-1]
}
