// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container finds a local container runtime and runs one-shot
// containers that read a document on stdin and write a result on stdout.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"

	// maxStderr bounds how much container stderr is kept for error messages.
	maxStderr = 2048
)

// Runtime runs containers through a docker-compatible CLI.
type Runtime interface {
	// Name returns the binary name, docker or podman.
	Name() string

	// Available reports whether the binary is on PATH and its daemon answers.
	Available(ctx context.Context) bool

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Run starts image with args, streams stdin into the container, and copies
	// its stdout to stdout. The container is removed when it exits.
	Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// cli implements Runtime. Docker and Podman differ only in binary name and
// in the subcommand that checks for a local image.
type cli struct {
	bin        string
	imageCheck []string
	exec       executor
}

func (c *cli) Name() string { return c.bin }

func (c *cli) Available(ctx context.Context) bool {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return false
	}
	return c.exec.RunSilent(ctx, c.bin, "info") == nil
}

func (c *cli) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, c.imageCheck...), image)
	if err := c.exec.RunSilent(ctx, c.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, c.bin, err)
	}
	return nil
}

func (c *cli) Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	full := make([]string, 0, len(args)+4)
	full = append(full, "run", "--rm", "-i", image)
	full = append(full, args...)

	stderr := &tailBuffer{max: maxStderr}
	if err := c.exec.RunPiped(ctx, c.bin, full, stdin, stdout, stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s container %s: %w: %s", c.bin, image, err, msg)
		}
		return fmt.Errorf("running %s container %s: %w", c.bin, image, err)
	}
	return nil
}

func newDocker(e executor) *cli {
	return &cli{bin: binDocker, imageCheck: []string{"image", "inspect"}, exec: e}
}

func newPodman(e executor) *cli {
	return &cli{bin: binPodman, imageCheck: []string{"image", "exists"}, exec: e}
}

// DetectRuntime returns docker when it works, else podman.
func DetectRuntime(ctx context.Context) (Runtime, error) {
	return detectRuntime(ctx, osExecutor{})
}

func detectRuntime(ctx context.Context, e executor) (Runtime, error) {
	for _, rt := range []*cli{newDocker(e), newPodman(e)} {
		if rt.Available(ctx) {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return n, nil
}

func (t *tailBuffer) String() string { return t.buf.String() }
