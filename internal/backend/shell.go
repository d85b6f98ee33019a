// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bitfield/script"
	"github.com/docker/docker/api/types/container"
	dockerclient "github.com/docker/docker/client"

	"intentforge/pkg/types"
)

// Shell dispatches trivial/simple Intents as a literal command (the
// intent's rendered Prompt *is* the command to run) instead of an LLM
// conversation. An Intent tagged "container" or "container=<image>" is
// run inside a throwaway Docker container instead of the local host.
type Shell struct {
	dockerFactory func() (*dockerclient.Client, error)
}

var _ Backend = (*Shell)(nil)

// NewShell builds a local/sandboxed backend. Docker is dialed lazily,
// only when a dispatched intent actually requests container isolation.
func NewShell() *Shell {
	return &Shell{
		dockerFactory: func() (*dockerclient.Client, error) {
			return dockerclient.NewClientWithOpts(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
		},
	}
}

func (s *Shell) Execute(ctx context.Context, spec IntentSpec, dctx DispatchContext) (types.IntentResult, error) {
	if image, ok := containerImage(spec.Intent.Tags); ok {
		return s.executeContainer(ctx, spec, dctx, image)
	}
	return s.executeLocal(ctx, spec, dctx)
}

func (s *Shell) executeLocal(ctx context.Context, spec IntentSpec, dctx DispatchContext) (types.IntentResult, error) {
	start := time.Now()
	output, err := script.Exec(spec.Prompt).String()
	return shellResult(spec, dctx, output, err, time.Since(start)), nil
}

func (s *Shell) executeContainer(ctx context.Context, spec IntentSpec, dctx DispatchContext, image string) (types.IntentResult, error) {
	cli, err := s.dockerFactory()
	if err != nil {
		return types.IntentResult{}, fmt.Errorf("shell backend: docker client: %w", err)
	}
	defer cli.Close()

	start := time.Now()

	created, err := cli.ContainerCreate(ctx, &container.Config{
		Image:      image,
		Cmd:        []string{"sh", "-c", spec.Prompt},
		Tty:        false,
		AttachStdout: true,
		AttachStderr: true,
	}, nil, nil, nil, "")
	if err != nil {
		return types.IntentResult{}, fmt.Errorf("shell backend: create container: %w", err)
	}
	defer cli.ContainerRemove(ctx, created.ID, container.RemoveOptions{Force: true})

	if err := cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return types.IntentResult{}, fmt.Errorf("shell backend: start container: %w", err)
	}

	statusCh, errCh := cli.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	var waitErr error
	var exitCode int64
	select {
	case err := <-errCh:
		waitErr = err
	case st := <-statusCh:
		exitCode = st.StatusCode
	}

	logs, _ := cli.ContainerLogs(ctx, created.ID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	output := ""
	if logs != nil {
		defer logs.Close()
		var buf bytes.Buffer
		io.Copy(&buf, logs)
		output = buf.String()
	}

	if waitErr == nil && exitCode != 0 {
		waitErr = fmt.Errorf("container exited with status %d", exitCode)
	}

	return shellResult(spec, dctx, output, waitErr, time.Since(start)), nil
}

func shellResult(spec IntentSpec, dctx DispatchContext, output string, err error, elapsed time.Duration) types.IntentResult {
	result := types.IntentResult{
		IntentID:     spec.Intent.ID,
		Profile:      spec.Profile,
		Agent:        dctx.Agent.Name,
		Attempt:      spec.Attempt,
		Artifacts:    []string{},
		QualityScore: 1.0,
		TestsPassed:  true,
	}

	if err != nil {
		result.Status = types.StatusFailed
		result.Error = err.Error()
		result.QualityScore = 0.0
		result.TestsPassed = false
		return result
	}

	result.Status = types.StatusCompleted
	if strings.Contains(strings.ToLower(output), "fail") {
		result.QualityScore = 0.6
	}
	return result
}

// containerImage reports whether tags request container isolation and,
// if so, which image to use (default "golang:1.22" for a bare
// "container" tag).
func containerImage(tags []string) (string, bool) {
	for _, tag := range tags {
		if tag == "container" {
			return "golang:1.22", true
		}
		if strings.HasPrefix(tag, "container=") {
			return strings.TrimPrefix(tag, "container="), true
		}
	}
	return "", false
}
