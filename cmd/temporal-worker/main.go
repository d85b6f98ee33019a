// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Command temporal-worker runs a durable intentforge worker, registering
// IntentDAGWorkflow and its DispatchActivities on a Temporal task queue
// for sessions that need to survive a process restart mid-execution.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"intentforge/internal/backend"
	"intentforge/internal/executor"
)

const (
	maxConcurrentActivityExecutionSize      = 50
	maxConcurrentWorkflowTaskExecutionSize  = 10
	maxConcurrentLocalActivityExecutionSize = 100
	workerStopTimeout                       = 30 * time.Second
	defaultTaskQueue                        = "intentforge-task-queue"
)

func main() {
	taskQueue := flag.String("task-queue", defaultTaskQueue, "Temporal task queue name")
	backendName := flag.String("backend", "mock", "execution backend: mock, shell, or opencode")
	opencodeURL := flag.String("opencode-url", "http://localhost:4096", "opencode server base URL (backend=opencode)")
	opencodePort := flag.Int("opencode-port", 4096, "opencode server port (backend=opencode)")
	flag.Parse()

	log.Println("starting intentforge temporal worker")

	back := pickBackend(*backendName, *opencodeURL, *opencodePort)

	c, err := client.Dial(client.Options{
		HostPort: client.DefaultHostPort,
	})
	if err != nil {
		log.Fatalln("unable to create Temporal client:", err)
	}
	defer c.Close()

	log.Println("connected to Temporal server")

	w := worker.New(c, *taskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:      maxConcurrentActivityExecutionSize,
		MaxConcurrentWorkflowTaskExecutionSize:  maxConcurrentWorkflowTaskExecutionSize,
		MaxConcurrentLocalActivityExecutionSize: maxConcurrentLocalActivityExecutionSize,
		WorkerStopTimeout:                       workerStopTimeout,
	})

	w.RegisterWorkflow(executor.IntentDAGWorkflow)

	activities := &executor.DispatchActivities{Backend: back}
	w.RegisterActivity(activities)

	log.Printf("registered IntentDAGWorkflow; listening on task queue %q", *taskQueue)

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Run(worker.InterruptCh())
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Println("worker error:", err)
		os.Exit(1)
	case <-sigChan:
		log.Println("shutdown signal received")
	}

	log.Println("worker stopped")
}

func pickBackend(name, opencodeURL string, opencodePort int) backend.Backend {
	switch name {
	case "shell":
		return backend.NewShell()
	case "opencode":
		return backend.NewOpenCode(opencodeURL, opencodePort)
	default:
		return backend.NewMock()
	}
}
