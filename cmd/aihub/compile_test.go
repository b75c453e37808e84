package main

import (
	"testing"

	"github.com/edgemesh/aihub-tools/internal/hub"
)

func TestApplyWaitStatus(t *testing.T) {
	t.Parallel()

	t.Run("success keeps the status message", func(t *testing.T) {
		res := hub.CompileResult{OK: true, JobID: "j1", Status: "submitted"}
		applyWaitStatus(&res, hub.JobStatus{JobID: "j1", Status: "Results Ready", Success: true})
		if !res.OK || res.Status != "Results Ready" {
			t.Fatalf("unexpected envelope: %#v", res)
		}
	})

	t.Run("failure prefixes the status message", func(t *testing.T) {
		res := hub.CompileResult{OK: true, JobID: "j1", Status: "submitted"}
		applyWaitStatus(&res, hub.JobStatus{JobID: "j1", Status: "Compilation error", Success: false})
		if res.OK {
			t.Fatalf("failed wait must flip ok: %#v", res)
		}
		if res.Status != "failed: Compilation error" {
			t.Fatalf("unexpected status: %q", res.Status)
		}
	})
}
