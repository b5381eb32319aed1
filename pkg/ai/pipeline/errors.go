package pipeline

import (
	"errors"
	"fmt"
)

// Stage identities reported in PipelineError.
const (
	StageInput      = "input"
	StageResearch   = "research"
	StageCopywriter = "copywriter"
	StageAdCopy     = "ad_copy"
	StageSocial     = "social_posts"
	StageScheduler  = "scheduler"
)

var (
	ErrEmptyProductIdea = errors.New("product idea must not be empty")
	ErrEmptyStageOutput = errors.New("stage returned empty output")
	ErrMissingProvider  = errors.New("no generation provider configured")
)

// PipelineError carries the stage that stopped a run and its cause.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("launch kit pipeline failed at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func stageError(stage string, err error) error {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return err
	}
	return &PipelineError{Stage: stage, Err: err}
}
