package annotate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/preprocessed"
	"github.com/ytkit/ytkit/internal/services/llm"
	"github.com/ytkit/ytkit/internal/utils"
)

// BatchState is the lifecycle position of one batch.
type BatchState int

const (
	BatchPending BatchState = iota
	BatchSent
	BatchParsed
	BatchRejected
	BatchError
)

func (s BatchState) String() string {
	switch s {
	case BatchPending:
		return "PENDING"
	case BatchSent:
		return "SENT"
	case BatchParsed:
		return "PARSED"
	case BatchRejected:
		return "REJECTED"
	case BatchError:
		return "ERROR"
	default:
		return fmt.Sprintf("BatchState(%d)", int(s))
	}
}

// BatchReport is passed to the OnBatch hook on every state change.
type BatchReport struct {
	Index   int // zero-based
	Total   int
	State   BatchState
	FirstID string
	LastID  string
	Size    int
	Results int
	Elapsed time.Duration
	Err     error
}

// BatchFailure aborts a run. It names the batch and its terminal state.
type BatchFailure struct {
	Index   int
	Total   int
	FirstID string
	LastID  string
	State   BatchState
	Err     error
}

func (e *BatchFailure) Error() string {
	return fmt.Sprintf("batch %d/%d (%s-%s) %s: %v", e.Index+1, e.Total, e.FirstID, e.LastID, e.State, e.Err)
}

func (e *BatchFailure) Unwrap() error { return e.Err }

// Options tunes an Orchestrator. Zero values select the defaults.
type Options struct {
	BatchSize   int
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	OnBatch     func(BatchReport)
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = config.DefaultBatchSize
	}
	if o.Temperature == 0 {
		o.Temperature = config.DefaultTemperature
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = config.DefaultMaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(config.DefaultTimeoutSeconds) * time.Second
	}
	return o
}

// Orchestrator annotates records batch by batch. A run either returns every
// result or an error and no results.
type Orchestrator struct {
	client  llm.Client
	prompts *PromptBuilder
	opts    Options
}

// NewOrchestrator wires a client and prompt builder. A nil builder uses the
// built-in template.
func NewOrchestrator(client llm.Client, prompts *PromptBuilder, opts Options) *Orchestrator {
	if prompts == nil {
		prompts = NewPromptBuilder("", "")
	}
	return &Orchestrator{client: client, prompts: prompts, opts: opts.withDefaults()}
}

// Batches partitions records into consecutive groups of at most size.
func Batches(records []preprocessed.Record, size int) [][]preprocessed.Record {
	if size <= 0 {
		size = config.DefaultBatchSize
	}
	var out [][]preprocessed.Record
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		out = append(out, records[start:end])
	}
	return out
}

// Run sends every batch in order. Any batch that does not reach PARSED stops
// the run; batches are never retried.
func (o *Orchestrator) Run(ctx context.Context, records []preprocessed.Record) ([]Result, error) {
	batches := Batches(records, o.opts.BatchSize)
	results := make([]Result, 0, len(records))

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("annotation cancelled before batch %d/%d: %w", i+1, len(batches), err)
		}

		parsed, err := o.runBatch(ctx, i, len(batches), batch)
		if err != nil {
			return nil, err
		}
		results = append(results, parsed...)
	}
	return results, nil
}

func (o *Orchestrator) runBatch(ctx context.Context, index, total int, batch []preprocessed.Record) ([]Result, error) {
	report := BatchReport{
		Index:   index,
		Total:   total,
		State:   BatchPending,
		FirstID: batch[0].ID(),
		LastID:  batch[len(batch)-1].ID(),
		Size:    len(batch),
	}
	o.emit(report)

	prompt := o.prompts.Build(batch)

	callCtx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	started := time.Now()
	report.State = BatchSent
	o.emit(report)
	utils.LogVerbose("Sending batch %d/%d (sentences %s-%s)", index+1, total, report.FirstID, report.LastID)

	reply, err := o.client.Complete(callCtx, llm.Request{
		Model:       o.opts.Model,
		System:      SystemPrompt,
		Prompt:      prompt,
		Temperature: o.opts.Temperature,
		MaxTokens:   o.opts.MaxTokens,
	})
	report.Elapsed = time.Since(started)
	if err != nil {
		return nil, o.fail(report, BatchError, fmt.Errorf("LLM request failed: %w", err))
	}

	parsed, err := DecodeResults(reply)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			return nil, o.fail(report, BatchRejected, err)
		}
		utils.LogError("Unparseable reply for batch %d/%d: %s", index+1, total, Preview(reply))
		return nil, o.fail(report, BatchError, err)
	}

	if len(parsed) != len(batch) {
		utils.LogWarning("Batch %d/%d returned %d annotations for %d sentences", index+1, total, len(parsed), len(batch))
	}

	report.State = BatchParsed
	report.Results = len(parsed)
	o.emit(report)
	return parsed, nil
}

func (o *Orchestrator) fail(report BatchReport, state BatchState, err error) error {
	report.State = state
	report.Err = err
	o.emit(report)
	return &BatchFailure{
		Index:   report.Index,
		Total:   report.Total,
		FirstID: report.FirstID,
		LastID:  report.LastID,
		State:   state,
		Err:     err,
	}
}

func (o *Orchestrator) emit(r BatchReport) {
	if o.opts.OnBatch != nil {
		o.opts.OnBatch(r)
	}
}
