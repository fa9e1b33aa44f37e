// Package pipeline implements the per-packet classification engine: one
// classifier instance per arriving frame, with contract violations confined
// to the unit that raised them.
package pipeline

import (
	"context"
	"errors"
	"io"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/core/classifier"
	"firestige.xyz/strix/internal/log"
)

// Source yields raw frames for classification. io.EOF or ErrSourceClosed
// ends the run cleanly.
type Source interface {
	ReadPacket() (core.RawPacket, error)
}

// Handler consumes the classifier built over one frame. The classifier and
// the frame buffer are only valid for the duration of the call.
type Handler func(p *classifier.Parser, raw core.RawPacket)

// Config contains pipeline configuration.
type Config struct {
	Source     Source
	Handler    Handler
	MaxPackets int // 0 = unbounded
	Logger     log.Logger
}

// Pipeline drains a source, building one classifier per frame. Processing is
// single-threaded and synchronous; run independent pipelines for
// parallelism.
type Pipeline struct {
	source     Source
	handler    Handler
	maxPackets int
	metrics    *Metrics
	logger     log.Logger
}

// New creates a new pipeline.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Pipeline{
		source:     cfg.Source,
		handler:    cfg.Handler,
		maxPackets: cfg.MaxPackets,
		metrics:    NewMetrics(),
		logger:     logger,
	}
}

// Metrics exposes the pipeline's counters.
func (p *Pipeline) Metrics() *Metrics { return p.metrics }

// Run classifies frames until the source drains, the packet limit is
// reached, or the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.maxPackets > 0 && p.metrics.Received.Load() >= uint64(p.maxPackets) {
			return nil
		}

		raw, err := p.source.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, core.ErrSourceClosed) {
				return nil
			}
			return err
		}

		p.metrics.Received.Add(1)
		p.classifyUnit(raw)
	}
}

// classifyUnit runs one classification unit. A contract violation marks a
// defect in classifier code or the handler; it aborts this unit only, and
// the pipeline moves on to the next frame. Any other panic propagates.
func (p *Pipeline) classifyUnit(raw core.RawPacket) {
	defer func() {
		if r := recover(); r != nil {
			v, ok := r.(core.ContractViolation)
			if !ok {
				panic(r)
			}
			p.metrics.Aborted.Add(1)
			p.logger.WithField("in_port", raw.InPort).WithError(v).
				Error("classification unit aborted")
		}
	}()

	parser := classifier.NewParser(raw.Data, raw.InPort)
	p.metrics.Classified.Add(1)
	if p.handler != nil {
		p.handler(parser, raw)
	}
}
