package usecase

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gendata/internal/domain"
	"gendata/internal/port"
)

// Pipeline binds an extractor to the sink its records go to.
type Pipeline struct {
	Extractor port.Extractor
	Sink      port.RecordSink
}

// MineUseCase walks a tree once and feeds every file to each pipeline that accepts it.
type MineUseCase struct {
	walker    port.FileWalker
	pipelines []Pipeline
	workers   int
	logger    *zap.Logger
}

// NewMineUseCase creates a new mining use case. workers <= 0 means one per CPU;
// 1 processes files strictly in walk order.
func NewMineUseCase(walker port.FileWalker, pipelines []Pipeline, workers int, logger *zap.Logger) *MineUseCase {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MineUseCase{
		walker:    walker,
		pipelines: pipelines,
		workers:   workers,
		logger:    logger,
	}
}

// MineResult contains the results of a mining run.
type MineResult struct {
	FilesScanned        int
	ImplementationFiles int
	TestFiles           int
	Records             map[string]int
}

// MineProgress is reported after each file is processed.
type MineProgress struct {
	Processed int
	File      string
}

// Mine runs every pipeline over the files under root. Parsing problems only reduce
// the number of records; walk failures at the root and sink failures are returned.
func (u *MineUseCase) Mine(ctx context.Context, root string, progress func(MineProgress)) (*MineResult, error) {
	result := &MineResult{Records: make(map[string]int)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)

	var mu sync.Mutex
	processed := 0

	walkErr := u.walker.Walk(root, func(file domain.SourceFile) error {
		if err := gctx.Err(); err != nil {
			return err
		}

		result.FilesScanned++
		switch file.Role {
		case domain.RoleImplementation:
			result.ImplementationFiles++
		case domain.RoleTest:
			result.TestFiles++
		}

		g.Go(func() error {
			if err := u.process(file); err != nil {
				return err
			}
			if progress != nil {
				mu.Lock()
				processed++
				progress(MineProgress{Processed: processed, File: file.RelPath})
				mu.Unlock()
			}
			return nil
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	for _, p := range u.pipelines {
		result.Records[p.Extractor.Name()] = p.Sink.Len()
	}

	u.logger.Info("mining complete",
		zap.String("root", root),
		zap.Int("files", result.FilesScanned),
		zap.Any("records", result.Records))
	return result, nil
}

func (u *MineUseCase) process(file domain.SourceFile) error {
	for _, p := range u.pipelines {
		if !p.Extractor.Accepts(file) {
			continue
		}
		records := p.Extractor.Extract(file)
		if len(records) == 0 {
			continue
		}
		if err := p.Sink.Put(records...); err != nil {
			return fmt.Errorf("failed to store %s records for %s: %w", p.Extractor.Name(), file.RelPath, err)
		}
	}
	return nil
}
