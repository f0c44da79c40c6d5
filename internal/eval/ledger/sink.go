package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/runner"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/pagination"
)

// Sink appends the outcome of a run. Sinks never deduplicate: running the
// same subject twice yields two sets of records distinguished by run id.
type Sink interface {
	Append(ctx context.Context, items []runner.ItemResult, meta RunMeta) error
	Name() string
}

// Reader lists previously appended records. An empty label lists every record.
type Reader interface {
	List(ctx context.Context, label string, page pagination.OffsetRequest) (*pagination.OffsetResult[Record], error)
}

type multiSink struct {
	sinks []Sink
}

// Multi fans one append out to every sink in order and stops on the first error.
func Multi(sinks ...Sink) Sink {
	return &multiSink{sinks: sinks}
}

func (m *multiSink) Name() string {
	return "multi"
}

func (m *multiSink) Append(ctx context.Context, items []runner.ItemResult, meta RunMeta) error {
	for _, s := range m.sinks {
		if err := s.Append(ctx, items, meta); err != nil {
			return fmt.Errorf("%s sink: %w", s.Name(), err)
		}
	}
	return nil
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// CloseAll closes every sink that holds resources.
func CloseAll(sinks ...Sink) error {
	var errs []error
	for _, s := range sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s sink: %w", s.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
