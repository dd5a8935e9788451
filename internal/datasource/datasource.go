// Package datasource turns configuration into a Loader: something that can
// produce a fresh raw table.Table on demand.
//
// Byte-oriented sources (file, http, gsheet) are paired with a parser;
// the sql source yields rows directly.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ssaurabh5135/storedashboard/internal/parser"
	"github.com/ssaurabh5135/storedashboard/internal/table"
)

// ErrUnknownKind is returned for a source or parser kind with no
// implementation.
var ErrUnknownKind = errors.New("unknown kind")

// Source yields raw bytes.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Loader yields a raw table.
type Loader interface {
	Load(ctx context.Context) (*table.Table, error)
}

// Parsed is a Loader that reads Source with Parser.
type Parsed struct {
	Source Source
	Parser parser.Parser
}

// Load opens the source, parses it and closes it.
func (p Parsed) Load(ctx context.Context) (*table.Table, error) {
	rc, err := p.Source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("source: open: %w", err)
	}
	defer rc.Close()

	t, err := p.Parser.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("source: parse: %w", err)
	}
	return t, nil
}
