// Package datasource defines where raw entity tables come from.
package datasource

import (
	"context"
	"io"
)

// Source is one named raw table. Name is the entity kind the table is
// staged under (e.g. "purchases").
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}
