//go:build unit

package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPgError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want RepositoryErrorKind
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: KindNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: KindNotFound},
		{name: "deadline", err: context.DeadlineExceeded, want: KindTimeout},
		{name: "unique", err: &pgconn.PgError{Code: PgErrUniqueViolation}, want: KindDuplicateKey},
		{name: "foreign key", err: &pgconn.PgError{Code: PgErrForeignKeyViolation}, want: KindForeignKeyViolated},
		{name: "exclusion", err: &pgconn.PgError{Code: PgErrExclusionViolation}, want: KindExclusionViolated},
		{name: "serialization", err: &pgconn.PgError{Code: PgErrSerializationFailure}, want: KindConflict},
		{name: "lock timeout", err: &pgconn.PgError{Code: PgErrLockNotAvailable}, want: KindTimeout},
		{name: "other pg", err: &pgconn.PgError{Code: "42P01"}, want: KindDBFailure},
		{name: "plain", err: errors.New("boom"), want: KindDBFailure},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ClassifyPgError(c.err))
		})
	}
}

func TestWrapRepoErr(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cause := &pgconn.PgError{Code: PgErrExclusionViolation}

	err := WrapPgErr(logger, "failed to insert reservation", cause)

	require.True(t, IsKind(err, KindExclusionViolated))
	assert.False(t, IsKind(err, KindNotFound))

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, PgErrExclusionViolation, pgErr.Code)
}
