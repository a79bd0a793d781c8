package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/roster/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "sheet",
			ID:       "Merged",
		}
		assert.Equal(t, "sheet Merged not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("table", "volunteers")
		wrapped := fmt.Errorf("loading master: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("master", nil, "dataset is nil")
		assert.Equal(t, "validation failed for field master: dataset is nil", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty schema"}
		assert.Equal(t, "validation failed: empty schema", err.Error())
	})
}

func TestColumnError(t *testing.T) {
	err := pkgerrors.NewColumnError("Nombre completo", "master")
	assert.Contains(t, err.Error(), "Nombre completo")
	assert.Contains(t, err.Error(), "master")
	assert.True(t, pkgerrors.IsColumnMissing(err))
	assert.False(t, pkgerrors.IsNotFound(err))
}

func TestMergeError(t *testing.T) {
	t.Run("row specific", func(t *testing.T) {
		base := errors.New("boom")
		err := pkgerrors.NewMergeError("classify", 3, base)
		assert.Equal(t, "merge failed at classify (incoming row 3): boom", err.Error())
		assert.Equal(t, base, errors.Unwrap(err))
	})

	t.Run("whole pass", func(t *testing.T) {
		err := pkgerrors.NewMergeError("resolve", -1, errors.New("boom"))
		assert.Equal(t, "merge failed at resolve: boom", err.Error())
	})
}

func TestStoreError(t *testing.T) {
	base := errors.New("disk full")
	err := pkgerrors.NewStoreError("csv", "save", "/tmp/master.csv", base)
	assert.Contains(t, err.Error(), "csv store save failed for /tmp/master.csv")
	assert.True(t, errors.Is(err, base))

	var storeErr *pkgerrors.StoreError
	require.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
	assert.Equal(t, "save", storeErr.Operation)
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ParseError
		want string
	}{
		{
			name: "file and line",
			err:  &pkgerrors.ParseError{Format: "csv", File: "in.csv", Line: 4, Message: "wrong number of fields"},
			want: "parse error in csv at in.csv:4: wrong number of fields",
		},
		{
			name: "file only",
			err:  &pkgerrors.ParseError{Format: "xlsx", File: "in.xlsx", Message: "zip: not a valid zip file"},
			want: "parse error in xlsx file in.xlsx: zip: not a valid zip file",
		},
		{
			name: "bare",
			err:  &pkgerrors.ParseError{Format: "yaml", Message: "bad indent"},
			want: "yaml parse error: bad indent",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.NewIOError("rename", "/data/master.xlsx", base)
	assert.Equal(t, "IO error during rename of /data/master.xlsx: permission denied", err.Error())
	assert.Equal(t, base, err.Unwrap())

	noPath := pkgerrors.NewIOError("write", "", nil)
	assert.Equal(t, "IO error during write: ", noPath.Error())
}

func TestConfigError(t *testing.T) {
	base := errors.New("unknown key")
	err := pkgerrors.NewConfigError("server", "port out of range", base)
	assert.Contains(t, err.Error(), "configuration error in server")
	assert.True(t, errors.Is(err, base))

	bare := &pkgerrors.ConfigError{Message: "missing master path"}
	assert.Equal(t, "configuration error: missing master path", bare.Error())
}

func TestWrapHelpers(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
		assert.NoError(t, pkgerrors.WrapParse("csv", "x", nil))
		assert.NoError(t, pkgerrors.WrapStore("csv", "load", "x", nil))
		assert.NoError(t, pkgerrors.WrapMerge("index", -1, nil))
		assert.NoError(t, pkgerrors.WrapValidation("x", nil))
	})

	t.Run("typed results", func(t *testing.T) {
		base := errors.New("bad")

		var ioErr *pkgerrors.IOError
		assert.True(t, errors.As(pkgerrors.WrapIO("read", "x", base), &ioErr))

		var parseErr *pkgerrors.ParseError
		assert.True(t, errors.As(pkgerrors.WrapParse("csv", "x", base), &parseErr))

		var mergeErr *pkgerrors.MergeError
		assert.True(t, errors.As(pkgerrors.WrapMerge("index", 2, base), &mergeErr))
		assert.Equal(t, 2, mergeErr.Row)

		assert.True(t, pkgerrors.IsValidationError(pkgerrors.WrapValidation("field", base)))
	})
}

func TestSentinels(t *testing.T) {
	err := fmt.Errorf("open %q: %w", "roster.parquet", pkgerrors.ErrUnsupportedFormat)
	assert.True(t, pkgerrors.IsUnsupportedFormat(err))
	assert.False(t, pkgerrors.IsColumnMissing(err))
	assert.True(t, pkgerrors.IsColumnMissing(pkgerrors.NewColumnError("País", "master")))
}
