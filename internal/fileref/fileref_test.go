package fileref

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/specialistvlad/recipegrid/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var floatType = reflect.TypeFor[float64]()

func newTestCodecs() *Codecs {
	c := NewCodecs()
	c.RegisterLoader(floatType, func(_ context.Context, r io.Reader) (any, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	})
	c.RegisterWriter(floatType, func(_ context.Context, w io.Writer, v any) error {
		_, err := fmt.Fprintf(w, "%g\n", v.(float64))
		return err
	})
	return c
}

func newTestStore() (*storage.Router, *storage.Memory) {
	mem := storage.NewMemory()
	r := storage.NewRouter()
	r.Handle("mem", mem)
	return r, mem
}

func TestTyped_Load(t *testing.T) {
	store, mem := newTestStore()
	mem.Put("mem://in", []byte("5.0\n"))
	codecs := newTestCodecs()

	typed := Bind(Reference{Location: "mem://in"}, floatType, codecs, store)
	v, err := typed.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	// Each load reads the location again.
	mem.Put("mem://in", []byte("6"))
	v, err = typed.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}

func TestTyped_LoadErrors(t *testing.T) {
	store, mem := newTestStore()
	mem.Put("mem://bad", []byte("not a number"))
	codecs := newTestCodecs()

	t.Run("no loader for type", func(t *testing.T) {
		_, err := Bind(Reference{Location: "mem://bad"}, reflect.TypeFor[string](), codecs, store).Load(context.Background())
		assert.ErrorIs(t, err, ErrNoLoader)
	})

	t.Run("untyped", func(t *testing.T) {
		_, err := Bind(Reference{Location: "mem://bad"}, nil, codecs, store).Load(context.Background())
		assert.ErrorIs(t, err, ErrNoLoader)
		assert.ErrorContains(t, err, "<untyped>")
	})

	t.Run("decode failure", func(t *testing.T) {
		_, err := Bind(Reference{Location: "mem://bad"}, floatType, codecs, store).Load(context.Background())
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNoLoader))
		assert.ErrorContains(t, err, "failed to decode")
	})

	t.Run("missing location", func(t *testing.T) {
		_, err := Bind(Reference{Location: "mem://missing"}, floatType, codecs, store).Load(context.Background())
		assert.ErrorContains(t, err, "failed to open")
	})
}

func TestCodecs_Save(t *testing.T) {
	store, mem := newTestStore()
	codecs := newTestCodecs()

	require.NoError(t, codecs.Save(context.Background(), store, 30.0, "mem://out"))
	data, ok := mem.Get("mem://out")
	require.True(t, ok)
	assert.Equal(t, "30\n", string(data))

	err := codecs.Save(context.Background(), store, "a string", "mem://out2")
	assert.ErrorIs(t, err, ErrNoWriter)
	_, ok = mem.Get("mem://out2")
	assert.False(t, ok)
}

func TestCodecs_SaveDiscardsPartialOutput(t *testing.T) {
	codecs := NewCodecs()
	codecs.RegisterWriter(floatType, func(_ context.Context, w io.Writer, _ any) error {
		if _, err := io.WriteString(w, "partial"); err != nil {
			return err
		}
		return errors.New("encoder failed")
	})

	t.Run("memory", func(t *testing.T) {
		store, mem := newTestStore()
		err := codecs.Save(context.Background(), store, 1.0, "mem://out")
		assert.ErrorContains(t, err, "encoder failed")
		_, ok := mem.Get("mem://out")
		assert.False(t, ok)
	})

	t.Run("local", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := codecs.Save(context.Background(), storage.NewRouter(), 1.0, path)
		assert.ErrorContains(t, err, "encoder failed")
		_, statErr := os.Stat(path)
		assert.ErrorIs(t, statErr, fs.ErrNotExist)
	})
}

func TestCodecs_DuplicateRegistrationPanics(t *testing.T) {
	codecs := newTestCodecs()
	assert.Panics(t, func() {
		codecs.RegisterLoader(floatType, nil)
	})
	assert.Panics(t, func() {
		codecs.RegisterWriter(floatType, nil)
	})
}

func TestStringers(t *testing.T) {
	ref := Reference{Location: "/data/in.txt"}
	assert.Equal(t, `file("/data/in.txt")`, ref.String())
	assert.Equal(t, `file("/data/in.txt") as float64`, Bind(ref, floatType, nil, nil).String())
}
