package trace

import (
	"testing"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyDirectory(t *testing.T) {
	_, err := New("")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/trace"
	tr, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, tr.Directory())
}

func TestWithGeneratedUUIDIsDeterministic(t *testing.T) {
	a, err := New(t.TempDir(), WithGeneratedUUID("session-1"))
	require.NoError(t, err)
	b, err := New(t.TempDir(), WithGeneratedUUID("session-1"))
	require.NoError(t, err)
	assert.Equal(t, a.UUID(), b.UUID())

	c, err := New(t.TempDir(), WithGeneratedUUID("session-2"))
	require.NoError(t, err)
	assert.NotEqual(t, a.UUID(), c.UUID())
}

func TestWithUUIDOverridesDerived(t *testing.T) {
	var custom [16]byte
	custom[0] = 0xAB
	tr, err := New(t.TempDir(), WithUUID(custom))
	require.NoError(t, err)
	assert.Equal(t, custom, tr.UUID())
}

func TestEnvSetAndGet(t *testing.T) {
	tr, err := New(t.TempDir())
	require.NoError(t, err)

	tr.SetEnv("hostname", "box1")
	tr.SetEnvInt("pid", 1234)

	v, ok := tr.Env("hostname")
	require.True(t, ok)
	assert.True(t, v.IsString)
	assert.Equal(t, "box1", v.Str)

	v, ok = tr.Env("pid")
	require.True(t, ok)
	assert.False(t, v.IsString)
	assert.Equal(t, int64(1234), v.Int)

	assert.Equal(t, []string{"hostname", "pid"}, tr.EnvKeys())
}

func TestAddStreamClassAssignsSequentialIDs(t *testing.T) {
	tr, err := New(t.TempDir())
	require.NoError(t, err)

	a, _ := stream.NewClass("a")
	b, _ := stream.NewClass("b")
	require.NoError(t, tr.AddStreamClass(a))
	require.NoError(t, tr.AddStreamClass(b))

	idA, _ := a.ID()
	idB, _ := b.ID()
	assert.Equal(t, uint64(0), idA)
	assert.Equal(t, uint64(1), idB)
}

func TestAddStreamClassRejectsDuplicateName(t *testing.T) {
	tr, err := New(t.TempDir())
	require.NoError(t, err)

	a, _ := stream.NewClass("dup")
	b, _ := stream.NewClass("dup")
	require.NoError(t, tr.AddStreamClass(a))
	err = tr.AddStreamClass(b)
	require.ErrorIs(t, err, errs.ErrDuplicate)
}

func TestCreateStreamFreezesPacketHeader(t *testing.T) {
	tr, err := New(t.TempDir())
	require.NoError(t, err)
	assert.False(t, tr.PacketHeader().Frozen())

	sc, _ := stream.NewClass("s")
	require.NoError(t, tr.AddStreamClass(sc))

	_, err = tr.CreateStream(sc)
	require.NoError(t, err)
	assert.True(t, tr.PacketHeader().Frozen())

	require.NoError(t, tr.Close())
}

func TestCreateStreamAssignsIncrementingStreamIDsViaFileNames(t *testing.T) {
	tr, err := New(t.TempDir())
	require.NoError(t, err)

	sc1, _ := stream.NewClass("s1")
	sc2, _ := stream.NewClass("s2")
	require.NoError(t, tr.AddStreamClass(sc1))
	require.NoError(t, tr.AddStreamClass(sc2))

	s1, err := tr.CreateStream(sc1)
	require.NoError(t, err)
	s2, err := tr.CreateStream(sc2)
	require.NoError(t, err)

	assert.NotEqual(t, s1.Path(), s2.Path())
	require.NoError(t, tr.Close())
}

func TestCreateStreamWithFileNameOption(t *testing.T) {
	tr, err := New(t.TempDir())
	require.NoError(t, err)

	sc, _ := stream.NewClass("s")
	require.NoError(t, tr.AddStreamClass(sc))

	s, err := tr.CreateStream(sc, WithFileName("custom.bin"))
	require.NoError(t, err)
	assert.Contains(t, s.Path(), "custom.bin")

	require.NoError(t, tr.Close())
}

func TestCloseClosesAllStreamsAndReportsFirstError(t *testing.T) {
	tr, err := New(t.TempDir())
	require.NoError(t, err)

	sc, _ := stream.NewClass("s")
	require.NoError(t, tr.AddStreamClass(sc))
	_, err = tr.CreateStream(sc)
	require.NoError(t, err)

	require.NoError(t, tr.Close())

	// A second Close finds every stream file already closed.
	require.ErrorIs(t, tr.Close(), errs.ErrIO)
}
