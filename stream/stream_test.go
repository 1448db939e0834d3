package stream_test

import (
	"os"
	"testing"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/event"
	"github.com/crossbuild/ctfwriter/schema"
	"github.com/crossbuild/ctfwriter/stream"
	"github.com/crossbuild/ctfwriter/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounterEventClass(t *testing.T) *event.Class {
	t.Helper()
	ec, err := event.NewClass("tick")
	require.NoError(t, err)
	value, err := schema.NewInteger(32)
	require.NoError(t, err)
	require.NoError(t, value.SetSigned(false))
	require.NoError(t, ec.Payload().AddField("value", value))
	return ec
}

func TestStreamHandlesLargeEventBacklogAndResizes(t *testing.T) {
	tr, err := trace.New(t.TempDir())
	require.NoError(t, err)

	sc, err := stream.NewClass("bulk")
	require.NoError(t, err)
	ec := newCounterEventClass(t)
	require.NoError(t, sc.AddEventClass(ec))
	require.NoError(t, tr.AddStreamClass(sc))

	s, err := tr.CreateStream(sc)
	require.NoError(t, err)

	const eventCount = 100_000
	for i := 0; i < eventCount; i++ {
		ev, err := event.New(ec)
		require.NoError(t, err)
		vf, err := ev.Payload().StructureGetField("value")
		require.NoError(t, err)
		require.NoError(t, vf.SetUnsigned(uint64(i)))
		require.NoError(t, s.AppendEvent(ev))
	}
	assert.Equal(t, eventCount, s.EventCount())

	require.NoError(t, s.Flush())
	assert.Equal(t, 0, s.EventCount())
	assert.Equal(t, uint64(1), s.PacketSequenceNumber())

	require.NoError(t, tr.Close())
}

func TestFlushedPacketStartsWithBigEndianMagic(t *testing.T) {
	tr, err := trace.New(t.TempDir())
	require.NoError(t, err)

	sc, err := stream.NewClass("s")
	require.NoError(t, err)
	require.NoError(t, tr.AddStreamClass(sc))

	s, err := tr.CreateStream(sc)
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, []byte{0xC1, 0xFC, 0x1F, 0xC1}, data[:4], "packet must open with the big-endian magic 0xC1FC1FC1")

	require.NoError(t, tr.Close())
}

func TestStreamDiscardedEventsCounterMirroredOnFlush(t *testing.T) {
	tr, err := trace.New(t.TempDir())
	require.NoError(t, err)

	sc, err := stream.NewClass("withdrops", stream.WithDiscardedEventsField("_discarded"))
	require.NoError(t, err)
	ec := newCounterEventClass(t)
	require.NoError(t, sc.AddEventClass(ec))
	require.NoError(t, tr.AddStreamClass(sc))

	s, err := tr.CreateStream(sc)
	require.NoError(t, err)

	s.AppendDiscardedEvents(3)
	s.AppendDiscardedEvents(4)
	assert.Equal(t, uint64(7), s.GetDiscardedEventsCount())

	require.NoError(t, s.Flush())

	f, err := s.StreamEventContext().StructureGetField("_discarded")
	require.NoError(t, err)
	v, ok := f.Unsigned()
	require.True(t, ok)
	assert.Equal(t, uint64(7), v)

	require.NoError(t, tr.Close())
}

func TestAppendEventRejectsEventFromForeignClass(t *testing.T) {
	tr, err := trace.New(t.TempDir())
	require.NoError(t, err)

	sc, err := stream.NewClass("s1")
	require.NoError(t, err)
	ec := newCounterEventClass(t)
	require.NoError(t, sc.AddEventClass(ec))
	require.NoError(t, tr.AddStreamClass(sc))

	s, err := tr.CreateStream(sc)
	require.NoError(t, err)

	other, err := event.NewClass("other")
	require.NoError(t, err)
	ev, err := event.New(other)
	require.NoError(t, err)

	err = s.AppendEvent(ev)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	require.NoError(t, tr.Close())
}

func TestFlushOnEmptyPacketStillWritesHeader(t *testing.T) {
	tr, err := trace.New(t.TempDir())
	require.NoError(t, err)

	sc, err := stream.NewClass("empty")
	require.NoError(t, err)
	require.NoError(t, tr.AddStreamClass(sc))

	s, err := tr.CreateStream(sc)
	require.NoError(t, err)

	require.NoError(t, tr.Close())
	assert.Equal(t, uint64(1), s.PacketSequenceNumber())
}

func TestSetClockRejectedAfterStreamCreated(t *testing.T) {
	tr, err := trace.New(t.TempDir())
	require.NoError(t, err)

	sc, err := stream.NewClass("frozen-check")
	require.NoError(t, err)
	require.NoError(t, tr.AddStreamClass(sc))

	_, err = tr.CreateStream(sc)
	require.NoError(t, err)

	err = sc.SetClock(nil)
	require.ErrorIs(t, err, errs.ErrFrozen)

	i, ierr := schema.NewInteger(8)
	require.NoError(t, ierr)
	err = sc.StreamEventContext().AddField("late", i)
	require.ErrorIs(t, err, errs.ErrFrozen)

	require.NoError(t, tr.Close())
}
