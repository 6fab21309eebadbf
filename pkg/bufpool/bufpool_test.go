package bufpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSizes(t *testing.T) {
	t.Run("SmallRequestUsesSmallTier", func(t *testing.T) {
		buf := Get(100)
		defer Put(buf)

		assert.Equal(t, 100, len(buf))
		assert.Equal(t, SmallSize, cap(buf))
	})

	t.Run("TransferRequestUsesTransferTier", func(t *testing.T) {
		buf := Get(SmallSize + 1)
		defer Put(buf)

		assert.Equal(t, SmallSize+1, len(buf))
		assert.Equal(t, TransferSize, cap(buf))
	})

	t.Run("OversizedRequestAllocatesExactly", func(t *testing.T) {
		buf := Get(TransferSize + 1)
		defer Put(buf)

		assert.Equal(t, TransferSize+1, len(buf))
		assert.Equal(t, TransferSize+1, cap(buf))
	})
}

func TestPutForeignBuffer(t *testing.T) {
	// Buffers with unknown capacity must be dropped, not pooled
	Put(make([]byte, 1000))
	Put(nil)

	buf := Get(SmallSize)
	assert.Equal(t, SmallSize, cap(buf))
	Put(buf)
}

func TestReuse(t *testing.T) {
	buf := Get(TransferSize)
	buf[0] = 0xAB
	Put(buf)

	// A pooled buffer keeps full capacity after round-tripping
	again := Get(TransferSize)
	assert.Equal(t, TransferSize, cap(again))
	Put(again)
}
