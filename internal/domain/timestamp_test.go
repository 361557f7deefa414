package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Time
	}{
		{"iso no zone", "2024-01-15T00:00:00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", "2015-07-07T02:00:00Z", time.Date(2015, 7, 7, 2, 0, 0, 0, time.UTC)},
		{"sidecar start", "2006-06-13 00:12:40", time.Date(2006, 6, 13, 0, 12, 40, 0, time.UTC)},
		{"sidecar start fractional", "2006-06-13 00:12:40.500000", time.Date(2006, 6, 13, 0, 12, 40, 500000000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			micro, err := ParseTimestamp(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.UnixMicro(), micro)
		})
	}

	t.Run("microsecond epoch value", func(t *testing.T) {
		micro, err := ParseTimestamp("2024-01-15T00:00:00")
		require.NoError(t, err)
		assert.Equal(t, int64(1705276800000000), micro)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseTimestamp("not a timestamp")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unparseable")
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseTimestamp("   ")
		require.Error(t, err)
	})
}

func TestTimestampFromIdentifier_MSG(t *testing.T) {
	prof, err := ProfileFor(SensorMSG)
	require.NoError(t, err)

	t.Run("full identifier", func(t *testing.T) {
		micro, err := prof.TimestampFromIdentifier("MSG1_20060613001240_CS_2006163223419_00664_merged_patch_00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2006, 6, 13, 0, 12, 40, 0, time.UTC).UnixMicro(), micro)
		assert.Equal(t, SplitTrain, AssignSplit(micro, time.UTC))
	})

	t.Run("day 28 lands in test split", func(t *testing.T) {
		micro, err := prof.TimestampFromIdentifier("MSG1_20060628000000_CS_2006179001122_00001_merged_patch_03")
		require.NoError(t, err)
		assert.Equal(t, SplitTest, AssignSplit(micro, time.UTC))
	})

	t.Run("unparseable identifier", func(t *testing.T) {
		_, err := prof.TimestampFromIdentifier("G16_not_an_msg_name")
		require.Error(t, err)
	})
}

func TestTimestampFromIdentifier_Himawari(t *testing.T) {
	prof, err := ProfileFor(SensorHimawari)
	require.NoError(t, err)

	t.Run("date and time fields", func(t *testing.T) {
		micro, err := prof.TimestampFromIdentifier("H08_20150707_0200_CS_2015188011306_48887_merged_patch_00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2015, 7, 7, 2, 0, 0, 0, time.UTC).UnixMicro(), micro)
	})

	t.Run("bare date means midnight", func(t *testing.T) {
		micro, err := prof.TimestampFromIdentifier("20190312_wp_patch_07")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2019, 3, 12, 0, 0, 0, 0, time.UTC).UnixMicro(), micro)
	})
}

func TestTimestampFromIdentifier_SensorWithoutPattern(t *testing.T) {
	prof, err := ProfileFor(SensorGOES)
	require.NoError(t, err)

	_, err = prof.TimestampFromIdentifier("G16_whatever_001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not encode timestamps")
}
