// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePubDate(t *testing.T) {
	tests := []struct {
		in      string
		want    PubDate
		wantErr bool
	}{
		{"2024", PubDate{Year: 2024}, false},
		{"2024-03", PubDate{Year: 2024, Month: 3}, false},
		{"2024/03/09", PubDate{Year: 2024, Month: 3, Day: 9}, false},
		{"", PubDate{}, false},
		{"2024-13", PubDate{}, true},
		{"2024-00-05", PubDate{}, true},
		{"2024-01-02-03", PubDate{}, true},
		{"March 2024", PubDate{}, true},
		{"0", PubDate{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePubDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPubDateString(t *testing.T) {
	assert.Equal(t, "", PubDate{}.String())
	assert.Equal(t, "2024", PubDate{Year: 2024}.String())
	assert.Equal(t, "2024-03", PubDate{Year: 2024, Month: 3}.String())
	assert.Equal(t, "2024-03-09", PubDate{Year: 2024, Month: 3, Day: 9}.String())
}

func TestPubDateBefore(t *testing.T) {
	year := PubDate{Year: 2024}
	month := PubDate{Year: 2024, Month: 1}
	day := PubDate{Year: 2024, Month: 1, Day: 15}

	assert.True(t, year.Before(month))
	assert.True(t, month.Before(day))
	assert.True(t, PubDate{Year: 2023, Month: 12, Day: 31}.Before(year))
	assert.False(t, day.Before(day))
	assert.False(t, day.Before(month))
}

func TestPubDateTime(t *testing.T) {
	assert.True(t, PubDate{}.Time().IsZero())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), PubDate{Year: 2024}.Time())
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), PubDate{Year: 2024, Month: 3, Day: 9}.Time())
}

func TestDateOf(t *testing.T) {
	assert.Equal(t, PubDate{}, DateOf(time.Time{}))
	assert.Equal(t, PubDate{Year: 2024, Month: 2, Day: 29}, DateOf(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)))
}

func TestPubDateText(t *testing.T) {
	b, err := PubDate{Year: 2024, Month: 5}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-05", string(b))

	var d PubDate
	require.NoError(t, d.UnmarshalText([]byte("2024-05-06")))
	assert.Equal(t, PubDate{Year: 2024, Month: 5, Day: 6}, d)
	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
