package lazyplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeType(t *testing.T) {
	now := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)

	tests := []struct {
		name    string
		value   interface{}
		want    Value
		wantErr bool
	}{
		{
			name:  "nil",
			value: nil,
			want:  NewNull(),
		},
		{
			name:  "small unsigned",
			value: uint8(3),
			want:  NewInt(3),
		},
		{
			name:  "int64",
			value: int64(-7),
			want:  NewInt(-7),
		},
		{
			name:  "float32",
			value: float32(1.5),
			want:  NewFloat(1.5),
		},
		{
			name:  "bytes",
			value: []byte("Warsaw"),
			want:  NewString("Warsaw"),
		},
		{
			name:  "time",
			value: now,
			want:  NewTime(now),
		},
		{
			name:    "map",
			value:   map[string]interface{}{"a": 1},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeType(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, NewNull().Equal(NewNull()))
	assert.False(t, NewInt(2).Equal(NewFloat(2)))
	assert.False(t, NewString("a").Equal(NewString("b")))
	assert.True(t, NewTime(time.Unix(10, 0)).Equal(NewTime(time.Unix(10, 0).UTC())))
}

func TestTypeSum(t *testing.T) {
	tests := []struct {
		t1, t2 Type
		want   Type
	}{
		{Int, Int, Int},
		{Int, Float, Float},
		{Null, String, String},
		{Boolean, Null, Boolean},
		{String, Int, Any},
	}
	for _, tt := range tests {
		t.Run(tt.t1.String()+"+"+tt.t2.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, TypeSum(tt.t1, tt.t2))
		})
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range []Type{Null, Int, Float, Boolean, String, Time, Any} {
		parsed, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
	_, err := ParseType("decimal")
	assert.Error(t, err)
}
