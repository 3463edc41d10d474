package credentials

import (
	"testing"
	"time"
)

func TestRecord_Valid(t *testing.T) {
	rec := &Record{
		AccessToken:  "tok",
		RefreshToken: "ref",
		ExpiresIn:    3600,
		SavedTime:    1000,
	}

	tests := []struct {
		name string
		now  int64
		want bool
	}{
		{
			name: "well before expiry",
			now:  1500,
			want: true,
		},
		{
			name: "one second before expiry",
			now:  4599,
			want: true,
		},
		{
			name: "exactly at expiry",
			now:  4600,
			want: false,
		},
		{
			name: "after expiry",
			now:  5000,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rec.Valid(time.Unix(tt.now, 0)); got != tt.want {
				t.Errorf("Valid(now=%d) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestRecord_ExpiresAt(t *testing.T) {
	rec := &Record{ExpiresIn: 3600, SavedTime: 1000}
	if got, want := rec.ExpiresAt(), time.Unix(4600, 0); !got.Equal(want) {
		t.Errorf("ExpiresAt() = %v, want %v", got, want)
	}
}
