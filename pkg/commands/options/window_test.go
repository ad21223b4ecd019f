package options

import (
	"testing"
	"time"
)

func TestGetWindow(t *testing.T) {
	tests := map[string]struct {
		last    string
		want    time.Duration
		wantErr bool
	}{
		"default": {
			last: "",
			want: 7 * 24 * time.Hour,
		},
		"days": {
			last: "3d",
			want: 72 * time.Hour,
		},
		"composite": {
			last: "1d12h",
			want: 36 * time.Hour,
		},
		"garbage": {
			last:    "soon",
			wantErr: true,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			o := &WindowOptions{Last: tc.last}
			got, _, err := o.GetWindow()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.last)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}
