package jobModel

import "testing"

func TestStatusFromCounts(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		total    int
		want     JobStatus
	}{
		{"Zero failures completes", 0, 10, JobStatusCompleted},
		{"All failures fails", 10, 10, JobStatusFailed},
		{"One failure is partial", 1, 10, JobStatusPartialFailure},
		{"All but one is still partial", 9, 10, JobStatusPartialFailure},
		{"Single clause success", 0, 1, JobStatusCompleted},
		{"Single clause failure", 1, 1, JobStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFromCounts(tt.failures, tt.total); got != tt.want {
				t.Errorf("StatusFromCounts(%d, %d) = %s, want %s", tt.failures, tt.total, got, tt.want)
			}
		})
	}
}
