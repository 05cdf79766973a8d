package txmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	serialization := &pq.Error{Code: pqSerializationFailure}
	deadlock := &pq.Error{Code: pqDeadlockDetected}
	errExecQuery := errors.New("storage: failed to execute query")

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"serialization failure", serialization, true},
		{"deadlock", deadlock, true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{
			// Ошибка драйвера должна оставаться в цепочке через обертки
			// репозитория и коммита
			"serialization failure under repository and commit wraps",
			fmt.Errorf("%w: commit: %w", ErrTransaction,
				fmt.Errorf("%w: Create - execute insert: %w", errExecQuery, serialization)),
			true,
		},
		{
			"deadlock under begin wrap",
			fmt.Errorf("%w: begin: %w", ErrTransaction, deadlock),
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryable(tc.err))
		})
	}
}
