package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestIsNoRows(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"own", ErrNoRows, true},
		{"database/sql", sql.ErrNoRows, true},
		{"pgx", pgx.ErrNoRows, true},
		{"wrapped", fmt.Errorf("listing feedback: %w", sql.ErrNoRows), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNoRows(tt.err))
		})
	}
}
