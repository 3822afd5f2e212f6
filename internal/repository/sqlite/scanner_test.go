package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}

	if len(dest) != len(ts.data) {
		return errors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = ts.data[i].(string)
		}
	}

	return nil
}

// TestRows implements the Rows interface for testing
type TestRows struct {
	keys    []string
	pos     int
	iterErr error
}

func (tr *TestRows) Next() bool {
	tr.pos++
	return tr.pos <= len(tr.keys)
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	*dest[0].(*string) = tr.keys[tr.pos-1]
	return nil
}

func (tr *TestRows) Err() error {
	return tr.iterErr
}

func TestScanSlot(t *testing.T) {
	tests := []struct {
		name        string
		scanner     *TestScanner
		expected    *Slot
		expectError bool
	}{
		{
			name:    "valid slot",
			scanner: &TestScanner{data: []interface{}{"tasks", "[]", "2024-01-15T10:00:00Z"}},
			expected: &Slot{
				Key:       "tasks",
				Value:     []byte("[]"),
				UpdatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			},
		},
		{
			name:        "bad timestamp",
			scanner:     &TestScanner{data: []interface{}{"tasks", "[]", "2024-01-15 10:00:00"}},
			expectError: true,
		},
		{
			name:        "scan error",
			scanner:     &TestScanner{err: errors.New("scan failed")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanSlot(tt.scanner)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestScanKeys(t *testing.T) {
	keys, err := ScanKeys(&TestRows{keys: []string{"a", "b"}})
	assert.NoError(t, err)
	if assert.Len(t, keys, 2) {
		assert.Equal(t, "a", *keys[0])
		assert.Equal(t, "b", *keys[1])
	}

	_, err = ScanKeys(&TestRows{iterErr: errors.New("iteration failed")})
	assert.Error(t, err)
}
