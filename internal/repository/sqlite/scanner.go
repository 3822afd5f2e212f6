package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanSlot scans a single slot from a database row
func ScanSlot(scanner Scanner) (*Slot, error) {
	var (
		slot      Slot
		value     string
		updatedAt string
	)
	if err := scanner.Scan(&slot.Key, &value, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := ParseTimeFromDB(updatedAt)
	if err != nil {
		return nil, err
	}
	slot.Value = []byte(value)
	slot.UpdatedAt = parsed
	return &slot, nil
}

// ScanKeys scans a single-column list of keys
func ScanKeys(rows Rows) ([]*string, error) {
	var keys []*string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, &key)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}
