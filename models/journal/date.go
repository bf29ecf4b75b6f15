package journal

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Date is a calendar date without a time component, used for control
// deadlines. It marshals as "2006-01-02" in JSON and query parameters.
type Date time.Time

const dateFormat = time.DateOnly

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	formatted := fmt.Sprintf("%q", time.Time(d).Format(dateFormat))
	return []byte(formatted), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	str := string(data)
	if len(str) >= 2 && str[0] == '"' {
		str = str[1 : len(str)-1]
	}
	// Tolerate full timestamps from older clients.
	if len(str) > len(dateFormat) {
		str = str[:len(dateFormat)]
	}
	parsed, err := time.ParseInLocation(dateFormat, str, time.Local)
	if err != nil {
		return err
	}
	*d = Date(parsed)
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*d = Date(v)
	case string:
		parsed, err := time.ParseInLocation(dateFormat, v, time.Local)
		if err != nil {
			return err
		}
		*d = Date(parsed)
	default:
		return fmt.Errorf("cannot scan type %T into Date", value)
	}
	return nil
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return time.Time(d).Format(dateFormat)
}

// UnmarshalParam implements gin's query/form binding.
func (d *Date) UnmarshalParam(param string) error {
	if param == "" {
		return nil
	}
	parsed, err := time.ParseInLocation(dateFormat, param, time.Local)
	if err != nil {
		return err
	}
	*d = Date(parsed)
	return nil
}
