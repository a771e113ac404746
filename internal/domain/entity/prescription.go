package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrVitalsNotFlat          = errors.New("vitals must be an object of string values")
	ErrInvalidMedicine        = errors.New("medicine requires name, dosage, frequency and duration")
	ErrPrescriptionImmutable  = errors.New("prescriptions cannot be modified")
	ErrUnsupportedColumnValue = errors.New("unsupported column value")
)

// Vital is a single measurement, e.g. BP -> 120/80
type Vital struct {
	Name  string
	Value string
}

// Vitals is a string-keyed measurement set. It keeps the key order of the
// JSON object it was decoded from so printed prescriptions list vitals the
// way the doctor entered them.
type Vitals []Vital

// Get returns the value recorded under name
func (v Vitals) Get(name string) (string, bool) {
	for _, vital := range v {
		if vital.Name == name {
			return vital.Value, true
		}
	}
	return "", false
}

// Map flattens the vitals, losing order
func (v Vitals) Map() map[string]string {
	m := make(map[string]string, len(v))
	for _, vital := range v {
		m[vital.Name] = vital.Value
	}
	return m
}

func (v Vitals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, vital := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(vital.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(vital.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts only a flat object whose values are strings.
// A repeated key keeps its first position and its last value.
func (v *Vitals) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrVitalsNotFlat
	}

	vitals := Vitals{}
	index := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		value, ok := valTok.(string)
		if !ok {
			return fmt.Errorf("%w: %q", ErrVitalsNotFlat, key)
		}

		if i, seen := index[key]; seen {
			vitals[i].Value = value
			continue
		}
		index[key] = len(vitals)
		vitals = append(vitals, Vital{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*v = vitals
	return nil
}

// Validate rejects blank measurement names
func (v Vitals) Validate() error {
	for _, vital := range v {
		if strings.TrimSpace(vital.Name) == "" {
			return ErrVitalsNotFlat
		}
	}
	return nil
}

// Value implements driver.Valuer. Stored as json (not jsonb) so key order survives.
func (v Vitals) Value() (driver.Value, error) {
	b, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (v *Vitals) Scan(value interface{}) error {
	b, err := columnBytes(value)
	if err != nil {
		return err
	}
	if b == nil {
		*v = nil
		return nil
	}
	return v.UnmarshalJSON(b)
}

// Medicine is one row of the Rx table
type Medicine struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

func (m Medicine) Validate() error {
	if strings.TrimSpace(m.Name) == "" ||
		strings.TrimSpace(m.Dosage) == "" ||
		strings.TrimSpace(m.Frequency) == "" ||
		strings.TrimSpace(m.Duration) == "" {
		return ErrInvalidMedicine
	}
	return nil
}

// Medicines keeps prescription order
type Medicines []Medicine

func (m Medicines) Validate() error {
	for i, med := range m {
		if err := med.Validate(); err != nil {
			return fmt.Errorf("medicine %d: %w", i+1, err)
		}
	}
	return nil
}

// Value implements driver.Valuer
func (m Medicines) Value() (driver.Value, error) {
	if m == nil {
		m = Medicines{}
	}
	b, err := json.Marshal([]Medicine(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *Medicines) Scan(value interface{}) error {
	b, err := columnBytes(value)
	if err != nil {
		return err
	}
	if b == nil {
		*m = nil
		return nil
	}
	var meds []Medicine
	if err := json.Unmarshal(b, &meds); err != nil {
		return err
	}
	*m = meds
	return nil
}

func columnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedColumnValue, value)
	}
}

// Prescription is written once by a doctor for a patient and never changed
type Prescription struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  string    `gorm:"type:varchar(20);not null;index" json:"doctor_id"`
	PatientID string    `gorm:"type:varchar(20);not null;index" json:"patient_id"`
	Diagnosis string    `gorm:"type:text" json:"diagnosis"`
	Vitals    Vitals    `gorm:"type:json" json:"vitals"`
	Medicines Medicines `gorm:"type:json" json:"medicines"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// Validate checks the structured columns before they reach the store
func (p *Prescription) Validate() error {
	if err := p.Vitals.Validate(); err != nil {
		return err
	}
	return p.Medicines.Validate()
}

func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	return p.Validate()
}

func (p *Prescription) BeforeUpdate(tx *gorm.DB) error {
	return ErrPrescriptionImmutable
}
