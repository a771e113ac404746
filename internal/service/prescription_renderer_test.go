package service

import (
	"bytes"
	"testing"
	"time"

	"hospital-frontdesk/config"
	"hospital-frontdesk/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func sampleDocument() PrescriptionDocument {
	return PrescriptionDocument{
		Prescription: &entity.Prescription{
			ID:        1,
			DoctorID:  "0001Avd",
			PatientID: "0002Pat",
			Diagnosis: "Chest pain with mild discomfort.",
			Vitals: entity.Vitals{
				{Name: "BP", Value: "120/80"},
				{Name: "Height", Value: "170 cm"},
			},
			Medicines: entity.Medicines{
				{Name: "Tab. Atorvastatin 10mg", Dosage: "1-0-0", Frequency: "After breakfast", Duration: "30 days"},
				{Name: "Tab. Aspirin 75mg", Dosage: "0-1-0", Frequency: "After dinner", Duration: "15 days"},
			},
		},
		Doctor: &entity.User{
			ID: "0001Avd", Name: "Dr. Avdhoot Patil", Role: entity.RoleDoctor,
			Degrees: strPtr("MBBS, MD"), Specialization: strPtr("Cardiologist"),
		},
		Hospital: &entity.HospitalProfile{
			DoctorID: "0001Avd", HospitalName: "KEM",
			Address: strPtr("Shivaji Nagar, Pune"), Phone: strPtr("020 445 6897"), Website: strPtr("www.dravdhoot.com"),
		},
		Patient: &entity.User{
			ID: "0002Pat", Name: "Test Patient", Phone: "9999000002",
			Age: intPtr(30), Gender: strPtr("M"),
		},
		Date: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}
}

func findItem(items []TextItem, text string) (TextItem, bool) {
	for _, item := range items {
		if item.Text == text {
			return item, true
		}
	}
	return TextItem{}, false
}

func TestLayoutPrescription_Header(t *testing.T) {
	items := LayoutPrescription(sampleDocument())

	name, ok := findItem(items, "KEM")
	require.True(t, ok)
	assert.Equal(t, TextItem{X: 2, Y: 2, Text: "KEM", Bold: true, Size: 24}, name)

	for _, text := range []string{"Shivaji Nagar, Pune", "Phone: 020 445 6897", "Website: www.dravdhoot.com"} {
		_, ok := findItem(items, text)
		assert.True(t, ok, text)
	}

	doctor, ok := findItem(items, "Dr. Avdhoot Patil")
	require.True(t, ok)
	assert.True(t, doctor.AlignRight)
	assert.Equal(t, 19.0, doctor.X)

	_, ok = findItem(items, "Age/Sex: 30/M")
	assert.True(t, ok)
	_, ok = findItem(items, "Date: 17-10-2026")
	assert.True(t, ok)
	_, ok = findItem(items, "Phone: 9999000002")
	assert.True(t, ok)
}

func TestLayoutPrescription_BodyKeepsOrder(t *testing.T) {
	items := LayoutPrescription(sampleDocument())

	bp, ok := findItem(items, "BP: 120/80")
	require.True(t, ok)
	height, ok := findItem(items, "Height: 170 cm")
	require.True(t, ok)
	assert.InDelta(t, 0.5, height.Y-bp.Y, 1e-9)
	assert.Equal(t, 2.5, bp.X)

	diagnosis, ok := findItem(items, "Chest pain with mild discomfort.")
	require.True(t, ok)
	assert.Greater(t, diagnosis.Y, height.Y)

	first, ok := findItem(items, "Tab. Atorvastatin 10mg")
	require.True(t, ok)
	second, ok := findItem(items, "Tab. Aspirin 75mg")
	require.True(t, ok)
	assert.Greater(t, first.Y, diagnosis.Y)
	assert.InDelta(t, 0.7, second.Y-first.Y, 1e-9)
	assert.Equal(t, 3.0, first.X)

	timing, ok := findItem(items, "After breakfast")
	require.True(t, ok)
	assert.Equal(t, 12.0, timing.X)
	assert.Equal(t, first.Y, timing.Y)

	header, ok := findItem(items, "Timing")
	require.True(t, ok)
	assert.InDelta(t, 0.9, first.Y-header.Y, 1e-9)

	row, ok := findItem(items, "2")
	require.True(t, ok)
	assert.Equal(t, second.Y, row.Y)
}

func TestLayoutPrescription_FooterIsFixed(t *testing.T) {
	items := LayoutPrescription(sampleDocument())

	sig, ok := findItem(items, "Doctor's Signature")
	require.True(t, ok)
	assert.InDelta(t, 26.7, sig.Y, 1e-9)
	assert.True(t, sig.AlignRight)

	note, ok := findItem(items, disclaimerLine1)
	require.True(t, ok)
	assert.InDelta(t, 27.5, note.Y, 1e-9)
	assert.Equal(t, 8.0, note.Size)
}

func TestLayoutPrescription_MissingOptionalFields(t *testing.T) {
	doc := sampleDocument()
	doc.Hospital = nil
	doc.Doctor.Degrees = nil
	doc.Patient.Age = nil
	doc.Patient.Gender = nil

	items := LayoutPrescription(doc)

	_, ok := findItem(items, "MY HOSPITAL")
	assert.True(t, ok)
	_, ok = findItem(items, "Phone: ")
	assert.True(t, ok)
	_, ok = findItem(items, "Website: ")
	assert.True(t, ok)
	_, ok = findItem(items, "Age/Sex: /")
	assert.True(t, ok)
}

func TestPrescriptionRenderer_Render(t *testing.T) {
	renderer, err := NewPrescriptionRenderer(config.DocumentConfig{TimeZone: "UTC", Compress: false})
	require.NoError(t, err)
	renderer.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }

	doc := sampleDocument()
	out, err := renderer.Render(doc.Prescription, doc.Doctor, doc.Hospital, doc.Patient)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	for _, text := range []string{"120/80", "170 cm", "Tab. Atorvastatin 10mg", "Tab. Aspirin 75mg", "Chest pain with mild discomfort.", "17-10-2026", "KEM"} {
		assert.True(t, bytes.Contains(out, []byte(text)), text)
	}

	again, err := renderer.Render(doc.Prescription, doc.Doctor, doc.Hospital, doc.Patient)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestPrescriptionRenderer_BadTimeZone(t *testing.T) {
	_, err := NewPrescriptionRenderer(config.DocumentConfig{TimeZone: "Mars/Olympus"})
	assert.Error(t, err)
}
