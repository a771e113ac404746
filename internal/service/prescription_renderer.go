package service

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hospital-frontdesk/config"
	"hospital-frontdesk/internal/domain/entity"

	"github.com/go-pdf/fpdf"
)

// Page geometry in centimetres, A4 portrait, origin top-left
const (
	pageWidth   = 21.0
	pageHeight  = 29.7
	leftMargin  = 2.0
	rightMargin = pageWidth - 2.0
	indent      = 2.5
)

const (
	disclaimerLine1 = "NOTE: This prescription is generated for the mentioned patient only."
	disclaimerLine2 = "Consult your doctor before taking any medication."
	signatureLabel  = "Doctor's Signature"
)

// TextItem is one string placed on the page. Y is the baseline measured from the top.
type TextItem struct {
	X          float64
	Y          float64
	Text       string
	Bold       bool
	Size       float64
	AlignRight bool
}

// PrescriptionDocument is everything printed on a prescription
type PrescriptionDocument struct {
	Prescription *entity.Prescription
	Doctor       *entity.User
	Hospital     *entity.HospitalProfile
	Patient      *entity.User
	Date         time.Time
}

// LayoutPrescription positions every string of the printed prescription.
// Vitals and medicines advance the cursor by fixed steps; long lists run off
// the page rather than paginate.
func LayoutPrescription(doc PrescriptionDocument) []TextItem {
	var items []TextItem
	add := func(x, y float64, text string, bold bool, size float64) {
		items = append(items, TextItem{X: x, Y: y, Text: text, Bold: bold, Size: size})
	}
	addRight := func(y float64, text string, bold bool, size float64) {
		items = append(items, TextItem{X: rightMargin, Y: y, Text: text, Bold: bold, Size: size, AlignRight: true})
	}

	hospital := doc.Hospital
	if hospital == nil {
		hospital = &entity.HospitalProfile{HospitalName: entity.DefaultHospitalName}
	}
	doctor := doc.Doctor
	if doctor == nil {
		doctor = &entity.User{}
	}
	patient := doc.Patient
	if patient == nil {
		patient = &entity.User{}
	}
	rx := doc.Prescription
	if rx == nil {
		rx = &entity.Prescription{}
	}

	// header
	add(leftMargin, 2.0, strings.ToUpper(hospital.HospitalName), true, 24)
	add(leftMargin, 2.7, deref(hospital.Address), false, 10)
	add(leftMargin, 3.3, "Phone: "+deref(hospital.Phone), false, 10)
	add(leftMargin, 3.9, "Website: "+deref(hospital.Website), false, 10)

	// doctor
	addRight(2.5, doctor.Name, true, 12)
	addRight(3.1, deref(doctor.Degrees), false, 9)
	addRight(3.7, deref(doctor.Specialization), false, 9)

	// patient row
	y := 5.2
	add(leftMargin, y, "Patient: "+patient.Name, true, 10)
	add(8.0, y, fmt.Sprintf("Age/Sex: %s/%s", derefInt(patient.Age), deref(patient.Gender)), true, 10)
	add(13.0, y, "Date: "+doc.Date.Format("02-01-2006"), true, 10)
	y += 0.7
	add(leftMargin, y, "Phone: "+patient.Phone, false, 10)

	// vitals
	y += 1.2
	add(leftMargin, y, "Vitals:", true, 11)
	y += 0.7
	for _, vital := range rx.Vitals {
		add(indent, y, vital.Name+": "+vital.Value, false, 10)
		y += 0.5
	}

	// diagnosis
	y += 1.0
	add(leftMargin, y, "Diagnosis:", true, 11)
	y += 0.7
	add(indent, y, rx.Diagnosis, false, 10)

	// medicines
	y += 1.4
	add(leftMargin, y, "Rx", true, 11)
	y += 1.0
	add(2.0, y, "No.", true, 10)
	add(3.0, y, "Medicine", true, 10)
	add(9.0, y, "Dosage", true, 10)
	add(12.0, y, "Timing", true, 10)
	add(16.0, y, "Duration", true, 10)
	y += 0.9
	for i, med := range rx.Medicines {
		add(2.0, y, strconv.Itoa(i+1), false, 10)
		add(3.0, y, med.Name, false, 10)
		add(9.0, y, med.Dosage, false, 10)
		add(12.0, y, med.Frequency, false, 10)
		add(16.0, y, med.Duration, false, 10)
		y += 0.7
	}

	// footer sits at fixed positions regardless of the cursor
	addRight(pageHeight-3.0, signatureLabel, true, 11)
	add(leftMargin, pageHeight-2.2, disclaimerLine1, false, 8)
	add(leftMargin, pageHeight-1.7, disclaimerLine2, false, 8)

	return items
}

// PrescriptionRenderer draws prescriptions as A4 PDFs
type PrescriptionRenderer struct {
	compress bool
	location *time.Location
	now      func() time.Time
}

func NewPrescriptionRenderer(cfg config.DocumentConfig) (*PrescriptionRenderer, error) {
	location := time.UTC
	if cfg.TimeZone != "" {
		loc, err := time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("load document timezone %q: %w", cfg.TimeZone, err)
		}
		location = loc
	}
	return &PrescriptionRenderer{
		compress: cfg.Compress,
		location: location,
		now:      time.Now,
	}, nil
}

// Location is the zone used for the printed date
func (r *PrescriptionRenderer) Location() *time.Location {
	return r.location
}

// Render produces the PDF bytes, dated with the rendering day
func (r *PrescriptionRenderer) Render(prescription *entity.Prescription, doctor *entity.User, hospital *entity.HospitalProfile, patient *entity.User) ([]byte, error) {
	if prescription == nil {
		return nil, errors.New("render: nil prescription")
	}
	now := r.now().In(r.location)
	items := LayoutPrescription(PrescriptionDocument{
		Prescription: prescription,
		Doctor:       doctor,
		Hospital:     hospital,
		Patient:      patient,
		Date:         now,
	})

	pdf := fpdf.New("P", "cm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(now)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(fmt.Sprintf("Prescription %d", prescription.ID), true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, item := range items {
		style := ""
		if item.Bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, item.Size)

		text := tr(item.Text)
		x := item.X
		if item.AlignRight {
			x -= pdf.GetStringWidth(text)
		}
		pdf.Text(x, item.Y, text)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render prescription %d: %w", prescription.ID, err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
