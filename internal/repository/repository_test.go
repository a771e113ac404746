package repository

import (
	"sync"
	"testing"
	"time"

	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_FindMissingReturnsNil(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository()

	user, err := repo.FindByID(db, "0000Nob")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.FindByPhone(db, "9000000000")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_FindByRoleOrdersByName(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository()

	testutil.CreateUser(t, db, "Zara Khan", "9000000011", entity.RoleDoctor)
	testutil.CreateUser(t, db, "Amit Rao", "9000000012", entity.RoleDoctor)
	testutil.CreateUser(t, db, "Test Patient", "9999000002", entity.RolePatient)

	doctors, err := repo.FindByRole(db, entity.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Amit Rao", doctors[0].Name)
	assert.Equal(t, "Zara Khan", doctors[1].Name)

	byPhone, err := repo.FindByPhone(db, "9999000002")
	require.NoError(t, err)
	require.NotNil(t, byPhone)
	assert.Equal(t, "0002Tes", byPhone.ID)
}

func TestUserRepository_DuplicatePhoneFails(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository()

	testutil.CreateUser(t, db, "Test Patient", "9999000002", entity.RolePatient)
	err := repo.Create(db, &entity.User{ID: "0002Oth", Name: "Other", Phone: "9999000002", Role: entity.RolePatient, Password: "x"})
	assert.Error(t, err)
}

func TestHospitalProfileRepository_SaveCreatesThenUpdates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewHospitalProfileRepository()
	doctor := testutil.CreateUser(t, db, "Dr. Avdhoot Patil", "9999000001", entity.RoleDoctor)

	missing, err := repo.FindByDoctorID(db, doctor.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	profile := entity.NewHospitalProfile(doctor.ID)
	require.NoError(t, repo.Save(db, profile))
	assert.NotZero(t, profile.ID)

	address := "Shivaji Nagar, Pune"
	profile.HospitalName = "KEM"
	profile.Address = &address
	require.NoError(t, repo.Save(db, profile))

	found, err := repo.FindByDoctorID(db, doctor.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, profile.ID, found.ID)
	assert.Equal(t, "KEM", found.HospitalName)
	require.NotNil(t, found.Address)
	assert.Equal(t, address, *found.Address)
	assert.Nil(t, found.Website)
}

func TestHospitalProfileRepository_FindOrCreateForUpdateKeepsExistingRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewHospitalProfileRepository()

	created, err := repo.FindOrCreateForUpdate(db, "0001Avd")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, entity.DefaultHospitalName, created.HospitalName)

	created.HospitalName = "KEM"
	require.NoError(t, repo.Save(db, created))

	again, err := repo.FindOrCreateForUpdate(db, "0001Avd")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "KEM", again.HospitalName)

	var count int64
	require.NoError(t, db.Model(&entity.HospitalProfile{}).Where("doctor_id = ?", "0001Avd").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAppointmentRepository_QueueOrderAndAdvance(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	doctor := testutil.CreateUser(t, db, "Dr. Avdhoot Patil", "9999000001", entity.RoleDoctor)
	first := testutil.CreateUser(t, db, "Test Patient", "9999000002", entity.RolePatient)
	second := testutil.CreateUser(t, db, "Meera Joshi", "9999000003", entity.RolePatient)

	now := time.Now()
	a1 := &entity.Appointment{PatientID: first.ID, DoctorID: doctor.ID, Status: entity.AppointmentStatusWaiting, CreatedAt: now}
	a2 := &entity.Appointment{PatientID: second.ID, DoctorID: doctor.ID, Status: entity.AppointmentStatusWaiting, CreatedAt: now}
	require.NoError(t, repo.Create(db, a1))
	require.NoError(t, repo.Create(db, a2))

	oldest, err := repo.FindOldestWaiting(db)
	require.NoError(t, err)
	require.NotNil(t, oldest)
	assert.Equal(t, a1.ID, oldest.ID, "equal timestamps fall back to id order")

	waiting, err := repo.FindWaiting(db)
	require.NoError(t, err)
	require.Len(t, waiting, 2)
	require.NotNil(t, waiting[0].Patient)
	assert.Equal(t, "Test Patient", waiting[0].Patient.Name)

	moved, err := repo.AdvanceStatus(db, a1.ID, entity.AppointmentStatusWaiting, entity.AppointmentStatusInConsultation)
	require.NoError(t, err)
	assert.EqualValues(t, 1, moved)

	again, err := repo.AdvanceStatus(db, a1.ID, entity.AppointmentStatusWaiting, entity.AppointmentStatusInConsultation)
	require.NoError(t, err)
	assert.EqualValues(t, 0, again)

	skip, err := repo.AdvanceStatus(db, a2.ID, entity.AppointmentStatusWaiting, entity.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 0, skip)

	current, err := repo.FindInConsultationByDoctor(db, doctor.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, a1.ID, current.ID)
	require.NotNil(t, current.Patient)
	assert.Equal(t, first.ID, current.Patient.ID)

	oldest, err = repo.FindOldestWaiting(db)
	require.NoError(t, err)
	require.NotNil(t, oldest)
	assert.Equal(t, a2.ID, oldest.ID)
}

func TestAppointmentRepository_ConcurrentAdvanceOnlyOneWins(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	doctor := testutil.CreateUser(t, db, "Dr. Avdhoot Patil", "9999000001", entity.RoleDoctor)
	patient := testutil.CreateUser(t, db, "Test Patient", "9999000002", entity.RolePatient)

	appt := &entity.Appointment{PatientID: patient.ID, DoctorID: doctor.ID, Status: entity.AppointmentStatusWaiting}
	require.NoError(t, repo.Create(db, appt))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int64
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = db.Transaction(func(tx *gorm.DB) error {
				n, err := repo.AdvanceStatus(tx, appt.ID, entity.AppointmentStatusWaiting, entity.AppointmentStatusInConsultation)
				if err != nil {
					return err
				}
				mu.Lock()
				total += n
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, total)
}

func TestAppointmentRepository_MaxTicketNumberSince(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()

	max, err := repo.MaxTicketNumberSince(db, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	for _, n := range []int{3, 7, 5} {
		ticket := n
		require.NoError(t, repo.Create(db, &entity.Appointment{
			PatientID:    "0002Tes",
			DoctorID:     "0001Avd",
			Status:       entity.AppointmentStatusWaiting,
			TicketNumber: &ticket,
		}))
	}

	max, err = repo.MaxTicketNumberSince(db, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 7, max)

	max, err = repo.MaxTicketNumberSince(db, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, max)
}

func TestMedicalHistoryRepository_ListsOwnEntriesOldestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMedicalHistoryRepository()

	require.NoError(t, repo.Create(db, &entity.MedicalHistory{PatientID: "0002Tes", Note: "Diabetic since 2015"}))
	require.NoError(t, repo.Create(db, &entity.MedicalHistory{PatientID: "0003Mee", Note: "Asthma"}))
	require.NoError(t, repo.Create(db, &entity.MedicalHistory{PatientID: "0002Tes", Note: "Penicillin allergy"}))

	histories, err := repo.FindByPatientID(db, "0002Tes")
	require.NoError(t, err)
	require.Len(t, histories, 2)
	assert.Equal(t, "Diabetic since 2015", histories[0].Note)
	assert.Equal(t, "Penicillin allergy", histories[1].Note)

	found, err := repo.FindByID(db, histories[1].ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "0002Tes", found.PatientID)

	missing, err := repo.FindByID(db, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPrescriptionRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPrescriptionRepository()

	p := &entity.Prescription{
		DoctorID:  "0001Avd",
		PatientID: "0002Tes",
		Diagnosis: "Chest pain with mild discomfort.",
		Vitals:    entity.Vitals{{Name: "BP", Value: "120/80"}, {Name: "Height", Value: "170 cm"}},
		Medicines: entity.Medicines{
			{Name: "Tab. Atorvastatin 10mg", Dosage: "1-0-0", Frequency: "After breakfast", Duration: "30 days"},
		},
	}
	require.NoError(t, repo.Create(db, p))
	require.NotZero(t, p.ID)

	found, err := repo.FindByID(db, p.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.Vitals, found.Vitals)
	assert.Equal(t, p.Medicines, found.Medicines)

	list, err := repo.FindByPatientID(db, "0002Tes")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	missing, err := repo.FindByID(db, p.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPrescriptionRepository_RejectsInvalidMedicine(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPrescriptionRepository()

	err := repo.Create(db, &entity.Prescription{
		DoctorID:  "0001Avd",
		PatientID: "0002Tes",
		Medicines: entity.Medicines{{Name: "Tab. Aspirin 75mg"}},
	})
	assert.ErrorIs(t, err, entity.ErrInvalidMedicine)

	var count int64
	require.NoError(t, db.Model(&entity.Prescription{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuditLogRepository_FindByAction(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuditLogRepository()

	uid := "0002Tes"
	require.NoError(t, repo.Create(db, &entity.AuditLog{UserID: &uid, Action: entity.AuditActionUserLogin, Metadata: entity.JSON{"role": "patient"}}))
	require.NoError(t, repo.Create(db, &entity.AuditLog{UserID: &uid, Action: entity.AuditActionUserLogout}))

	logs, err := repo.FindByAction(db, entity.AuditActionUserLogin)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "patient", logs[0].Metadata["role"])
}
