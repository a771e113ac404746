package dto

// DoctorResponse is one entry of the doctor directory patients pick from at check-in
type DoctorResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Degrees        *string `json:"degrees"`
	Specialization *string `json:"specialization"`
	Experience     *int    `json:"experience"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

// CurrentPatientResponse is the patient a doctor is consulting
type CurrentPatientResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Age           *int    `json:"age"`
	Gender        *string `json:"gender"`
	AppointmentID int64   `json:"appointment_id"`
}

type UpdateHospitalRequest struct {
	HospitalName *string `json:"hospital_name" validate:"omitempty,min=1,max=200"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
	Website      *string `json:"website" validate:"omitempty,max=200"`
}

type HospitalProfileResponse struct {
	DoctorID     string  `json:"doctor_id"`
	HospitalName string  `json:"hospital_name"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Website      *string `json:"website"`
}
