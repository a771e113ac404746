package converter

import (
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Doctor fields are only filled for doctors.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Role:      string(user.Role),
		Phone:     user.Phone,
		Age:       user.Age,
		Gender:    user.Gender,
		CreatedAt: user.CreatedAt,
	}

	if user.IsDoctor() {
		response.Degrees = user.Degrees
		response.Specialization = user.Specialization
		response.Experience = user.Experience
	}

	return response
}

func UserToDoctorResponse(user *entity.User) dto.DoctorResponse {
	return dto.DoctorResponse{
		ID:             user.ID,
		Name:           user.Name,
		Degrees:        user.Degrees,
		Specialization: user.Specialization,
		Experience:     user.Experience,
	}
}

func UsersToDoctorResponses(users []entity.User) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(users))
	for i := range users {
		responses[i] = UserToDoctorResponse(&users[i])
	}
	return responses
}

func HospitalProfileToResponse(profile *entity.HospitalProfile) *dto.HospitalProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.HospitalProfileResponse{
		DoctorID:     profile.DoctorID,
		HospitalName: profile.HospitalName,
		Address:      profile.Address,
		Phone:        profile.Phone,
		Website:      profile.Website,
	}
}
