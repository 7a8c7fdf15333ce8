package profile

// ProfileGetInput for GET /profile
type ProfileGetInput struct{}

// ProfileUpdateInput for PATCH /profile
type ProfileUpdateInput struct {
	Body struct {
		Name       *string `json:"name,omitempty"       minLength:"1" maxLength:"100" doc:"Display name"`
		Avatar     *string `json:"avatar,omitempty"     maxLength:"500" format:"uri" doc:"Avatar URL"`
		BloodGroup *string `json:"bloodGroup,omitempty" enum:"A+,A-,B+,B-,AB+,AB-,O+,O-" doc:"Blood group"`
		District   *string `json:"district,omitempty"   maxLength:"100" doc:"District"`
		Upazila    *string `json:"upazila,omitempty"    maxLength:"100" doc:"Upazila"`
	}
}
