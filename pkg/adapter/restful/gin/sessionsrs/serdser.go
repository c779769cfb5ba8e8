package sessionsrs

import "github.com/momeni/phoenix/pkg/core/usecase/authuc"

type loginReq struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

type registerReq struct {
	Username string `json:"username" binding:"required,printascii,max=64"`
	Password string `json:"password" binding:"required,min=4,max=128"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Name     string `json:"name" binding:"omitempty,max=64"`
	Surname  string `json:"surname" binding:"omitempty,max=64"`
}

func (req *registerReq) ToRegistration() authuc.Registration {
	return authuc.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Name:     req.Name,
		Surname:  req.Surname,
	}
}
