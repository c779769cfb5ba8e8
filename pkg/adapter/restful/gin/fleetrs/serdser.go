package fleetrs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/phoenix/pkg/core/model"
)

type rawLotReq struct {
	LotID int64 `uri:"lid" binding:"required,gt=0"`
}

func (rs *resource) DserLotID(c *gin.Context) (model.LotID, bool) {
	req := &rawLotReq{}
	if !serdser.Bind(c, req, binding.Uri) {
		return 0, false
	}
	return model.LotID(req.LotID), true
}

type pendingResp struct {
	Username   string           `json:"username"`
	Category   model.CategoryID `json:"category"`
	Coordinate model.Coordinate `json:"coordinate"`
	RadiusKm   float64          `json:"radius_km"`
	Arrival    uint64           `json:"arrival"`
	Since      time.Time        `json:"since"`
}

// SerPending converts the pending requests to their public form which
// lacks the session tokens.
func SerPending(pv []model.PendingView) []pendingResp {
	resp := make([]pendingResp, len(pv))
	for i, p := range pv {
		resp[i] = pendingResp{
			Username:   p.Username,
			Category:   p.Category,
			Coordinate: p.Coordinate,
			RadiusKm:   p.RadiusKm,
			Arrival:    p.Arrival,
			Since:      p.Since,
		}
	}
	return resp
}

type sessionResp struct {
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// SerSessions converts the sessions to their public form which lacks
// the session tokens.
func SerSessions(ss []model.Session) []sessionResp {
	resp := make([]sessionResp, len(ss))
	for i, s := range ss {
		resp[i] = sessionResp{Username: s.Username, IssuedAt: s.IssuedAt}
	}
	return resp
}

type statsResp struct {
	model.FleetStats
	Queued int `json:"queued_tasks"`
}

type locationResp struct {
	Kind     model.LocationKind `json:"kind"`
	Lot      model.LotID        `json:"lot,omitempty"`
	Username string             `json:"username,omitempty"`
}

type vehicleResp struct {
	Vehicle  *model.Vehicle `json:"vehicle"`
	Location locationResp   `json:"location"`
}

// SerVehicles converts the vehicles statuses to their public form,
// so the session token of an assigned vehicle holder is not exposed.
func SerVehicles(vs []model.VehicleStatus) []vehicleResp {
	resp := make([]vehicleResp, len(vs))
	for i, v := range vs {
		resp[i] = vehicleResp{
			Vehicle: v.Vehicle,
			Location: locationResp{
				Kind:     v.Location.Kind,
				Lot:      v.Location.Lot,
				Username: v.Location.Username,
			},
		}
	}
	return resp
}

type userResp struct {
	Username  string           `json:"username"`
	Email     string           `json:"email,omitempty"`
	Name      string           `json:"name"`
	Surname   string           `json:"surname"`
	Vehicle   *model.VehicleID `json:"vehicle,omitempty"`
	LastLogin *time.Time       `json:"last_login,omitempty"`
}

// SerUsers converts the users to their public form which lacks the
// password hashes and salts.
func SerUsers(us []*model.User) []userResp {
	resp := make([]userResp, len(us))
	for i, u := range us {
		resp[i] = userResp{
			Username:  u.Username,
			Email:     u.Email,
			Name:      u.Name,
			Surname:   u.Surname,
			Vehicle:   u.Vehicle,
			LastLogin: u.LastLogin,
		}
	}
	return resp
}
