package searchesrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/momeni/phoenix/pkg/core/usecase/fleetuc"
)

// searchReq uses pointers for the coordinate, so a zero latitude or
// longitude is not taken as a missing value.
type searchReq struct {
	Category int64    `json:"category" binding:"required,gt=0"`
	Lat      *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lon      *float64 `json:"lon" binding:"required,min=-180,max=180"`
	RadiusKm float64  `json:"radius_km" binding:"required,gt=0"`
}

func (req *searchReq) ToQuery() fleetuc.SearchQuery {
	return fleetuc.SearchQuery{
		Category: model.CategoryID(req.Category),
		Coordinate: model.Coordinate{
			Lat: *req.Lat,
			Lon: *req.Lon,
		},
		RadiusKm: req.RadiusKm,
	}
}

type searchResp struct {
	Outcome  string          `json:"outcome"`
	Token    uuid.UUID       `json:"token"`
	Delivery *model.Delivery `json:"delivery,omitempty"`
}

type rawAwaitReq struct {
	Wait string `form:"wait"`
}

// DserAwaitReq parses the optional wait query param. An absent param
// asks for the default await timeout, while a negative one only peeks.
func (rs *resource) DserAwaitReq(c *gin.Context) (time.Duration, bool) {
	req := &rawAwaitReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return 0, false
	}
	if req.Wait == "" {
		return 0, true
	}
	wait, err := time.ParseDuration(req.Wait)
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "wait", "Query param wait is not a duration.")
		c.JSON(http.StatusBadRequest, errs)
		return 0, false
	}
	return wait, true
}

type returnReq struct {
	Lot     int64 `json:"lot" binding:"required,gt=0"`
	Vehicle int64 `json:"vehicle" binding:"required,gt=0"`
}

type returnResp struct {
	Outcome  string         `json:"outcome"`
	Delivery model.Delivery `json:"delivery"`
}
