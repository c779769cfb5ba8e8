package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	origin := model.Coordinate{Lat: 0, Lon: 0}
	d := origin.DistanceKm(model.Coordinate{Lat: 0, Lon: 0.001})
	assert.InDelta(t, 0.1112, d, 0.001)
	assert.Zero(t, origin.DistanceKm(origin))

	genoa := model.Coordinate{Lat: 44.4056, Lon: 8.9463}
	milan := model.Coordinate{Lat: 45.4642, Lon: 9.1900}
	assert.InDelta(t, 119.5, genoa.DistanceKm(milan), 2.0)
}

func TestCoordinateValidate(t *testing.T) {
	assert.NoError(t, model.Coordinate{Lat: 44.4, Lon: 8.9}.Validate())
	assert.Error(t, model.Coordinate{Lat: 91}.Validate())
	assert.Error(t, model.Coordinate{Lon: -181}.Validate())
}

func TestLotCoversIsStrict(t *testing.T) {
	lot := &model.GeoLot{ID: 1, Coordinate: model.Coordinate{}}
	c := model.Coordinate{Lat: 0, Lon: 0.001}
	d := lot.Coordinate.DistanceKm(c)
	assert.True(t, lot.Covers(c, 1.0))
	assert.False(t, lot.Covers(c, d), "a lot exactly at radius is out of range")
	assert.False(t, lot.Covers(model.Coordinate{Lat: 50, Lon: 50}, 0.1))
}

func TestLotTakePutKeepsOrder(t *testing.T) {
	lot := &model.GeoLot{ID: 7}
	v1 := &model.Vehicle{ID: 1, Plate: "AA000AA"}
	v2 := &model.Vehicle{ID: 2, Plate: "BB111BB"}
	v3 := &model.Vehicle{ID: 3, Plate: "CC222CC"}
	lot.Put(v1)
	lot.Put(v2)
	lot.Put(v3)
	lot.Put(&model.Vehicle{ID: 9, Plate: "BB111BB"}) // same plate
	require.Equal(t, 3, lot.Len())

	v, idx, ok := lot.Take(2)
	require.True(t, ok)
	assert.Same(t, v2, v)
	assert.Equal(t, 1, idx)
	assert.False(t, lot.Contains("BB111BB"))
	_, _, ok = lot.Take(2)
	assert.False(t, ok)

	lot.PutAt(idx, v)
	assert.Equal(t, []*model.Vehicle{v1, v2, v3}, lot.Vehicles())
}

func TestVehicleEqualByPlate(t *testing.T) {
	a := &model.Vehicle{ID: 1, Plate: "AB123CD"}
	b := &model.Vehicle{ID: 2, Plate: "AB123CD"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(&model.Vehicle{Plate: "ZZ999ZZ"}))
	assert.False(t, a.Equal(nil))
}

func TestLocationKind(t *testing.T) {
	for _, k := range []model.LocationKind{
		model.LocationAtLot, model.LocationAssigned, model.LocationInTransit,
	} {
		require.NoError(t, k.Validate())
		p, err := model.ParseLocationKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, p)
	}
	_, err := model.ParseLocationKind("parked")
	assert.ErrorIs(t, err, model.ErrUnknownLocationKind)
	assert.Error(t, model.LocationInvalid.Validate())

	tok := uuid.New()
	l := model.AssignedTo(tok, "alice")
	assert.Equal(t, model.LocationAssigned, l.Kind)
	assert.Equal(t, "assigned(alice)", l.String())
	assert.Equal(t, "at-lot(3)", model.AtLot(3).String())
}
