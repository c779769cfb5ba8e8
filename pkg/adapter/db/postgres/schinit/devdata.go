// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schinit

type devLot struct {
	id       int64
	name     string
	address  string
	lat, lon float64
	capacity int
}

// devLots are spread in the 44.389825..44.415457 latitude and the
// 8.890324..9.010487 longitude ranges.
var devLots = []devLot{
	{1, "Principe", "Piazza Acquaverde", 44.41400, 8.92052, 6},
	{2, "Brignole", "Piazza Verdi", 44.40630, 8.94600, 6},
	{3, "Porto Antico", "Calata Mandraccio", 44.40950, 8.92650, 4},
	{4, "Foce", "Piazzale Kennedy", 44.39450, 8.95250, 8},
	{5, "Sampierdarena", "Via Cantore", 44.41200, 8.89400, 4},
	{6, "Albaro", "Via Albaro", 44.39800, 8.96800, 4},
	{7, "Sturla", "Via del Tritone", 44.39200, 9.00300, 3},
}

type devVehicle struct {
	name, color, plate string
	category           int64
	lot                *int64
}

func at(lot int64) *int64 {
	return &lot
}

var devVehicles = []devVehicle{
	{"Panda", "white", "GE001AA", 1, at(1)},
	{"Yaris", "red", "GE002AA", 1, at(1)},
	{"Tiguan", "black", "GE003AA", 2, at(1)},
	{"500", "yellow", "GE004AA", 1, at(2)},
	{"Kangoo", "white", "GE005AA", 3, at(2)},
	{"Clio", "blue", "GE006AA", 1, at(3)},
	{"Duster", "grey", "GE007AA", 2, at(4)},
	{"Transit", "white", "GE008AA", 3, at(4)},
	{"Polo", "silver", "GE009AA", 1, at(4)},
	{"Qashqai", "green", "GE010AA", 2, at(5)},
	{"Corsa", "red", "GE011AA", 1, at(6)},
	{"Ducato", "white", "GE012AA", 3, at(7)},
	{"Captur", "orange", "GE013AA", 2, nil},
}
