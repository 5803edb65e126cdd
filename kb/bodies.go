package kb

import "github.com/signalsfoundry/orrery/model"

// solarSystem holds the preloaded facts. Elements follow the JPL
// approximate mean elements valid 1800-2050.
func solarSystem() []BodyFacts {
	return []BodyFacts{
		{
			ID:               model.Sun,
			DayLengthHours:   609.12,
			Gravity:          274.0,
			MeanTemperatureC: 5505,
			Atmosphere:       "Photosphere plasma, hydrogen and helium",
			Composition:      "G2V main-sequence star, 73% hydrogen, 25% helium",
		},
		{
			ID:               model.Mercury,
			RingRadius:       110,
			DayLengthHours:   4222.6,
			YearLengthDays:   87.969,
			Gravity:          3.7,
			MeanTemperatureC: 167,
			Atmosphere:       "Trace exosphere of oxygen, sodium, hydrogen, helium",
			Composition:      "Rocky, oversized iron core",
			Elements: &Elements{
				SemiMajorAxis: 0.38709927, SemiMajorAxisRate: 0.00000037,
				Eccentricity: 0.20563593, EccentricityRate: 0.00001906,
				Inclination: 7.00497902, InclinationRate: -0.00594749,
				MeanLongitude: 252.25032350, MeanLongitudeRate: 149472.67411175,
				PerihelionLong: 77.45779628, PerihelionRate: 0.16047689,
				AscendingNode: 48.33076593, AscendingNodeRate: -0.12534081,
			},
		},
		{
			ID:               model.Venus,
			RingRadius:       170,
			DayLengthHours:   2802.0,
			YearLengthDays:   224.701,
			Gravity:          8.87,
			MeanTemperatureC: 464,
			Atmosphere:       "Carbon dioxide 96.5%, nitrogen 3.5%",
			Composition:      "Rocky, basaltic crust under sulphuric clouds",
			Elements: &Elements{
				SemiMajorAxis: 0.72333566, SemiMajorAxisRate: 0.00000390,
				Eccentricity: 0.00677672, EccentricityRate: -0.00004107,
				Inclination: 3.39467605, InclinationRate: -0.00078890,
				MeanLongitude: 181.97909950, MeanLongitudeRate: 58517.81538729,
				PerihelionLong: 131.60246718, PerihelionRate: 0.00268329,
				AscendingNode: 76.67984255, AscendingNodeRate: -0.27769418,
			},
		},
		{
			ID:               model.Earth,
			RingRadius:       230,
			DayLengthHours:   24.0,
			YearLengthDays:   365.256,
			Gravity:          9.81,
			MeanTemperatureC: 15,
			Moons:            1,
			Atmosphere:       "Nitrogen 78%, oxygen 21%, argon 0.9%",
			Composition:      "Rocky, iron-nickel core, liquid water oceans",
			Elements: &Elements{
				SemiMajorAxis: 1.00000261, SemiMajorAxisRate: 0.00000562,
				Eccentricity: 0.01671123, EccentricityRate: -0.00004392,
				Inclination: -0.00001531, InclinationRate: -0.01294668,
				MeanLongitude: 100.46457166, MeanLongitudeRate: 35999.37244981,
				PerihelionLong: 102.93768193, PerihelionRate: 0.32327364,
			},
		},
		{
			ID:               model.Mars,
			RingRadius:       290,
			DayLengthHours:   24.66,
			YearLengthDays:   686.98,
			Gravity:          3.71,
			MeanTemperatureC: -65,
			Moons:            2,
			Atmosphere:       "Carbon dioxide 95%, nitrogen 2.8%, argon 2%",
			Composition:      "Rocky, iron oxide regolith",
			Elements: &Elements{
				SemiMajorAxis: 1.52371034, SemiMajorAxisRate: 0.00001847,
				Eccentricity: 0.09339410, EccentricityRate: 0.00007882,
				Inclination: 1.84969142, InclinationRate: -0.00813131,
				MeanLongitude: -4.55343205, MeanLongitudeRate: 19140.30268499,
				PerihelionLong: -23.94362959, PerihelionRate: 0.44441088,
				AscendingNode: 49.55953891, AscendingNodeRate: -0.29257343,
			},
		},
		{
			ID:               model.Jupiter,
			RingRadius:       400,
			DayLengthHours:   9.93,
			YearLengthDays:   4332.59,
			Gravity:          24.79,
			MeanTemperatureC: -110,
			Moons:            95,
			Atmosphere:       "Hydrogen 90%, helium 10%",
			Composition:      "Gas giant, metallic hydrogen mantle",
			Elements: &Elements{
				SemiMajorAxis: 5.20288700, SemiMajorAxisRate: -0.00011607,
				Eccentricity: 0.04838624, EccentricityRate: -0.00013253,
				Inclination: 1.30439695, InclinationRate: -0.00183714,
				MeanLongitude: 34.39644051, MeanLongitudeRate: 3034.74612775,
				PerihelionLong: 14.72847983, PerihelionRate: 0.21252668,
				AscendingNode: 100.47390909, AscendingNodeRate: 0.20469106,
			},
		},
		{
			ID:               model.Saturn,
			RingRadius:       500,
			DayLengthHours:   10.7,
			YearLengthDays:   10759.22,
			Gravity:          10.44,
			MeanTemperatureC: -140,
			Moons:            146,
			Atmosphere:       "Hydrogen 96%, helium 3%",
			Composition:      "Gas giant, icy ring system",
			Elements: &Elements{
				SemiMajorAxis: 9.53667594, SemiMajorAxisRate: -0.00125060,
				Eccentricity: 0.05386179, EccentricityRate: -0.00050991,
				Inclination: 2.48599187, InclinationRate: 0.00193609,
				MeanLongitude: 49.95424423, MeanLongitudeRate: 1222.49362201,
				PerihelionLong: 92.59887831, PerihelionRate: -0.41897216,
				AscendingNode: 113.66242448, AscendingNodeRate: -0.28867794,
			},
		},
		{
			ID:               model.Uranus,
			RingRadius:       600,
			DayLengthHours:   17.2,
			YearLengthDays:   30688.5,
			Gravity:          8.87,
			MeanTemperatureC: -195,
			Moons:            28,
			Atmosphere:       "Hydrogen 83%, helium 15%, methane 2%",
			Composition:      "Ice giant, water-ammonia-methane mantle",
			Elements: &Elements{
				SemiMajorAxis: 19.18916464, SemiMajorAxisRate: -0.00196176,
				Eccentricity: 0.04725744, EccentricityRate: -0.00004397,
				Inclination: 0.77263783, InclinationRate: -0.00242939,
				MeanLongitude: 313.23810451, MeanLongitudeRate: 428.48202785,
				PerihelionLong: 170.95427630, PerihelionRate: 0.40805281,
				AscendingNode: 74.01692503, AscendingNodeRate: 0.04240589,
			},
		},
		{
			ID:               model.Neptune,
			RingRadius:       700,
			DayLengthHours:   16.1,
			YearLengthDays:   60182,
			Gravity:          11.15,
			MeanTemperatureC: -200,
			Moons:            16,
			Atmosphere:       "Hydrogen 80%, helium 19%, methane 1.5%",
			Composition:      "Ice giant, water-ammonia-methane mantle",
			Elements: &Elements{
				SemiMajorAxis: 30.06992276, SemiMajorAxisRate: 0.00026291,
				Eccentricity: 0.00859048, EccentricityRate: 0.00005105,
				Inclination: 1.77004347, InclinationRate: 0.00035372,
				MeanLongitude: -55.12002969, MeanLongitudeRate: 218.45945325,
				PerihelionLong: 44.96476227, PerihelionRate: -0.32241464,
				AscendingNode: 131.78422574, AscendingNodeRate: -0.00508664,
			},
		},
	}
}
