package models

// Location is a selectable city
type Location struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// DroneProfile is a drone flight envelope compared against the current wind
type DroneProfile struct {
	Name       string  `json:"name" yaml:"name"`
	MaxWind    float64 `json:"max_wind" yaml:"max_wind"` // m/s
	FlightTime string  `json:"flight_time" yaml:"flight_time"`
}

// Catalog holds the fixed city and drone lists
type Catalog struct {
	Cities []Location     `json:"cities" yaml:"cities"`
	Drones []DroneProfile `json:"drones" yaml:"drones"`
}

// FindCity looks a city up by exact name
func (c *Catalog) FindCity(name string) (Location, bool) {
	for _, city := range c.Cities {
		if city.Name == name {
			return city, true
		}
	}
	return Location{}, false
}

// DefaultCatalog returns the built-in cities and drones.
func DefaultCatalog() Catalog {
	return Catalog{
		Cities: []Location{
			{Name: "Machala", Latitude: -3.2586, Longitude: -79.9605},
			{Name: "Guayaquil", Latitude: -2.1962, Longitude: -79.8862},
			{Name: "Quito", Latitude: -0.2298, Longitude: -78.525},
			{Name: "Cuenca", Latitude: -2.9005, Longitude: -79.0045},
		},
		Drones: []DroneProfile{
			{Name: "DJI Mini 3 Pro", MaxWind: 10.7, FlightTime: "38 min"},
			{Name: "DJI Air 3", MaxWind: 12, FlightTime: "46 min"},
			{Name: "DJI Mavic 3 Enterprise", MaxWind: 12, FlightTime: "45 min"},
			{Name: "DJI Matrice 350", MaxWind: 15, FlightTime: "55 min"},
			{Name: "DJI Neo", MaxWind: 8, FlightTime: "18 min"},
		},
	}
}
