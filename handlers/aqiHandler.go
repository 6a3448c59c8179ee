package handlers

import (
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
)

type aqiPlace struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Address     string   `json:"address"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	AQI         int      `json:"aqi"`
	AQICategory string   `json:"aqi_category"`
	PM25        int      `json:"pm25"`
	PM10        int      `json:"pm10"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
}

// Known Malaysian locations with good air quality, used to estimate AQI for
// arbitrary coordinates by nearest neighbor.
var aqiPlaces = []aqiPlace{
	{1, "Taman Tasik Titiwangsa", "park", "Titiwangsa, Kuala Lumpur", 3.1725, 101.7008, 25, "Good", 12, 18, "Large urban park with lake, excellent for morning exercise", []string{"Parking", "Restrooms", "Walking Paths", "Lake"}},
	{2, "KLCC Park", "park", "Kuala Lumpur City Centre, KL", 3.1578, 101.7120, 28, "Good", 14, 20, "Beautiful park in the heart of KL with fountains and gardens", []string{"Parking", "Restrooms", "Children Playground", "Fountains"}},
	{3, "Perdana Botanical Gardens", "park", "Jalan Perdana, Kuala Lumpur", 3.1478, 101.6886, 22, "Good", 10, 16, "Extensive botanical gardens with diverse plant collections", []string{"Parking", "Restrooms", "Café", "Museum"}},
	{4, "Batu Caves", "outdoor", "Gombak, Selangor", 3.2373, 101.6839, 30, "Good", 15, 22, "Limestone hill with caves and temple, elevated location with good air", []string{"Parking", "Restrooms", "Temple", "Cave Tours"}},
	{5, "Taman Botani Negara Shah Alam", "park", "Shah Alam, Selangor", 3.0833, 101.5167, 20, "Good", 9, 15, "National botanical garden with extensive green spaces", []string{"Parking", "Restrooms", "Walking Trails", "Picnic Areas"}},
	{6, "Penang National Park", "park", "Teluk Bahang, Penang", 5.4667, 100.2000, 18, "Good", 8, 14, "Coastal national park with beaches and forest trails", []string{"Parking", "Restrooms", "Beach Access", "Hiking Trails"}},
	{7, "Desaru Beach", "beach", "Desaru, Johor", 1.5667, 104.1333, 24, "Good", 11, 18, "Beautiful beach with fresh sea air and clean environment", []string{"Parking", "Restrooms", "Beach Access", "Resorts"}},
	{8, "Cameron Highlands", "mountain", "Cameron Highlands, Pahang", 4.4833, 101.3833, 15, "Good", 6, 12, "Highland area with excellent air quality and cool climate", []string{"Parking", "Restaurants", "Tea Plantations", "Hiking"}},
	{9, "Taman Negara", "forest", "Kuala Tahan, Pahang", 4.7000, 102.4333, 12, "Good", 5, 10, "Ancient rainforest with pristine air quality", []string{"Parking", "Accommodation", "Jungle Trails", "River Activities"}},
	{10, "Putrajaya Wetlands", "park", "Putrajaya", 2.9333, 101.6833, 26, "Good", 13, 19, "Man-made wetlands with diverse birdlife and clean air", []string{"Parking", "Restrooms", "Bird Watching", "Cycling Paths"}},
}

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// GetAQI estimates air quality for a coordinate from the nearest known
// place. Responses are cached by the redis response middleware.
func GetAQI(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude and longitude are required"})
		return
	}

	nearest := aqiPlaces[0]
	minDistance := haversineKm(lat, lng, nearest.Lat, nearest.Lng)
	for _, place := range aqiPlaces[1:] {
		if d := haversineKm(lat, lng, place.Lat, place.Lng); d < minDistance {
			minDistance = d
			nearest = place
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"aqi":           nearest.AQI,
		"category":      nearest.AQICategory,
		"pm25":          nearest.PM25,
		"pm10":          nearest.PM10,
		"nearest_place": nearest,
		"distance_km":   math.Round(minDistance*10) / 10,
	})
}

// GetAQIPlaces lists the known clean-air places, optionally sorted by
// distance from the caller's coordinates.
func GetAQIPlaces(c *gin.Context) {
	places := make([]aqiPlace, len(aqiPlaces))
	copy(places, aqiPlaces)

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr == nil && lngErr == nil {
		type placeWithDistance struct {
			aqiPlace
			DistanceKm float64 `json:"distance_km"`
		}
		result := make([]placeWithDistance, 0, len(places))
		for _, p := range places {
			result = append(result, placeWithDistance{
				aqiPlace:   p,
				DistanceKm: math.Round(haversineKm(lat, lng, p.Lat, p.Lng)*10) / 10,
			})
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].DistanceKm < result[j].DistanceKm
		})
		c.JSON(http.StatusOK, gin.H{"count": len(result), "places": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(places), "places": places})
}
