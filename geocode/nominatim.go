package geocode

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"postgram/config"
	"postgram/db"
	"postgram/models"
	"strconv"
	"sync"
	"time"
)

var (
	client      = http.Client{Timeout: time.Duration(config.GEOCODE_TIMEOUT_SECONDS) * time.Second}
	requestMu   sync.Mutex
	lastRequest = time.Now().Add(-10 * time.Second)
)

const throttling = 3 * time.Second

// Nominatim returns coordinates as strings
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type nominatimReverse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func doRequest(requestURL string, result interface{}) error {
	// Nominatim's usage policy asks for throttling, so requests
	// are serialized and spaced out under a single lock.
	requestMu.Lock()
	defer requestMu.Unlock()
	if time.Since(lastRequest) < throttling {
		time.Sleep(throttling - time.Since(lastRequest))
	}
	lastRequest = time.Now()

	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("accept-language", "en")
	req.Header.Set("user-agent", "postgram")
	resp, err := client.Do(req)
	if err != nil {
		log.Println("Failed request to:", requestURL, err)
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(result)
}

// Forward resolves a free-text location to coordinates.
// found is false when the service knows no such place.
func Forward(query string) (lat, long float64, found bool, err error) {
	requestURL := fmt.Sprintf("%s/search?format=json&limit=1&q=%s",
		config.NOMINATIM_URL, url.QueryEscape(query))
	places := []nominatimPlace{}
	if err = doRequest(requestURL, &places); err != nil {
		return 0, 0, false, err
	}
	if len(places) == 0 {
		return 0, 0, false, nil
	}
	lat, err = strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return 0, 0, false, err
	}
	long, err = strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return 0, 0, false, err
	}
	return lat, long, true, nil
}

// Reverse resolves coordinates to a display address.
// Answers come from the locations cache table when possible.
func Reverse(lat, long float64) (string, error) {
	location := models.Location{
		GpsLat:  models.RoundGpsCoord(lat),
		GpsLong: models.RoundGpsCoord(long),
	}
	// Zero is a valid rounded coordinate (equator, prime meridian),
	// so the lookup cannot use a struct condition.
	db.Instance.Limit(1).Find(&location, "gps_lat = ? AND gps_long = ?", location.GpsLat, location.GpsLong)
	if location.Display != "" {
		return location.Display, nil
	}
	requestURL := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f",
		config.NOMINATIM_URL, lat, long)
	result := nominatimReverse{}
	if err := doRequest(requestURL, &result); err != nil {
		return "", err
	}
	if result.Error != "" || result.DisplayName == "" {
		return "", fmt.Errorf("no address for %f, %f", lat, long)
	}
	location.Display = result.DisplayName
	if err := db.Instance.Create(&location).Error; err != nil {
		log.Printf("Couldn't cache location: %v", err)
	}
	return result.DisplayName, nil
}
