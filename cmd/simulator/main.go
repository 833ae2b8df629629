package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Vehicle mirrors the dashboard's vehicle creation payload.
type Vehicle struct {
	Type            string   `json:"type"`
	Make            string   `json:"make"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	LicensePlate    string   `json:"license_plate"`
	VIN             string   `json:"vin"`
	CurrentLocation Location `json:"current_location,omitempty"`
	Status          string   `json:"status"`
}

// Driver mirrors the dashboard's driver creation payload.
type Driver struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	LicenseNumber string `json:"license_number"`
	Status        string `json:"status"`
}

// Trip mirrors the dashboard's trip payload.
type Trip struct {
	VehicleID     string    `json:"vehicle_id"`
	DriverID      string    `json:"driver_id"`
	StartLocation Location  `json:"start_location"`
	EndLocation   Location  `json:"end_location"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time,omitempty"`
	Distance      float64   `json:"distance"`
	Duration      float64   `json:"duration"`
	Purpose       string    `json:"purpose"`
	Status        string    `json:"status"`
}

// Telemetry is one simulated reading.
type Telemetry struct {
	VehicleID    string    `json:"vehicle_id"`
	TripID       string    `json:"trip_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Location     Location  `json:"location"`
	Speed        float64   `json:"speed"`
	FuelLevel    float64   `json:"fuel_level,omitempty"`
	BatteryLevel float64   `json:"battery_level,omitempty"`
	Emissions    float64   `json:"emissions"`
}

// Cities for realistic routes
var cities = []Location{
	{Lat: 51.5074, Lon: -0.1278},   // London
	{Lat: 40.7128, Lon: -74.0060},  // New York
	{Lat: 40.4168, Lon: -3.7038},   // Madrid
	{Lat: 48.8566, Lon: 2.3522},    // Paris
	{Lat: 41.0082, Lon: 28.9784},   // Istanbul
	{Lat: 51.4816, Lon: -3.1791},   // Cardiff
	{Lat: 34.0522, Lon: -118.2437}, // Los Angeles
	{Lat: 52.5200, Lon: 13.4050},   // Berlin
	{Lat: 35.6762, Lon: 139.6503},  // Tokyo
	{Lat: 1.3521, Lon: 103.8198},   // Singapore
	{Lat: 43.6532, Lon: -79.3832},  // Toronto
	{Lat: 25.2048, Lon: 55.2708},   // Dubai
}

func jitterLocation(base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lonMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rand.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return Location{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}

func randomLocation() Location {
	base := cities[rand.Intn(len(cities))]
	return jitterLocation(base, 500) // start close to roads
}

func randomPlate() string {
	letters := "ABCDEFGHJKLMNPRSTUVWXYZ"
	plate := make([]byte, 7)
	for i := 0; i < 2; i++ {
		plate[i] = letters[rand.Intn(len(letters))]
	}
	plate[2] = byte('0' + rand.Intn(10))
	plate[3] = byte('0' + rand.Intn(10))
	for i := 4; i < 7; i++ {
		plate[i] = letters[rand.Intn(len(letters))]
	}
	return string(plate[:4]) + " " + string(plate[4:])
}

func randomVIN() string {
	chars := "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"
	vin := make([]byte, 17)
	for i := range vin {
		vin[i] = chars[rand.Intn(len(chars))]
	}
	return string(vin)
}

var authToken string

func authorizedPost(url string, body *bytes.Buffer) (*http.Response, error) {
	return authorizedRequest(http.MethodPost, url, body)
}

func authorizedRequest(method, url string, body *bytes.Buffer) (*http.Response, error) {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func createResource(url string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	resp, err := authorizedPost(url, bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("creation failed with status: %d", resp.StatusCode)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	id, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("no ID in response")
	}
	return id, nil
}

func createVehicle(apiURL, vtype string) (string, error) {
	makes := map[string][]string{
		"ICE": {"Ford", "Chevrolet", "Toyota", "Honda", "BMW"},
		"EV":  {"Tesla", "Nissan", "Chevrolet", "Ford", "Audi"},
	}
	vehicleModels := map[string][]string{
		"ICE": {"F-150", "Silverado", "Camry", "Civic", "X5"},
		"EV":  {"Model 3", "Leaf", "Bolt", "Mach-E", "e-tron"},
	}

	vehicle := Vehicle{
		Type:            vtype,
		Make:            makes[vtype][rand.Intn(len(makes[vtype]))],
		Model:           vehicleModels[vtype][rand.Intn(len(vehicleModels[vtype]))],
		Year:            2020 + rand.Intn(5),
		LicensePlate:    randomPlate(),
		VIN:             randomVIN(),
		CurrentLocation: randomLocation(),
		Status:          "active",
	}

	id, err := createResource(apiURL+"/vehicles", vehicle)
	if err != nil {
		return "", fmt.Errorf("failed to create vehicle: %w", err)
	}
	log.WithFields(log.Fields{
		"vehicle_id": id,
		"type":       vtype,
		"make":       vehicle.Make,
		"model":      vehicle.Model,
	}).Info("Created vehicle")
	return id, nil
}

func createDriver(apiURL string) (string, error) {
	firstNames := []string{"Alex", "Sam", "Jordan", "Casey", "Morgan", "Riley", "Quinn", "Avery"}
	lastNames := []string{"Smith", "Jones", "Garcia", "Chen", "Patel", "Novak", "Okafor", "Silva"}

	driver := Driver{
		FirstName:     firstNames[rand.Intn(len(firstNames))],
		LastName:      lastNames[rand.Intn(len(lastNames))],
		LicenseNumber: fmt.Sprintf("DL%07d", rand.Intn(10000000)),
		Status:        "active",
	}
	id, err := createResource(apiURL+"/drivers", driver)
	if err != nil {
		return "", fmt.Errorf("failed to create driver: %w", err)
	}
	log.WithField("driver_id", id).Info("Created driver")
	return id, nil
}

// --- Routing & movement ---

type VehicleRoute struct {
	Points    []Location
	SegIndex  int
	SegOffset float64 // km along current segment
}

type VehicleState struct {
	VehicleID  string
	DriverID   string
	TripID     string
	Type       string
	Position   Location
	SpeedKmh   float64
	FuelPct    float64
	BatteryPct float64
	TripStart  time.Time
	TripKm     float64
	Route      *VehicleRoute
}

func haversineKm(a, b Location) float64 {
	R := 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return R * c
}

func lerp(a, b Location, t float64) Location {
	return Location{Lat: a.Lat + (b.Lat-a.Lat)*t, Lon: a.Lon + (b.Lon-a.Lon)*t}
}

func fetchOSRMRoute(start, end Location) ([]Location, error) {
	url := fmt.Sprintf("https://router.project-osrm.org/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson", start.Lon, start.Lat, end.Lon, end.Lat)
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("osrm status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var obj struct {
		Routes []struct {
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, err
	}
	if len(obj.Routes) == 0 || len(obj.Routes[0].Geometry.Coordinates) < 2 {
		return nil, fmt.Errorf("no route")
	}
	coords := obj.Routes[0].Geometry.Coordinates
	pts := make([]Location, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		pts = append(pts, Location{Lat: c[1], Lon: c[0]})
	}
	return pts, nil
}

func planNewRoute(s *VehicleState) {
	start := s.Position
	var end Location
	for i := 0; i < 10; i++ {
		cand := cities[rand.Intn(len(cities))]
		if haversineKm(start, cand) > 50 {
			end = jitterLocation(cand, 500)
			break
		}
	}
	pts, err := fetchOSRMRoute(start, end)
	if err != nil {
		// fallback small jitter loop
		s.Route = &VehicleRoute{Points: []Location{start, jitterLocation(start, 2000)}}
		return
	}
	s.Route = &VehicleRoute{Points: pts}
}

func stepAlongRoute(s *VehicleState, tickSec float64) {
	if s.Route == nil || len(s.Route.Points) < 2 {
		planNewRoute(s)
	}
	remKm := s.SpeedKmh * (tickSec / 3600.0)
	s.TripKm += remKm
	for remKm > 0 && s.Route.SegIndex < len(s.Route.Points)-1 {
		a := s.Route.Points[s.Route.SegIndex]
		b := s.Route.Points[s.Route.SegIndex+1]
		segLen := haversineKm(a, b)
		leftOnSeg := segLen - s.Route.SegOffset
		if remKm >= leftOnSeg {
			s.Position = b
			s.Route.SegIndex++
			s.Route.SegOffset = 0
			remKm -= leftOnSeg
			continue
		}
		t := (s.Route.SegOffset + remKm) / segLen
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		s.Position = lerp(a, b, t)
		s.Route.SegOffset += remKm
		remKm = 0
	}
	if s.Route.SegIndex >= len(s.Route.Points)-1 {
		planNewRoute(s)
	}
}

func telemetryFromState(s *VehicleState) Telemetry {
	em := 0.0
	if s.Type == "ICE" {
		em = 120 + 0.3*s.SpeedKmh
	}
	t := Telemetry{
		VehicleID: s.VehicleID,
		TripID:    s.TripID,
		Timestamp: time.Now(),
		Location:  s.Position,
		Speed:     s.SpeedKmh,
		Emissions: em,
	}
	if s.Type == "ICE" {
		t.FuelLevel = s.FuelPct
	} else {
		t.BatteryLevel = s.BatteryPct
	}
	return t
}

// publisher sends telemetry either over MQTT or HTTP.
type publisher struct {
	apiURL string
	mqtt   mqtt.Client
}

func newPublisher(apiURL, broker string) *publisher {
	p := &publisher{apiURL: apiURL}
	if broker == "" {
		return p
	}
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("fleet-sim-%d", rand.Intn(100000))).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Warn("MQTT connect failed, falling back to HTTP telemetry")
		return p
	}
	p.mqtt = client
	log.WithField("broker", broker).Info("Publishing telemetry over MQTT")
	return p
}

func (p *publisher) send(tele Telemetry) {
	data, err := json.Marshal(tele)
	if err != nil {
		log.WithError(err).Error("Failed to marshal telemetry")
		return
	}
	if p.mqtt != nil {
		topic := fmt.Sprintf("fleet/%s/telemetry", tele.VehicleID)
		if token := p.mqtt.Publish(topic, 1, false, data); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).Error("Failed to publish telemetry")
		}
		return
	}
	resp, err := authorizedPost(p.apiURL+"/telemetry", bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to send telemetry")
		return
	}
	defer resp.Body.Close()
	log.WithFields(log.Fields{"vehicle_id": tele.VehicleID, "status": resp.Status}).Debug("Sent telemetry")
}

func startTrip(apiURL string, s *VehicleState) {
	trip := Trip{
		VehicleID:     s.VehicleID,
		DriverID:      s.DriverID,
		StartLocation: s.Position,
		StartTime:     time.Now(),
		Purpose:       []string{"business", "delivery"}[rand.Intn(2)],
		Status:        "in_progress",
	}
	id, err := createResource(apiURL+"/trips", trip)
	if err != nil {
		log.WithError(err).Error("Failed to start trip")
		return
	}
	s.TripID = id
	s.TripStart = time.Now()
	s.TripKm = 0
	log.WithFields(log.Fields{"trip_id": id, "vehicle_id": s.VehicleID}).Info("Trip started")
}

func completeTrip(apiURL string, s *VehicleState) {
	if s.TripID == "" {
		return
	}
	trip := Trip{
		VehicleID:   s.VehicleID,
		DriverID:    s.DriverID,
		EndLocation: s.Position,
		StartTime:   s.TripStart,
		EndTime:     time.Now(),
		Distance:    s.TripKm,
		Duration:    time.Since(s.TripStart).Hours(),
		Purpose:     "business",
		Status:      "completed",
	}
	data, _ := json.Marshal(trip)
	resp, err := authorizedRequest(http.MethodPut, apiURL+"/trips/"+s.TripID, bytes.NewBuffer(data))
	if err != nil {
		log.WithError(err).Error("Failed to complete trip")
		return
	}
	resp.Body.Close()
	log.WithFields(log.Fields{"trip_id": s.TripID, "distance_km": s.TripKm}).Info("Trip completed")
	s.TripID = ""
}

func simulateVehicle(apiURL string, pub *publisher, s *VehicleState, interval time.Duration) {
	if s.Route == nil {
		planNewRoute(s)
	}
	startTrip(apiURL, s)

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		s.SpeedKmh += (rand.Float64()*2 - 1) * 1.5
		if s.SpeedKmh < 15 {
			s.SpeedKmh = 15
		}
		if s.SpeedKmh > 90 {
			s.SpeedKmh = 90
		}

		stepAlongRoute(s, interval.Seconds())

		km := s.SpeedKmh * (interval.Seconds() / 3600.0)
		if s.Type == "ICE" {
			s.FuelPct -= km * 0.4
			if s.FuelPct < 5 {
				s.FuelPct = 100
			}
		} else {
			s.BatteryPct -= km * 0.8
			if s.BatteryPct < 5 {
				s.BatteryPct = 100
			}
		}

		pub.send(telemetryFromState(s))

		// Trips roll over every so often so the feed keeps moving.
		if s.TripID != "" && time.Since(s.TripStart) > 5*time.Minute && rand.Float64() < 0.1 {
			completeTrip(apiURL, s)
			startTrip(apiURL, s)
		}
	}
}

func main() {
	// Optional JWT for protected API
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	fleetSize := 10
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			fleetSize = n
		}
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8081/api"
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	pub := newPublisher(apiURL, os.Getenv("MQTT_BROKER"))

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"interval":   interval,
	}).Info("Starting fleet simulation")

	states := make([]*VehicleState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		vtype := []string{"ICE", "EV"}[rand.Intn(2)]
		vehicleID, err := createVehicle(apiURL, vtype)
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		driverID, err := createDriver(apiURL)
		if err != nil {
			log.WithError(err).Error("Failed to create driver")
		}
		state := &VehicleState{
			VehicleID:  vehicleID,
			DriverID:   driverID,
			Type:       vtype,
			Position:   randomLocation(),
			SpeedKmh:   30 + rand.Float64()*30,
			FuelPct:    50 + rand.Float64()*50,
			BatteryPct: 50 + rand.Float64()*50,
		}
		states = append(states, state)
	}

	log.WithField("created_vehicles", len(states)).Info("Vehicle creation completed")
	if len(states) == 0 {
		log.Error("No vehicles created. Ensure SIM_AUTH_TOKEN is valid and API is reachable. Exiting.")
		time.Sleep(2 * time.Second)
		return
	}

	for _, s := range states {
		go simulateVehicle(apiURL, pub, s, interval)
	}

	log.Info("Telemetry simulation started")
	select {} // Block forever
}
