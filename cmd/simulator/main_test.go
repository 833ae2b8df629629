package main

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRandomLocation(t *testing.T) {
	for i := 0; i < 50; i++ {
		loc := randomLocation()
		if loc.Lat < -90 || loc.Lat > 90 {
			t.Errorf("latitude out of range: %f", loc.Lat)
		}
		if loc.Lon < -180 || loc.Lon > 180 {
			t.Errorf("longitude out of range: %f", loc.Lon)
		}
	}
}

func TestJitterLocation_StaysClose(t *testing.T) {
	base := Location{Lat: 51.5074, Lon: -0.1278}
	for i := 0; i < 50; i++ {
		got := jitterLocation(base, 500)
		if d := haversineKm(base, got); d > 1.0 {
			t.Errorf("jittered location %f km away, want under 1 km", d)
		}
	}
}

func TestRandomPlate(t *testing.T) {
	for i := 0; i < 20; i++ {
		plate := randomPlate()
		if len(plate) != 8 {
			t.Errorf("plate %q has length %d, want 8", plate, len(plate))
		}
		if !strings.Contains(plate, " ") {
			t.Errorf("plate %q missing separator", plate)
		}
	}
}

func TestRandomVIN(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		vin := randomVIN()
		if len(vin) != 17 {
			t.Errorf("VIN %q has length %d, want 17", vin, len(vin))
		}
		seen[vin] = true
	}
	if len(seen) < 2 {
		t.Error("VINs are not random")
	}
}

func TestHaversineKm(t *testing.T) {
	london := Location{Lat: 51.5074, Lon: -0.1278}
	paris := Location{Lat: 48.8566, Lon: 2.3522}
	d := haversineKm(london, paris)
	// Roughly 344 km as the crow flies.
	if d < 330 || d > 360 {
		t.Errorf("London-Paris distance %f km, want ~344", d)
	}
	if haversineKm(london, london) != 0 {
		t.Error("distance to self should be zero")
	}
}

func TestLerp(t *testing.T) {
	a := Location{Lat: 0, Lon: 0}
	b := Location{Lat: 10, Lon: 20}
	mid := lerp(a, b, 0.5)
	if mid.Lat != 5 || mid.Lon != 10 {
		t.Errorf("midpoint = %+v, want {5 10}", mid)
	}
	if got := lerp(a, b, 0); got != a {
		t.Errorf("t=0 should return start, got %+v", got)
	}
	if got := lerp(a, b, 1); got != b {
		t.Errorf("t=1 should return end, got %+v", got)
	}
}

func TestStepAlongRoute_AdvancesAndAccumulates(t *testing.T) {
	start := Location{Lat: 51.5074, Lon: -0.1278}
	end := Location{Lat: 51.6074, Lon: -0.1278} // ~11 km north
	s := &VehicleState{
		Position: start,
		SpeedKmh: 60,
		Route:    &VehicleRoute{Points: []Location{start, end}},
	}

	stepAlongRoute(s, 60) // one minute at 60 km/h = 1 km

	if s.Position == start {
		t.Error("position did not advance")
	}
	if math.Abs(s.TripKm-1.0) > 0.01 {
		t.Errorf("trip odometer = %f, want ~1.0", s.TripKm)
	}
	moved := haversineKm(start, s.Position)
	if moved < 0.9 || moved > 1.1 {
		t.Errorf("moved %f km in one tick, want ~1.0", moved)
	}
}

func TestTelemetryFromState_ICE(t *testing.T) {
	s := &VehicleState{
		VehicleID: "v1",
		TripID:    "t1",
		Type:      "ICE",
		Position:  Location{Lat: 51.5, Lon: -0.12},
		SpeedKmh:  60,
		FuelPct:   75,
	}
	tele := telemetryFromState(s)

	if tele.VehicleID != "v1" || tele.TripID != "t1" {
		t.Errorf("IDs not carried: %+v", tele)
	}
	if tele.FuelLevel != 75 {
		t.Errorf("fuel level = %f, want 75", tele.FuelLevel)
	}
	if tele.BatteryLevel != 0 {
		t.Errorf("ICE vehicle should not report battery, got %f", tele.BatteryLevel)
	}
	if tele.Emissions <= 0 {
		t.Error("ICE vehicle should report emissions")
	}
}

func TestTelemetryFromState_EV(t *testing.T) {
	s := &VehicleState{
		VehicleID:  "v2",
		Type:       "EV",
		SpeedKmh:   50,
		BatteryPct: 40,
	}
	tele := telemetryFromState(s)

	if tele.BatteryLevel != 40 {
		t.Errorf("battery level = %f, want 40", tele.BatteryLevel)
	}
	if tele.Emissions != 0 {
		t.Errorf("EV should report zero emissions, got %f", tele.Emissions)
	}
}

func TestCreateResource_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "abc123"})
	}))
	defer srv.Close()

	id, err := createResource(srv.URL+"/vehicles", Vehicle{Make: "Ford"})
	if err != nil {
		t.Fatalf("createResource failed: %v", err)
	}
	if id != "abc123" {
		t.Errorf("id = %q, want abc123", id)
	}
}

func TestCreateResource_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := createResource(srv.URL+"/vehicles", Vehicle{}); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestPublisher_HTTPSend(t *testing.T) {
	var received Telemetry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/telemetry" {
			t.Errorf("path = %s, want /api/telemetry", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pub := newPublisher(srv.URL+"/api", "")
	pub.send(Telemetry{VehicleID: "v1", Timestamp: time.Now(), Speed: 42})

	if received.VehicleID != "v1" {
		t.Errorf("server received vehicle %q, want v1", received.VehicleID)
	}
	if received.Speed != 42 {
		t.Errorf("server received speed %f, want 42", received.Speed)
	}
}

func TestAuthorizedPost_SetsBearer(t *testing.T) {
	authToken = "test-token"
	defer func() { authToken = "" }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := authorizedPost(srv.URL, nil)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	resp.Body.Close()
}
