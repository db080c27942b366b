package fifa

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

func TestToRawMatch_NilSubObjects(t *testing.T) {
	payload := []byte(`{"PerformanceId":"p-1","MatchNumber":33,"Stage":"Group Stage","MatchDate":"2026-06-20","MatchDayTime":"17:00"}`)

	var m apiMatch
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	raw := toRawMatch(m)
	if raw.MatchNumber != 33 || raw.PerformanceID != "p-1" {
		t.Errorf("unexpected mapping: %+v", raw)
	}
	// Teams and venue absent from the payload stay empty here; the
	// normalizer applies the TBD placeholder later.
	if raw.HostTeam != "" || raw.OpposingTeam != "" || raw.Venue.Name != "" {
		t.Errorf("absent sub-objects must map to empty strings: %+v", raw)
	}
}

func TestToRawMatch_FullPayload(t *testing.T) {
	payload := []byte(`{
		"PerformanceId": "p-2",
		"MatchNumber": 7,
		"Stage": "Group Stage",
		"HostTeam": {"ExternalName": "Mexico", "Code": "MEX"},
		"OpposingTeam": {"ExternalName": "Canada", "Code": "CAN"},
		"Venue": {"Name": "Estadio Azteca", "Town": "Mexico City", "Country": "Mexico"},
		"MatchDate": "2026-06-11",
		"MatchDayTime": "20:00"
	}`)

	var m apiMatch
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	raw := toRawMatch(m)
	if raw.HostTeam != "Mexico" || raw.OpposingTeam != "Canada" {
		t.Errorf("teams = %q vs %q", raw.HostTeam, raw.OpposingTeam)
	}
	if raw.Venue.Town != "Mexico City" || raw.Venue.Country != "Mexico" {
		t.Errorf("venue = %+v", raw.Venue)
	}
}

func TestToRawCategories(t *testing.T) {
	payload := []byte(`[
		{"name": "Champions Club", "hasAvailableSeats": true,
		 "priceCategories": [{"isAvailable": true, "amount": 2100.0}, {"isAvailable": false, "amount": 1800.0}]},
		{"name": "VIP", "hasAvailableSeats": false, "priceCategories": []}
	]`)

	var cats []apiCategory
	if err := json.Unmarshal(payload, &cats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	raw := toRawCategories(cats)
	if len(raw) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(raw))
	}
	if !raw[0].HasAvailableSeats || raw[1].HasAvailableSeats {
		t.Errorf("availability flags lost: %+v", raw)
	}
	if len(raw[0].PriceCategories) != 2 || raw[0].PriceCategories[0].Amount != 2100 {
		t.Errorf("price entries lost: %+v", raw[0].PriceCategories)
	}
}

func TestReadBodyDecode_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(`[{"title":"VIP","comparePrice":"$950"}]`))
	zw.Close()

	resp := &http.Response{
		Header: http.Header{"Content-Encoding": []string{"gzip"}},
		Body:   io.NopCloser(&buf),
	}

	body, err := readBodyDecode(resp)
	if err != nil {
		t.Fatalf("readBodyDecode() error = %v", err)
	}

	var lounges []apiLounge
	if err := json.Unmarshal(body, &lounges); err != nil {
		t.Fatalf("decoded body must be valid JSON: %v", err)
	}
	if len(lounges) != 1 || lounges[0].ComparePrice != "$950" {
		t.Errorf("unexpected lounges: %+v", lounges)
	}
}

func TestReadBodyDecode_Identity(t *testing.T) {
	resp := &http.Response{
		Header: http.Header{},
		Body:   io.NopCloser(bytes.NewReader([]byte("plain"))),
	}

	body, err := readBodyDecode(resp)
	if err != nil {
		t.Fatalf("readBodyDecode() error = %v", err)
	}
	if string(body) != "plain" {
		t.Errorf("identity decode = %q", body)
	}
}
