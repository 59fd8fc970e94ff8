package localstore

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"gigaaura/internal/models"
)

// Storage keys. The legacy shapes must keep their exact names so data written
// by earlier versions of this adapter stays readable.
const (
	keyPointsCurrent   = "aura_points_v2_"      // current-format JSON PointsState
	keyPointsBackup    = "giga_aura_points_"    // legacy direct-backup JSON blob
	keyPointsSimple    = "aura_points_total_"   // legacy integer-only total
	keyPointsEmergency = "aura_points_emergency_" // legacy emergency integer backup
)

// WritePoints persists the state under the current key and refreshes the
// legacy-compatible keys so older readers keep working. All failures are
// swallowed inside Set.
func (s *Store) WritePoints(wallet string, state models.PointsState) {
	b, err := json.Marshal(state)
	if err != nil {
		log.Printf("[localstore] marshal points for %s: %v", wallet, err)
		return
	}
	s.Set(keyPointsCurrent+wallet, b)
	s.Set(keyPointsBackup+wallet, b)
	total := strconv.FormatInt(state.TotalPoints, 10)
	s.Set(keyPointsSimple+wallet, []byte(total))
	s.Set(keyPointsEmergency+wallet, []byte(total))
}

// pointsParser is one source in the read fallback chain.
type pointsParser struct {
	name string
	load func(wallet string) (models.PointsState, bool)
}

// ReadPoints tries each known cache shape in fixed priority order and returns
// the first one that parses. ok=false means no source had usable data and the
// caller should apply the default grant.
func (s *Store) ReadPoints(wallet string) (models.PointsState, bool) {
	chain := []pointsParser{
		{"current", s.parseJSONPoints(keyPointsCurrent)},
		{"backup", s.parseJSONPoints(keyPointsBackup)},
		{"simple", s.parseTotalOnly(keyPointsSimple)},
		{"emergency", s.parseTotalOnly(keyPointsEmergency)},
	}
	for _, p := range chain {
		if state, ok := p.load(wallet); ok {
			return state, true
		}
	}
	return models.PointsState{}, false
}

func (s *Store) parseJSONPoints(prefix string) func(string) (models.PointsState, bool) {
	return func(wallet string) (models.PointsState, bool) {
		raw, ok := s.Get(prefix + wallet)
		if !ok {
			return models.PointsState{}, false
		}
		var state models.PointsState
		if err := json.Unmarshal(raw, &state); err != nil {
			log.Printf("[localstore] corrupt cache entry %s%s, skipping: %v", prefix, wallet, err)
			return models.PointsState{}, false
		}
		if state.Transactions == nil {
			state.Transactions = []models.Transaction{}
		}
		return state, true
	}
}

func (s *Store) parseTotalOnly(prefix string) func(string) (models.PointsState, bool) {
	return func(wallet string) (models.PointsState, bool) {
		raw, ok := s.Get(prefix + wallet)
		if !ok {
			return models.PointsState{}, false
		}
		total, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
		if err != nil {
			log.Printf("[localstore] corrupt cache entry %s%s, skipping: %v", prefix, wallet, err)
			return models.PointsState{}, false
		}
		return models.PointsState{TotalPoints: total, Transactions: []models.Transaction{}}, true
	}
}
