package lobby

import "Playroom/models"

// Gate is the ready-gate view of a room
type Gate struct {
	CanStart bool `json:"canStart"`
	AllReady bool `json:"allReady"`
}

// EvaluateGate computes whether room has enough players and whether every non-host
// player is ready. With no non-host players AllReady falls back to CanStart, so a
// host can start alone against computer opponents.
func EvaluateGate(room *models.Room) Gate {
	canStart := len(room.Players) >= room.MinPlayers
	others := 0
	allReady := true
	for _, p := range room.Players {
		if p.IsHost {
			continue
		}
		others++
		if !p.IsReady {
			allReady = false
		}
	}
	if others == 0 {
		allReady = canStart
	}
	return Gate{CanStart: canStart, AllReady: allReady}
}

// CanStart reports whether callerID may move room from WAITING to PLAYING right now
func CanStart(room *models.Room, callerID string) bool {
	if room.Status != models.StatusWaiting {
		return false
	}
	p, ok := room.Player(callerID)
	if !ok || !p.IsHost || room.HostID != callerID {
		return false
	}
	g := EvaluateGate(room)
	return g.CanStart && g.AllReady
}
