package messages

// Init is sent by the server right after the websocket opens. It identifies
// the receiving client's own player.
type Init struct {
	PlayerID string     `json:"player_id"`
	Player   PlayerData `json:"player"`
	Config   GameConfig `json:"config"`
}

// GameConfig carries the arena dimensions and movement speed.
type GameConfig struct {
	CanvasWidth  float64 `json:"canvas_width"`
	CanvasHeight float64 `json:"canvas_height"`
	PlayerSpeed  float64 `json:"player_speed"`
}

// PlayerJoined is broadcast when another client connects.
type PlayerJoined struct {
	PlayerID string     `json:"player_id"`
	Player   PlayerData `json:"player"`
}

// PlayerLeft is broadcast when a client disconnects.
type PlayerLeft struct {
	PlayerID string `json:"player_id"`
}

// PlayerNameChanged is broadcast after a successful rename.
type PlayerNameChanged struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// Error is sent when the server rejects a request.
type Error struct {
	Message string `json:"message"`
}
