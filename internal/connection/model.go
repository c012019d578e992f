package connection

import "time"

// Connection is the durable relation between two users. There is at most one
// per unordered pair.
type Connection struct {
	ID        string    `json:"connection_id"`
	UserID1   string    `json:"user_id1"`
	UserID2   string    `json:"user_id2"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Connection) HasParticipant(userID string) bool {
	return userID != "" && (c.UserID1 == userID || c.UserID2 == userID)
}

// Other returns the participant that is not userID.
func (c Connection) Other(userID string) string {
	if c.UserID1 == userID {
		return c.UserID2
	}
	return c.UserID1
}

// IsUser1 reports whether userID occupies the user1 side.
func (c Connection) IsUser1(userID string) bool {
	return c.UserID1 == userID
}

// Summary is a connection as listed for one of its participants.
type Summary struct {
	Connection
	OtherUserID     string `json:"other_user_id"`
	OtherUserName   string `json:"other_user_name"`
	OtherUserAvatar string `json:"other_user_avatar,omitempty"`
	MatchCount      int    `json:"match_count"`
}

type Match struct {
	ID           string    `json:"match_id"`
	PlantID1     string    `json:"plant_id1"`
	PlantID2     string    `json:"plant_id2"`
	ConnectionID string    `json:"connection_id"`
	CreatedAt    time.Time `json:"created_at"`
}
