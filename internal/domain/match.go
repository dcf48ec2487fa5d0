package domain

import "time"

// Swipe is one user's decision on a suggested profile.
type Swipe struct {
	SwiperID  string    `json:"swiper_id"`
	SwipedID  string    `json:"swiped_id"`
	IsLike    bool      `json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
}

// Match is created when two users like each other. User1ID sorts before
// User2ID and the id doubles as the conversation id.
type Match struct {
	ID        string    `json:"id"`
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMatch(userA, userB string, now time.Time) *Match {
	if userA > userB {
		userA, userB = userB, userA
	}
	return &Match{
		ID:        ConversationID(userA, userB),
		User1ID:   userA,
		User2ID:   userB,
		CreatedAt: now,
	}
}

func (m *Match) HasUser(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

func (m *Match) GetOtherUserID(userID string) (string, bool) {
	if m.User1ID == userID {
		return m.User2ID, true
	}
	if m.User2ID == userID {
		return m.User1ID, true
	}
	return "", false
}
